package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unleaktrade/site/notice"
	"github.com/unleaktrade/site/store"
	"github.com/unleaktrade/site/types"
	"github.com/unleaktrade/site/validate"
)

const sponsorKey = "locked_sponsor"

// lockedSponsor admits /waitlist/:sponsor only for an on-curve sponsor and
// pins it for the handler. Anything else is sent home with a notice.
func lockedSponsor(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sponsor := c.Param("sponsor")
		if !validate.IsOnCurveAddress(sponsor) {
			notice.Write(c, notice.Error(notice.SponsorInvalid, notice.SponsorInvalidDetail))
			return c.Redirect(http.StatusSeeOther, "/")
		}
		c.Set(sponsorKey, sponsor)
		return next(c)
	}
}

type waitlistView struct {
	page
	Form      types.WaitlistForm
	Errors    map[string]string
	Locked    bool
	Action    string
	Failure   *notice.Rendered
	CanSubmit bool
	Sent      bool
}

func (s *Site) waitlistPage(c echo.Context, form types.WaitlistForm) waitlistView {
	v := waitlistView{
		page:   s.newPage(c, "Join the Waitlist"),
		Form:   form,
		Action: c.Request().URL.Path,
	}
	if sponsor, ok := c.Get(sponsorKey).(string); ok {
		v.Form.Sponsor = sponsor
		v.Locked = true
	}
	v.CanSubmit = c.Validate(&v.Form) == nil
	return v
}

func (s *Site) getWaitlist(c echo.Context) error {
	v := s.waitlistPage(c, types.WaitlistForm{})
	v.Sent = v.flash.Title == notice.WaitlistSent
	return c.Render(http.StatusOK, "waitlist", v)
}

func (s *Site) postWaitlist(c echo.Context) error {
	var form types.WaitlistForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	v := s.waitlistPage(c, form)

	if err := c.Validate(&v.Form); err != nil {
		v.Errors = validate.FieldErrors(err)
		if v.Errors == nil {
			return err
		}
		return c.Render(http.StatusUnprocessableEntity, "waitlist", v)
	}

	reg, err := s.Waitlist.Register(c.Request().Context(), types.RegistrationRequest{
		Address: v.Form.Address,
		Email:   v.Form.Email,
		Sponsor: v.Form.Sponsor,
	})
	if err != nil {
		c.Logger().Warnf("register %s: %v", v.Form.Address, err)
		v.Failure = v.render(notice.Error(notice.NetworkError, notice.WaitlistNetworkDetail))
		return c.Render(http.StatusBadGateway, "waitlist", v)
	}
	if !reg.Accepted {
		n := notice.Error(notice.WaitlistFailed, notice.WaitlistFailedDetail)
		n.DetailText = reg.Message
		v.Failure = v.render(n)
		return c.Render(http.StatusUnprocessableEntity, "waitlist", v)
	}

	if reg.Hash != "" {
		if err := store.FromContext(c).SetRegistrationHash(reg.Hash); err != nil {
			c.Logger().Errorf("store registration hash: %v", err)
		}
	}
	notice.Write(c, notice.Success(notice.WaitlistSent, notice.WaitlistSentDetail))
	return c.Redirect(http.StatusSeeOther, v.Action)
}

// postValidate reports per-field problems for the page script, so fields can
// be checked as the visitor types.
func postValidate(c echo.Context) error {
	var form types.WaitlistForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	res := types.ValidationResult{Valid: true, Errors: map[string]string{}}
	if err := c.Validate(&form); err != nil {
		errs := validate.FieldErrors(err)
		if errs == nil {
			return err
		}
		res.Valid = false
		res.Errors = errs
	}
	return c.JSON(http.StatusOK, res)
}
