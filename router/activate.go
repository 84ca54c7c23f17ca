package router

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/unleaktrade/site/notice"
	"github.com/unleaktrade/site/store"
	"github.com/unleaktrade/site/types"
	"github.com/unleaktrade/site/validate"
	"github.com/unleaktrade/site/waitlist"
)

type activateView struct {
	page
	Token     string
	Form      types.ActivationForm
	Errors    map[string]string
	Failure   *notice.Rendered
	CanSubmit bool
}

type activatedView struct {
	page
	Address string
}

// canActivate mirrors the submit control: a well-formed hash that is not the
// one the service last refused.
func canActivate(form types.ActivationForm) bool {
	return validate.IsValidSHA3Hash(form.Hash) && (form.ErrorHash == "" || form.Hash != form.ErrorHash)
}

func (s *Site) getActivate(c echo.Context) error {
	hash, _ := store.FromContext(c).RegistrationHash()
	v := activateView{
		page:  s.newPage(c, "Activate Your Spot"),
		Token: c.Param("token"),
		Form:  types.ActivationForm{Hash: hash},
	}
	v.CanSubmit = canActivate(v.Form)
	return c.Render(http.StatusOK, "activate", v)
}

func (s *Site) postActivate(c echo.Context) error {
	var form types.ActivationForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	form.Hash = strings.TrimSpace(form.Hash)
	form.ErrorHash = strings.TrimSpace(form.ErrorHash)

	v := activateView{
		page:  s.newPage(c, "Activate Your Spot"),
		Token: c.Param("token"),
		Form:  form,
	}

	if err := c.Validate(&v.Form); err != nil {
		v.Errors = validate.FieldErrors(err)
		if v.Errors == nil {
			return err
		}
		return c.Render(http.StatusUnprocessableEntity, "activate", v)
	}
	if !canActivate(v.Form) {
		v.Failure = v.render(notice.Error(notice.ActivationFailed, notice.HashUnchanged))
		return c.Render(http.StatusUnprocessableEntity, "activate", v)
	}

	act, err := s.Waitlist.Activate(c.Request().Context(), v.Token, v.Form.Hash)
	if err != nil {
		c.Logger().Warnf("activate %s: %v", v.Token, err)
		v.Failure = v.render(notice.Error(notice.NetworkError, notice.ActivationNetworkDetail))
		v.CanSubmit = canActivate(v.Form)
		return c.Render(http.StatusBadGateway, "activate", v)
	}

	if act.Outcome == waitlist.Activated {
		if act.Address != "" {
			if err := store.FromContext(c).SetWalletAddress(act.Address); err != nil {
				c.Logger().Errorf("store wallet address: %v", err)
			}
		}
		done := activatedView{page: v.page, Address: act.Address}
		done.HasWallet = done.HasWallet || act.Address != ""
		done.Notice = done.render(notice.Success(notice.ActivationSucceeded, ""))
		return c.Render(http.StatusOK, "activated", done)
	}

	status, n := activationFailure(act)
	v.Failure = v.render(n)
	if act.Outcome.LocksHash() {
		v.Form.ErrorHash = v.Form.Hash
	}
	v.CanSubmit = canActivate(v.Form)
	return c.Render(status, "activate", v)
}

// activationFailure maps a refused activation to its response status and
// the notice shown above the form.
func activationFailure(act waitlist.Activation) (int, notice.Notice) {
	switch act.Outcome {
	case waitlist.AccessDenied:
		return http.StatusForbidden, notice.Error(notice.ActivationFailed, notice.ActivationDeniedDetail)
	case waitlist.AlreadyActivated:
		return http.StatusConflict, notice.Error(notice.AlreadyActivated, notice.AlreadyActivatedDetail)
	case waitlist.SponsorNotFound:
		return http.StatusUnprocessableEntity, notice.Error(notice.SponsorNotFound, notice.SponsorNotFoundDetail)
	case waitlist.ServerError:
		n := notice.Error(notice.ServerError, notice.UnexpectedDetail)
		n.DetailText = act.Message
		return http.StatusBadGateway, n
	default:
		return http.StatusBadGateway, notice.Error(notice.ActivationFailed, notice.UnexpectedDetail)
	}
}
