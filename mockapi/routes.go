package mockapi

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/unleaktrade/site/types"
	"github.com/unleaktrade/site/validate"
)

func (r *Registry) RegisterRoutes(e *echo.Echo) {
	e.POST("/register", r.postRegister, middleware.BodyLimit("2K"))
	e.POST("/activate/:token/:hash", r.postActivate)
	e.GET("/outbox/:address", r.getOutbox)
}

// Mail is what the verification email for an applicant would carry.
type Mail struct {
	To   string `json:"to"`
	Link string `json:"link"`
	Hash string `json:"hash"`
}

func (r *Registry) postRegister(c echo.Context) error {
	var req types.RegistrationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, types.RegistrationError{Message: "invalid body"})
	}
	switch {
	case !validate.IsOnCurveAddress(req.Address):
		return c.JSON(http.StatusBadRequest, types.RegistrationError{Message: "Invalid wallet address"})
	case !validate.IsValidEmail(req.Email):
		return c.JSON(http.StatusBadRequest, types.RegistrationError{Message: "Invalid email address"})
	case !validate.IsOnCurveAddress(req.Sponsor):
		return c.JSON(http.StatusBadRequest, types.RegistrationError{Message: "Invalid sponsor address"})
	}

	a, err := r.Register(req.Address, req.Email, req.Sponsor)
	switch {
	case errors.Is(err, ErrAlreadyRegistered):
		return c.JSON(http.StatusConflict, types.RegistrationError{Message: "This wallet address is already on the waitlist"})
	case errors.Is(err, ErrSelfSponsor):
		return c.JSON(http.StatusBadRequest, types.RegistrationError{Message: "You cannot sponsor yourself"})
	case err != nil:
		return err
	}

	// stands in for the verification email
	c.Logger().Infof("activation for %s: %s code %s", a.Email, r.ActivationLink(a.Token), a.Hash)
	return c.JSON(http.StatusAccepted, types.RegistrationResponse{Hash: a.Hash})
}

func (r *Registry) postActivate(c echo.Context) error {
	a, err := r.Activate(c.Param("token"), c.Param("hash"))
	switch {
	case errors.Is(err, ErrUnknownToken):
		return c.JSON(http.StatusUnauthorized, types.ActivationError{Error: err.Error()})
	case errors.Is(err, ErrAlreadyActivated):
		return c.JSON(http.StatusConflict, types.ActivationError{Error: err.Error()})
	case errors.Is(err, ErrSponsorNotFound):
		return c.JSON(http.StatusBadRequest, types.ActivationError{Error: err.Error()})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, types.ActivationError{Error: err.Error()})
	}
	return c.JSON(http.StatusCreated, types.ActivationResponse{Address: a.Address})
}

// getOutbox shows the verification email that was not sent.
func (r *Registry) getOutbox(c echo.Context) error {
	a, ok := r.Lookup(c.Param("address"))
	if !ok {
		return c.JSON(http.StatusNotFound, types.ActivationError{Error: "no registration for address"})
	}
	return c.JSON(http.StatusOK, Mail{To: a.Email, Link: r.ActivationLink(a.Token), Hash: a.Hash})
}
