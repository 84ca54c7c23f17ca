package router

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/unleaktrade/site/content"
	"github.com/unleaktrade/site/store"
	"github.com/unleaktrade/site/types"
	"github.com/unleaktrade/site/validate"
	"github.com/unleaktrade/site/waitlist"
)

// Waitlist is the remote service behind the signup and activation forms.
type Waitlist interface {
	Register(ctx context.Context, req types.RegistrationRequest) (waitlist.Registration, error)
	Activate(ctx context.Context, token, hash string) (waitlist.Activation, error)
}

// Site holds what the handlers share.
type Site struct {
	Brand string
	// PublicOrigin, when set, is used for referral links instead of the
	// request's own scheme and host.
	PublicOrigin string
	Waitlist     Waitlist
	Visitors     store.Backend
	Content      *content.Catalog
	SubmitRate   rate.Limit
	SubmitBurst  int
}

func (s *Site) RegisterRoutes(e *echo.Echo) {
	e.Renderer = newRenderer(s.Content)
	e.Validator = validate.New()
	e.Use(store.Middleware(s.Visitors))

	submit := []echo.MiddlewareFunc{middleware.BodyLimit("2K")}
	if s.SubmitRate > 0 {
		submit = append(submit, s.submitLimiter())
	}

	e.StaticFS("/static", echo.MustSubFS(staticFiles, "static"))
	e.GET("/up", getUp)

	e.GET("/", s.getHome)
	e.GET("/roadmap", s.getRoadmap)
	e.GET("/team", s.getTeam)
	e.GET("/team/:member", s.getTeam)
	e.GET("/coming-soon", s.getComingSoon)

	e.GET("/waitlist", s.getWaitlist)
	e.GET("/waitlist/:sponsor", s.getWaitlist, lockedSponsor)
	e.POST("/waitlist", s.postWaitlist, submit...)
	e.POST("/waitlist/:sponsor", s.postWaitlist, append(submit, lockedSponsor)...)
	e.POST("/api/waitlist/validate", postValidate, middleware.BodyLimit("2K"))

	e.GET("/activate/:token", s.getActivate)
	e.POST("/activate/:token", s.postActivate, submit...)

	e.GET("/referral", s.getReferral)
	e.GET("/referral/qr.png", s.getReferralQR)
	e.GET("/referral/download", s.getReferralPoster)

	e.RouteNotFound("/*", redirectHome)
}

func (s *Site) submitLimiter() echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      s.SubmitRate,
			Burst:     s.SubmitBurst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many submissions. Please wait a moment and try again.")
		},
	})
}

// origin is the scheme and host referral links are built on.
func (s *Site) origin(c echo.Context) string {
	if s.PublicOrigin != "" {
		return s.PublicOrigin
	}
	return c.Scheme() + "://" + c.Request().Host
}

func getUp(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func redirectHome(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/")
}
