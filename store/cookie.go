package store

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

const (
	CookieName = "unleak_visitor"

	tokenContextKey = "visitor_token"
	cookieLifetime  = 365 * 24 * time.Hour
)

type visitorClaims struct {
	Values Values `json:"values,omitempty"`
	jwt.RegisteredClaims
}

// CookieBackend keeps the visitor's values in an HS256-signed token cookie.
// A missing, expired or tampered cookie reads as an empty visitor.
type CookieBackend struct {
	secret []byte
	secure bool
}

func NewCookieBackend(secret []byte, secure bool) (*CookieBackend, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("cookie secret must be at least 32 bytes, got %d", len(secret))
	}
	return &CookieBackend{secret: secret, secure: secure}, nil
}

// Middleware verifies the visitor cookie and leaves the parsed token in the
// context for Load. Verification failures are ignored.
func (b *CookieBackend) Middleware() echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    b.secret,
		SigningMethod: "HS256",
		TokenLookup:   "cookie:" + CookieName,
		ContextKey:    tokenContextKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(visitorClaims)
		},
		ContinueOnIgnoredError: true,
		ErrorHandler: func(c echo.Context, err error) error {
			if _, cerr := c.Cookie(CookieName); cerr == nil {
				c.Logger().Debugf("ignoring visitor cookie: %v", err)
			}
			return nil
		},
	})
}

func (b *CookieBackend) Load(c echo.Context) (Values, error) {
	token, ok := c.Get(tokenContextKey).(*jwt.Token)
	if !ok || !token.Valid {
		return Values{}, nil
	}
	claims, ok := token.Claims.(*visitorClaims)
	if !ok || claims.Values == nil {
		return Values{}, nil
	}
	return claims.Values, nil
}

func (b *CookieBackend) Save(c echo.Context, values Values) error {
	now := time.Now()
	claims := visitorClaims{
		Values: values,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cookieLifetime)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(b.secret)
	if err != nil {
		return fmt.Errorf("sign visitor cookie: %w", err)
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(cookieLifetime.Seconds()),
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
