// Package store carries the small set of values a visitor needs between
// pages: the registration hash handed out at signup and the wallet address
// returned on activation.
package store

import (
	"github.com/labstack/echo/v4"
)

// Key names one value kept for a visitor.
type Key string

const (
	RegistrationHash Key = "waitlist_registration_hash"
	WalletAddress    Key = "waitlist_wallet_address"
)

const visitorContextKey = "visitor"

// Values is everything stored for one visitor.
type Values map[Key]string

func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Backend persists a visitor's values. Implementations identify the visitor
// from the request and may set cookies on the response.
type Backend interface {
	Load(c echo.Context) (Values, error)
	Save(c echo.Context, values Values) error
}

// Visitor is the request-scoped view of one visitor's values.
type Visitor struct {
	backend Backend
	c       echo.Context
	values  Values
}

func Open(c echo.Context, backend Backend) (*Visitor, error) {
	values, err := backend.Load(c)
	if err != nil {
		return nil, err
	}
	if values == nil {
		values = Values{}
	}
	return &Visitor{backend: backend, c: c, values: values}, nil
}

func (v *Visitor) RegistrationHash() (string, bool) {
	return v.get(RegistrationHash)
}

func (v *Visitor) SetRegistrationHash(hash string) error {
	return v.set(RegistrationHash, hash)
}

func (v *Visitor) WalletAddress() (string, bool) {
	return v.get(WalletAddress)
}

func (v *Visitor) SetWalletAddress(address string) error {
	return v.set(WalletAddress, address)
}

func (v *Visitor) get(key Key) (string, bool) {
	val, ok := v.values[key]
	return val, ok && val != ""
}

func (v *Visitor) set(key Key, value string) error {
	v.values[key] = value
	return v.backend.Save(v.c, v.values.clone())
}

// Middleware opens the visitor once per request. A backend failure is logged
// and the request continues with an empty visitor. Backends that need to see
// the request first (the cookie backend) run their own middleware ahead of it.
func Middleware(backend Backend) echo.MiddlewareFunc {
	open := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			visitor, err := Open(c, backend)
			if err != nil {
				c.Logger().Warnf("load visitor: %v", err)
				visitor = &Visitor{backend: backend, c: c, values: Values{}}
			}
			c.Set(visitorContextKey, visitor)
			return next(c)
		}
	}
	if pre, ok := backend.(interface{ Middleware() echo.MiddlewareFunc }); ok {
		parse := pre.Middleware()
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return parse(open(next))
		}
	}
	return open
}

// FromContext returns the visitor opened by Middleware. Without it, writes
// are discarded.
func FromContext(c echo.Context) *Visitor {
	if v, ok := c.Get(visitorContextKey).(*Visitor); ok {
		return v
	}
	return &Visitor{backend: discard{}, c: c, values: Values{}}
}

type discard struct{}

func (discard) Load(echo.Context) (Values, error) { return Values{}, nil }
func (discard) Save(echo.Context, Values) error { return nil }
