// Package notice provides one-time notices persisted across a redirect, and
// the message catalog their texts come from.
package notice

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/message"
)

const CookieName = "unleak_flash"

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notice references catalog keys. Detail may instead carry literal text
// from the waitlist service.
type Notice struct {
	Kind       Kind   `json:"kind"`
	Title      string `json:"title"`
	Detail     string `json:"detail,omitempty"`
	DetailText string `json:"detail_text,omitempty"`
}

func Success(title, detail string) Notice {
	return Notice{Kind: KindSuccess, Title: title, Detail: detail}
}

func Error(title, detail string) Notice {
	return Notice{Kind: KindError, Title: title, Detail: detail}
}

// Rendered is a notice ready for a template.
type Rendered struct {
	Kind   Kind
	Title  string
	Detail string
}

func (n Notice) Render(p *message.Printer) Rendered {
	r := Rendered{Kind: n.Kind, Title: Text(p, n.Title)}
	switch {
	case n.DetailText != "":
		r.Detail = n.DetailText
	case n.Detail != "":
		r.Detail = Text(p, n.Detail)
	}
	return r
}

// Write stores n for the next page render.
func Write(c echo.Context, n Notice) {
	normalized, ok := normalize(n)
	if !ok {
		return
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadAndClear returns the pending notice, if any, and expires its cookie.
// An unreadable cookie is still cleared.
func ReadAndClear(c echo.Context) (Notice, bool) {
	cookie, err := c.Cookie(CookieName)
	if err != nil {
		return Notice{}, false
	}
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	return decode(cookie.Value)
}

func decode(raw string) (Notice, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return Notice{}, false
	}
	decoded, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return Notice{}, false
	}
	var n Notice
	if err := json.Unmarshal(decoded, &n); err != nil {
		return Notice{}, false
	}
	return normalize(n)
}

func normalize(n Notice) (Notice, bool) {
	n.Title = strings.TrimSpace(n.Title)
	if _, known := english[n.Title]; !known {
		return Notice{}, false
	}
	if n.Detail != "" {
		if _, known := english[n.Detail]; !known {
			n.Detail = ""
		}
	}
	switch n.Kind {
	case KindSuccess, KindError:
		return n, true
	}
	return Notice{}, false
}
