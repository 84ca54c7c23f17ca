package store

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = bytes.Repeat([]byte("k"), 32)

func setupVisitorServer(backend Backend) *echo.Echo {
	e := echo.New()
	e.Use(Middleware(backend))
	e.POST("/remember", func(c echo.Context) error {
		v := FromContext(c)
		if err := v.SetRegistrationHash(c.FormValue("hash")); err != nil {
			return err
		}
		if err := v.SetWalletAddress(c.FormValue("address")); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/recall", func(c echo.Context) error {
		v := FromContext(c)
		hash, _ := v.RegistrationHash()
		address, _ := v.WalletAddress()
		return c.String(http.StatusOK, hash+"|"+address)
	})
	return e
}

func remember(t *testing.T, e *echo.Echo, hash, address string) []*http.Cookie {
	t.Helper()
	body := strings.NewReader("hash=" + hash + "&address=" + address)
	req := httptest.NewRequest(http.MethodPost, "/remember", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	return rec.Result().Cookies()
}

func recall(e *echo.Echo, cookies ...*http.Cookie) string {
	req := httptest.NewRequest(http.MethodGet, "/recall", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Body.String()
}

func lastCookie(cookies []*http.Cookie, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range cookies {
		if c.Name == name {
			found = c
		}
	}
	return found
}

func TestCookieBackendRoundTrip(t *testing.T) {
	backend, err := NewCookieBackend(testSecret, false)
	require.NoError(t, err)
	e := setupVisitorServer(backend)

	cookie := lastCookie(remember(t, e, "abc123", "wallet"), CookieName)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)

	assert.Equal(t, "abc123|wallet", recall(e, cookie))
	assert.Equal(t, "|", recall(e))
}

func TestCookieBackendIgnoresTamperedCookie(t *testing.T) {
	backend, err := NewCookieBackend(testSecret, false)
	require.NoError(t, err)
	e := setupVisitorServer(backend)

	cookie := lastCookie(remember(t, e, "abc123", "wallet"), CookieName)
	require.NotNil(t, cookie)

	forged := *cookie
	forged.Value = cookie.Value[:len(cookie.Value)-4] + "AAAA"
	assert.Equal(t, "|", recall(e, &forged))

	other, err := NewCookieBackend(bytes.Repeat([]byte("z"), 32), false)
	require.NoError(t, err)
	assert.Equal(t, "|", recall(setupVisitorServer(other), cookie))
}

func TestNewCookieBackendRejectsShortSecret(t *testing.T) {
	_, err := NewCookieBackend([]byte("short"), false)
	assert.Error(t, err)
}

func TestBoltBackendRoundTrip(t *testing.T) {
	backend, err := OpenBolt(filepath.Join(t.TempDir(), "visitors.db"), false)
	require.NoError(t, err)
	defer backend.Close()
	e := setupVisitorServer(backend)

	cookies := remember(t, e, "feed", "wallet")
	id := lastCookie(cookies, VisitorIDCookie)
	require.NotNil(t, id)
	assert.Len(t, cookies, 1, "one id cookie even with two writes")

	assert.Equal(t, "feed|wallet", recall(e, id))
	assert.Equal(t, "|", recall(e, &http.Cookie{Name: VisitorIDCookie, Value: "not-a-uuid"}))
}

func TestOpenBoltRequiresPath(t *testing.T) {
	_, err := OpenBolt("  ", false)
	assert.Error(t, err)
}

func TestEmptyValuesReadAsAbsent(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	v := FromContext(c)
	_, ok := v.RegistrationHash()
	assert.False(t, ok)

	require.NoError(t, v.SetRegistrationHash(""))
	_, ok = v.RegistrationHash()
	assert.False(t, ok)

	require.NoError(t, v.SetWalletAddress("wallet"))
	address, ok := v.WalletAddress()
	assert.True(t, ok)
	assert.Equal(t, "wallet", address)
}
