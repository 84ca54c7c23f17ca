package router

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/unleaktrade/site/notice"
	"github.com/unleaktrade/site/referral"
	"github.com/unleaktrade/site/store"
)

type referralView struct {
	page
	Address      string
	Link         string
	QR           template.URL
	Share        referral.Share
	DownloadName string
	Toasts       map[string]string
}

// referralCode builds the code for the stored wallet. ok is false when the
// visitor has not activated.
func (s *Site) referralCode(c echo.Context) (code *referral.Code, address string, ok bool, err error) {
	address, ok = store.FromContext(c).WalletAddress()
	if !ok {
		return nil, "", false, nil
	}
	code, err = referral.New(referral.Link(s.origin(c), address))
	return code, address, true, err
}

func (s *Site) getReferral(c echo.Context) error {
	code, address, ok, err := s.referralCode(c)
	if err != nil {
		return err
	}
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	uri, err := code.DataURI(referral.DialogSize)
	if err != nil {
		return err
	}

	v := referralView{
		page:         s.newPage(c, "Share Your Referral"),
		Address:      address,
		Link:         code.Link(),
		QR:           template.URL(uri),
		Share:        referral.ShareTargets(code.Link(), s.Brand),
		DownloadName: referral.DownloadName(s.Brand),
	}
	v.Toasts = map[string]string{
		"copied":       v.text(notice.ReferralCopied),
		"copiedDetail": v.text(notice.ReferralCopiedDetail),
		"copyFailed":   v.text(notice.ReferralCopyFailed),
		"shareFailed":  v.text(notice.ReferralShareFailed),
		"downloaded":   v.text(notice.ReferralDownloaded),
	}

	if c.Request().Header.Get("X-Requested-With") == "fetch" {
		return c.Render(http.StatusOK, "referral.fragment", v)
	}
	return c.Render(http.StatusOK, "referral", v)
}

func (s *Site) getReferralQR(c echo.Context) error {
	code, _, ok, err := s.referralCode(c)
	if err != nil {
		return err
	}
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	raw, err := code.PNG(referral.DialogSize)
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/png", raw)
}

func (s *Site) getReferralPoster(c echo.Context) error {
	code, _, ok, err := s.referralCode(c)
	if err != nil {
		return err
	}
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	raw, err := code.Poster(s.Brand)
	if err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", referral.DownloadName(s.Brand)))
	return c.Blob(http.StatusOK, "image/png", raw)
}
