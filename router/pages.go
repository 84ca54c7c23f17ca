package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/message"

	"github.com/unleaktrade/site/content"
	"github.com/unleaktrade/site/notice"
	"github.com/unleaktrade/site/store"
)

// page is the data every layout render needs.
type page struct {
	Brand     string
	Title     string
	Path      string
	Home      *content.Home
	Notice    *notice.Rendered
	HasWallet bool

	printer *message.Printer
	flash   notice.Notice
}

func (s *Site) newPage(c echo.Context, title string) page {
	p := page{
		Brand:   s.Brand,
		Title:   title,
		Path:    c.Request().URL.Path,
		Home:    &s.Content.Home,
		printer: notice.Printer(c.Request().Header.Get("Accept-Language")),
	}
	if n, ok := notice.ReadAndClear(c); ok {
		r := n.Render(p.printer)
		p.Notice = &r
		p.flash = n
	}
	_, p.HasWallet = store.FromContext(c).WalletAddress()
	return p
}

func (p *page) render(n notice.Notice) *notice.Rendered {
	r := n.Render(p.printer)
	return &r
}

func (p *page) text(key string) string {
	return notice.Text(p.printer, key)
}

type homeView struct {
	page
	Query      string
	Category   string
	Categories []string
	FAQ        []content.Question
}

func (s *Site) getHome(c echo.Context) error {
	v := homeView{
		page:       s.newPage(c, ""),
		Query:      c.QueryParam("q"),
		Category:   c.QueryParam("category"),
		Categories: s.Content.Categories(),
	}
	v.FAQ = s.Content.SearchFAQ(v.Query, v.Category)
	return c.Render(http.StatusOK, "home", v)
}

type roadmapView struct {
	page
	Phases []content.Phase
}

func (s *Site) getRoadmap(c echo.Context) error {
	return c.Render(http.StatusOK, "roadmap", roadmapView{
		page:   s.newPage(c, "Roadmap"),
		Phases: s.Content.Roadmap,
	})
}

type teamView struct {
	page
	Team  []content.Member
	Focus string
}

func (s *Site) getTeam(c echo.Context) error {
	v := teamView{page: s.newPage(c, "Team"), Team: s.Content.Team}
	if slug := c.Param("member"); slug != "" {
		m, ok := s.Content.Member(slug)
		if !ok {
			return c.Redirect(http.StatusFound, "/team")
		}
		v.Focus = m.Anchor()
	}
	return c.Render(http.StatusOK, "team", v)
}

func (s *Site) getComingSoon(c echo.Context) error {
	return c.Render(http.StatusOK, "coming-soon", s.newPage(c, "Work in Progress"))
}
