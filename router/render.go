package router

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/unleaktrade/site/content"
	"github.com/unleaktrade/site/referral"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// renderer keeps one template set per page, each parsed together with the
// layout. "page" renders the full layout, "page.block" one named block.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer(catalog *content.Catalog) *renderer {
	funcs := template.FuncMap{
		"markdown": catalog.Markdown,
		"short":    referral.ShortAddress,
		"lower":    strings.ToLower,
	}

	names, err := fs.Glob(templateFiles, "templates/*.html")
	if err != nil {
		panic(err)
	}
	r := &renderer{pages: make(map[string]*template.Template)}
	for _, name := range names {
		base := strings.TrimSuffix(path.Base(name), ".html")
		if base == "layout" {
			continue
		}
		r.pages[base] = template.Must(template.New(base).Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", name))
	}
	return r
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	page, block, _ := strings.Cut(name, ".")
	if block == "" {
		block = "layout"
	}
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	return t.ExecuteTemplate(w, block, data)
}
