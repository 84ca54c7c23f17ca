// Package content loads the site's static copy: home sections, FAQ, roadmap
// and team. The files are embedded so the binary serves them without a
// working directory.
package content

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var files embed.FS

type Home struct {
	Hero struct {
		Tagline  []string `yaml:"tagline"`
		Headline string   `yaml:"headline"`
		Lede     string   `yaml:"lede"`
		CTA      string   `yaml:"cta"`
	} `yaml:"hero"`
	Values Section `yaml:"values"`
	Steps  Section `yaml:"steps"`
	CTA    struct {
		Heading string `yaml:"heading"`
		Body    string `yaml:"body"`
		Stats   []struct {
			Value string `yaml:"value"`
			Label string `yaml:"label"`
		} `yaml:"stats"`
	} `yaml:"cta"`
	Links struct {
		Discord string `yaml:"discord"`
		Twitter string `yaml:"twitter"`
	} `yaml:"links"`
	WIP string `yaml:"wip"`
}

type Section struct {
	Heading    string `yaml:"heading"`
	Subheading string `yaml:"subheading"`
	Items      []Item `yaml:"items"`
}

type Item struct {
	Icon        string `yaml:"icon"`
	Number      string `yaml:"number"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Question struct {
	Category string `yaml:"category"`
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`
}

type Phase struct {
	ID       string `yaml:"id"`
	Letter   string `yaml:"letter"`
	Name     string `yaml:"name"`
	Subtitle string `yaml:"subtitle"`
	Core     string `yaml:"core"`
	Focus    Focus  `yaml:"focus"`
	Outcome  string `yaml:"outcome"`
	Status   string `yaml:"status"`
}

type Focus struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
	Steps []Step   `yaml:"steps"`
}

type Step struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

type Member struct {
	Name      string   `yaml:"name"`
	Role      string   `yaml:"role"`
	Location  string   `yaml:"location"`
	Tagline   string   `yaml:"tagline"`
	Summary   string   `yaml:"summary"`
	Biography string   `yaml:"biography"`
	Expertise []string `yaml:"expertise"`
	Handle    string   `yaml:"handle"`
	Image     string   `yaml:"image"`
	Links     struct {
		LinkedIn string `yaml:"linkedin"`
		Twitter  string `yaml:"twitter"`
		GitHub   string `yaml:"github"`
	} `yaml:"links"`
}

var whitespace = regexp.MustCompile(`\s+`)

// Slug is the member's name lowercased with whitespace runs collapsed to "-".
func (m Member) Slug() string {
	return whitespace.ReplaceAllString(strings.ToLower(m.Name), "-")
}

func (m Member) Anchor() string {
	return "team-" + m.Slug()
}

// Initials stand in for a missing portrait.
func (m Member) Initials() string {
	var b strings.Builder
	for _, part := range strings.Fields(m.Name) {
		r, _ := utf8.DecodeRuneInString(part)
		b.WriteRune(r)
	}
	return b.String()
}

// Catalog is every piece of static copy, loaded once at startup.
type Catalog struct {
	Home    Home
	FAQ     []Question
	Roadmap []Phase
	Team    []Member

	md goldmark.Markdown
}

func Load() (*Catalog, error) {
	c := &Catalog{md: goldmark.New()}
	for name, dst := range map[string]any{
		"home.yaml":    &c.Home,
		"faq.yaml":     &c.FAQ,
		"roadmap.yaml": &c.Roadmap,
		"team.yaml":    &c.Team,
	} {
		raw, err := files.ReadFile("data/" + name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if err := yaml.Unmarshal(raw, dst); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return c, nil
}

// SearchFAQ keeps questions whose question or answer contains query,
// ignoring case, and whose category equals category when one is given.
func (c *Catalog) SearchFAQ(query, category string) []Question {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Question
	for _, item := range c.FAQ {
		if category != "" && item.Category != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(item.Question), q) &&
			!strings.Contains(strings.ToLower(item.Answer), q) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Categories lists FAQ categories in first-seen order.
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, item := range c.FAQ {
		if !seen[item.Category] {
			seen[item.Category] = true
			out = append(out, item.Category)
		}
	}
	return out
}

func (c *Catalog) Member(slug string) (Member, bool) {
	for _, m := range c.Team {
		if m.Slug() == slug {
			return m, true
		}
	}
	return Member{}, false
}

// Markdown renders s with raw HTML dropped. On a render failure the text is
// returned escaped.
func (c *Catalog) Markdown(s string) template.HTML {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(s), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(buf.String())
}
