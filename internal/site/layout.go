package site

import (
	"bytes"
	"embed"
	"html/template"
	"strings"
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/nav"
	"git.home.luguber.info/inful/docsite/internal/version"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

type layout struct {
	tmpl *template.Template
}

func newLayout() (*layout, error) {
	t, err := template.ParseFS(embeddedTemplates, "templates/*.tmpl")
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "failed to parse page layout").Build()
	}
	return &layout{tmpl: t}, nil
}

// pageView is the data handed to the page template.
type pageView struct {
	Lang        string
	SiteTitle   string
	Title       string
	Description string
	Canonical   string
	HomeHref    string
	Generator   string
	Social      []socialView
	Sidebar     []*nav.Item
	Headings    []markdown.Heading
	Content     template.HTML
	LastUpdated *dateView
	Prev        *nav.Item
	Next        *nav.Item
}

type socialView struct {
	Platform string
	Label    string
	Href     string
	Target   string
	Rel      string
}

type dateView struct {
	Machine string
	Human   string
}

func newDateView(t time.Time) *dateView {
	t = t.UTC()
	return &dateView{Machine: t.Format(time.RFC3339), Human: t.Format("Jan 2, 2006")}
}

func (l *layout) render(v *pageView) ([]byte, error) {
	var buf bytes.Buffer
	if err := l.tmpl.ExecuteTemplate(&buf, "page", v); err != nil {
		return nil, errors.WrapError(err, errors.CategoryRender, "failed to execute page layout").
			WithContext("title", v.Title).
			Build()
	}
	return buf.Bytes(), nil
}

// baseView fills the fields shared by every page of the site.
func (bs *buildState) baseView() *pageView {
	site := bs.cfg.Site
	return &pageView{
		Lang:        site.Lang,
		SiteTitle:   site.Title,
		Description: site.Description,
		HomeHref:    nav.Href(site.BasePath, ""),
		Generator:   "docsite " + version.Version,
		Social:      bs.socialViews(),
	}
}

// socialViews renders social links. Off-site links get the same target and
// rel attributes as external links in page content.
func (bs *buildState) socialViews() []socialView {
	out := make([]socialView, 0, len(bs.cfg.Social))
	for _, s := range bs.cfg.Social {
		v := socialView{Platform: string(s.Platform), Label: s.Label, Href: s.Href}
		if bs.hasRule && bs.rule.AppliesWhen(s.Href) {
			v.Target = bs.rule.Target()
			v.Rel = strings.Join(bs.rule.Rel(), " ")
		}
		out = append(out, v)
	}
	return out
}

// canonicalURL joins the site URL and the page path.
func canonicalURL(cfg *config.Config, slug string) string {
	return strings.TrimRight(cfg.Site.BaseURL, "/") + nav.Href(cfg.Site.BasePath, slug)
}
