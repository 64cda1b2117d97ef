// Package nav resolves the configured sidebar against discovered content.
package nav

import (
	"net/url"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/docs"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Item is a node of the rendered sidebar.
type Item struct {
	Label     string
	Href      string
	Slug      string // set for pages; "" is the root page
	Page      bool   // resolves to a discovered document
	External  bool   // link items pointing off-site
	Current   bool
	Collapsed bool
	Items     []*Item // set for groups
}

// IsGroup reports whether the item has children instead of a link.
func (i *Item) IsGroup() bool { return i.Items != nil }

// Sidebar is the resolved navigation tree.
type Sidebar struct {
	Items []*Item
	pages []*Item
}

// Href returns the site-relative URL of the page with slug under basePath.
// Every page URL ends in a slash.
func Href(basePath, slug string) string {
	p := path.Join("/", basePath, slug)
	if p == "/" {
		return p
	}
	return p + "/"
}

// Build resolves entries against set. Page labels default to the document's
// sidebar label. An empty configuration lists every document, as an
// autogenerated group of the content root would.
func Build(entries []config.SidebarEntry, set *docs.Set, basePath string) (*Sidebar, error) {
	b := &builder{set: set, base: basePath}
	var items []*Item
	if len(entries) == 0 {
		items = b.autogenerate("")
	} else {
		var err error
		items, err = b.entries(entries)
		if err != nil {
			return nil, err
		}
	}
	s := &Sidebar{Items: items}
	s.pages = flattenPages(items, nil)
	return s, nil
}

type builder struct {
	set  *docs.Set
	base string
}

func (b *builder) entries(entries []config.SidebarEntry) ([]*Item, error) {
	items := make([]*Item, 0, len(entries))
	for _, e := range entries {
		switch e.Kind() {
		case config.EntryPage:
			doc, ok := b.set.Lookup(e.Slug)
			if !ok {
				return nil, errors.ConfigError("sidebar entry references a missing document").
					WithContext("slug", e.Slug).
					Build()
			}
			label := e.Label
			if label == "" {
				label = doc.SidebarLabel()
			}
			items = append(items, &Item{Label: label, Href: Href(b.base, doc.Slug), Slug: doc.Slug, Page: true})
		case config.EntryLink:
			items = append(items, &Item{Label: e.Label, Href: e.Link, External: isAbsolute(e.Link)})
		case config.EntryGroup:
			children, err := b.entries(e.Items)
			if err != nil {
				return nil, err
			}
			items = append(items, &Item{Label: e.Label, Collapsed: e.Collapsed, Items: children})
		case config.EntryAutogenerate:
			items = append(items, &Item{
				Label:     e.Label,
				Collapsed: e.Collapsed,
				Items:     b.autogenerate(e.Autogenerate.Directory),
			})
		default:
			return nil, errors.ConfigError("invalid sidebar entry").WithContext("label", e.Label).Build()
		}
	}
	return items, nil
}

// autogenerate lists the documents directly in dir followed by one group per
// subdirectory.
func (b *builder) autogenerate(dir string) []*Item {
	items := []*Item{}
	var subdirs []string
	seen := map[string]bool{}
	for _, doc := range b.set.InDirectory(dir) {
		if doc.Dir == dir {
			items = append(items, &Item{Label: doc.SidebarLabel(), Href: Href(b.base, doc.Slug), Slug: doc.Slug, Page: true})
			continue
		}
		rest := strings.TrimPrefix(doc.Dir, dir)
		rest = strings.TrimPrefix(rest, "/")
		child := strings.SplitN(rest, "/", 2)[0]
		if dir != "" {
			child = dir + "/" + child
		}
		if !seen[child] {
			seen[child] = true
			subdirs = append(subdirs, child)
		}
	}
	for _, sub := range subdirs {
		items = append(items, &Item{Label: dirLabel(sub), Items: b.autogenerate(sub)})
	}
	return items
}

func dirLabel(dir string) string {
	name := strings.NewReplacer("-", " ", "_", " ").Replace(path.Base(dir))
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

func isAbsolute(link string) bool {
	u, err := url.Parse(link)
	return err == nil && u.IsAbs()
}

func flattenPages(items []*Item, out []*Item) []*Item {
	for _, it := range items {
		switch {
		case it.IsGroup():
			out = flattenPages(it.Items, out)
		case it.Page:
			out = append(out, it)
		}
	}
	return out
}
