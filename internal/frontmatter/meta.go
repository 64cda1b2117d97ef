package frontmatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"
)

// PageMeta is the typed subset of page frontmatter the site generator uses.
// Unknown keys are ignored.
type PageMeta struct {
	Title           string      `yaml:"title"`
	Description     string      `yaml:"description"`
	Slug            string      `yaml:"slug"`
	Draft           bool        `yaml:"draft"`
	Sidebar         SidebarMeta `yaml:"sidebar"`
	TableOfContents *bool       `yaml:"tableOfContents"`
	Prev            *bool       `yaml:"prev"`
	Next            *bool       `yaml:"next"`
}

// SidebarMeta controls how a page appears in autogenerated sidebar groups.
type SidebarMeta struct {
	Label  string `yaml:"label"`
	Order  *int   `yaml:"order"`
	Hidden bool   `yaml:"hidden"`
}

// ParseMeta decodes raw YAML frontmatter into PageMeta.
func ParseMeta(frontmatter []byte) (PageMeta, error) {
	var meta PageMeta
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return meta, nil
	}
	if err := yaml.Unmarshal(frontmatter, &meta); err != nil {
		return PageMeta{}, err
	}
	meta.Title = strings.TrimSpace(meta.Title)
	meta.Description = strings.TrimSpace(meta.Description)
	meta.Slug = strings.Trim(strings.TrimSpace(meta.Slug), "/")
	meta.Sidebar.Label = strings.TrimSpace(meta.Sidebar.Label)
	return meta, nil
}

// ShowTableOfContents reports whether the page wants an "On this page" list.
func (m PageMeta) ShowTableOfContents() bool {
	return m.TableOfContents == nil || *m.TableOfContents
}

// ShowPrev reports whether a previous-page link should be rendered.
func (m PageMeta) ShowPrev() bool { return m.Prev == nil || *m.Prev }

// ShowNext reports whether a next-page link should be rendered.
func (m PageMeta) ShowNext() bool { return m.Next == nil || *m.Next }
