package config

import (
	"fmt"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// SidebarEntry is one node of the sidebar tree. Exactly one of Slug, Link,
// Items or Autogenerate is set; see Kind.
type SidebarEntry struct {
	Label        string              `yaml:"label"`
	Slug         string              `yaml:"slug,omitempty"`
	Link         string              `yaml:"link,omitempty"`
	Items        []SidebarEntry      `yaml:"items,omitempty"`
	Autogenerate *AutogenerateConfig `yaml:"autogenerate,omitempty"`
	Collapsed    bool                `yaml:"collapsed,omitempty"`
}

// AutogenerateConfig expands a group from every document below Directory.
type AutogenerateConfig struct {
	Directory string `yaml:"directory"`
}

// EntryKind classifies a sidebar entry.
type EntryKind int

const (
	EntryInvalid EntryKind = iota
	EntryPage
	EntryLink
	EntryGroup
	EntryAutogenerate
)

func (k EntryKind) String() string {
	switch k {
	case EntryPage:
		return "page"
	case EntryLink:
		return "link"
	case EntryGroup:
		return "group"
	case EntryAutogenerate:
		return "autogenerate"
	default:
		return "invalid"
	}
}

// Kind reports which variant the entry is, or EntryInvalid when zero or more
// than one variant field is set.
func (e SidebarEntry) Kind() EntryKind {
	kind := EntryInvalid
	set := 0
	if e.Slug != "" {
		kind, set = EntryPage, set+1
	}
	if e.Link != "" {
		kind, set = EntryLink, set+1
	}
	if e.Items != nil {
		kind, set = EntryGroup, set+1
	}
	if e.Autogenerate != nil {
		kind, set = EntryAutogenerate, set+1
	}
	if set != 1 {
		return EntryInvalid
	}
	return kind
}

// ContentIndex answers existence questions about the content tree.
type ContentIndex interface {
	HasSlug(slug string) bool
	HasDirectory(dir string) bool
}

// ValidateSidebarContent checks that every page entry resolves to a
// document and every autogenerate directory exists. It must run before any
// page is rendered.
func ValidateSidebarContent(entries []SidebarEntry, idx ContentIndex) error {
	return walkEntries(entries, "sidebar", func(path string, e SidebarEntry) error {
		switch e.Kind() {
		case EntryPage:
			if !idx.HasSlug(e.Slug) {
				return errors.ConfigError("sidebar entry references a missing document").
					WithContext("entry", path).
					WithContext("slug", e.Slug).
					Build()
			}
		case EntryAutogenerate:
			if !idx.HasDirectory(e.Autogenerate.Directory) {
				return errors.ConfigError("sidebar autogenerate directory not found in content").
					WithContext("entry", path).
					WithContext("directory", e.Autogenerate.Directory).
					Build()
			}
		}
		return nil
	})
}

// PageSlugs returns the slugs referenced by page entries in tree order.
func PageSlugs(entries []SidebarEntry) []string {
	var out []string
	_ = walkEntries(entries, "sidebar", func(_ string, e SidebarEntry) error {
		if e.Kind() == EntryPage {
			out = append(out, e.Slug)
		}
		return nil
	})
	return out
}

// walkEntries visits entries depth-first in declaration order.
func walkEntries(entries []SidebarEntry, prefix string, fn func(path string, e SidebarEntry) error) error {
	for i, e := range entries {
		path := fmt.Sprintf("%s[%d]", prefix, i)
		if err := fn(path, e); err != nil {
			return err
		}
		if len(e.Items) > 0 {
			if err := walkEntries(e.Items, path+".items", fn); err != nil {
				return err
			}
		}
	}
	return nil
}

func cloneEntries(in []SidebarEntry) []SidebarEntry {
	if in == nil {
		return nil
	}
	out := make([]SidebarEntry, len(in))
	for i, e := range in {
		if e.Autogenerate != nil {
			ag := *e.Autogenerate
			e.Autogenerate = &ag
		}
		if e.Items != nil {
			e.Items = cloneEntries(e.Items)
		}
		out[i] = e
	}
	return out
}
