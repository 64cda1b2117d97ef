package config

import "strings"

// normalize trims whitespace and canonicalizes enumerations. It never fails;
// anything it cannot canonicalize is left for Validate to reject.
func normalize(c *Config) {
	c.Site.Title = strings.TrimSpace(c.Site.Title)
	c.Site.Description = strings.TrimSpace(c.Site.Description)
	c.Site.BaseURL = strings.TrimSpace(c.Site.BaseURL)
	c.Site.BasePath = normalizeBasePath(c.Site.BasePath)
	c.Site.Lang = strings.ToLower(strings.TrimSpace(c.Site.Lang))

	for i := range c.Social {
		s := &c.Social[i]
		if p := NormalizeSocialPlatform(string(s.Platform)); p != "" {
			s.Platform = p
		}
		s.Label = strings.TrimSpace(s.Label)
		s.Href = strings.TrimSpace(s.Href)
	}

	normalizeEntries(c.Sidebar)

	for i := range c.Markdown.Plugins {
		p := &c.Markdown.Plugins[i]
		p.Name = strings.ToLower(strings.TrimSpace(p.Name))
		p.Target = strings.TrimSpace(p.Target)
		for j, tok := range p.Rel {
			p.Rel[j] = strings.ToLower(strings.TrimSpace(tok))
		}
	}

	c.Content.Dir = strings.TrimSpace(c.Content.Dir)
	c.Output.Directory = strings.TrimSpace(c.Output.Directory)
}

// normalizeBasePath strips trailing slashes. A path without a leading slash
// is kept as-is so validation can report it.
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || !strings.HasPrefix(p, "/") {
		return p
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return "/"
	}
	return p
}

// NormalizeSlug trims surrounding slashes and whitespace from a sidebar slug.
func NormalizeSlug(s string) string {
	return strings.Trim(strings.TrimSpace(s), "/")
}

func normalizeEntries(entries []SidebarEntry) {
	for i := range entries {
		e := &entries[i]
		e.Label = strings.TrimSpace(e.Label)
		e.Slug = NormalizeSlug(e.Slug)
		e.Link = strings.TrimSpace(e.Link)
		if e.Autogenerate != nil {
			e.Autogenerate.Directory = NormalizeSlug(e.Autogenerate.Directory)
		}
		normalizeEntries(e.Items)
	}
}
