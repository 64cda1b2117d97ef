package config

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Validate checks every structural invariant of the configuration. The first
// violation is returned as a fatal configuration error naming the field.
// Sidebar slug existence depends on the content tree and is checked separately
// by ValidateSidebarContent.
func Validate(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	return v.validate()
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateSite(); err != nil {
		return err
	}
	if err := cv.validateSocial(); err != nil {
		return err
	}
	if err := cv.validateSidebar(cv.config.Sidebar, "sidebar"); err != nil {
		return err
	}
	if err := cv.validatePlugins(); err != nil {
		return err
	}
	return cv.validateBuild()
}

func (cv *configurationValidator) validateSite() error {
	site := cv.config.Site
	u, err := ParseAbsoluteURL(site.BaseURL)
	if err != nil {
		return invalid("site.base_url", site.BaseURL, "must be a well-formed absolute URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid("site.base_url", site.BaseURL, "must use http or https", nil)
	}
	if !strings.HasPrefix(site.BasePath, "/") {
		return invalid("site.base_path", site.BasePath, "must start with '/'", nil)
	}
	if strings.ContainsAny(site.BasePath, "?#") || strings.Contains(site.BasePath, "//") {
		return invalid("site.base_path", site.BasePath, "must be a plain URL path", nil)
	}
	return nil
}

func (cv *configurationValidator) validateSocial() error {
	for i, s := range cv.config.Social {
		field := fmt.Sprintf("social[%d]", i)
		if _, ok := socialPlatforms[s.Platform]; !ok {
			return invalid(field+".platform", string(s.Platform), "unsupported social platform", nil)
		}
		if s.Label == "" {
			return invalid(field+".label", s.Label, "must not be empty", nil)
		}
		u, err := url.Parse(s.Href)
		if err != nil || !u.IsAbs() || (u.Host == "" && u.Opaque == "") {
			return invalid(field+".href", s.Href, "must be a well-formed absolute URL", err)
		}
	}
	return nil
}

func (cv *configurationValidator) validateSidebar(entries []SidebarEntry, prefix string) error {
	for i, e := range entries {
		field := fmt.Sprintf("%s[%d]", prefix, i)
		if e.Label == "" && e.Kind() != EntryPage {
			return invalid(field+".label", e.Label, "must not be empty", nil)
		}
		switch e.Kind() {
		case EntryPage:
			if err := validateSlug(e.Slug); err != nil {
				return invalid(field+".slug", e.Slug, err.Error(), nil)
			}
		case EntryLink:
			if strings.HasPrefix(e.Link, "/") {
				continue
			}
			if _, err := ParseAbsoluteURL(e.Link); err != nil {
				return invalid(field+".link", e.Link, "must be an absolute URL or start with '/'", err)
			}
		case EntryGroup:
			if err := cv.validateSidebar(e.Items, field+".items"); err != nil {
				return err
			}
		case EntryAutogenerate:
			if err := validateSlug(e.Autogenerate.Directory); err != nil && e.Autogenerate.Directory != "" {
				return invalid(field+".autogenerate.directory", e.Autogenerate.Directory, err.Error(), nil)
			}
		default:
			return invalid(field, e.Label, "entry must set exactly one of slug, link, items or autogenerate", nil)
		}
	}
	return nil
}

func (cv *configurationValidator) validatePlugins() error {
	seen := make(map[string]bool)
	for i, p := range cv.config.Markdown.Plugins {
		field := fmt.Sprintf("markdown.plugins[%d]", i)
		switch p.Name {
		case PluginExternalLinks:
			if p.Target == "" {
				return invalid(field+".target", p.Target, "must not be empty", nil)
			}
			for _, tok := range p.Rel {
				if tok == "" || strings.ContainsAny(tok, " \t\n") {
					return invalid(field+".rel", tok, "rel tokens must be single non-empty words", nil)
				}
			}
		case PluginBasePathLinks:
			if p.Target != "" || len(p.Rel) > 0 {
				return invalid(field, p.Name, "base_path_links takes no target or rel", nil)
			}
		default:
			return invalid(field+".name", p.Name, "unknown markdown plugin", nil)
		}
		if seen[p.Name] {
			return invalid(field+".name", p.Name, "plugin listed more than once", nil)
		}
		seen[p.Name] = true
	}
	return nil
}

func (cv *configurationValidator) validateBuild() error {
	if cv.config.Build.Concurrency > 256 {
		return invalid("build.concurrency", fmt.Sprint(cv.config.Build.Concurrency), "must be at most 256", nil)
	}
	if m := cv.config.Build.Manifest; strings.ContainsAny(m, `/\`) {
		return invalid("build.manifest", m, "must be a file name inside the output directory", nil)
	}
	return nil
}

// ParseAbsoluteURL parses raw and requires a scheme and a host.
func ParseAbsoluteURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%q is not an absolute URL", raw)
	}
	return u, nil
}

func validateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug must not be empty")
	}
	if strings.ContainsAny(slug, "?#\\") {
		return fmt.Errorf("slug must not contain query, fragment or backslash")
	}
	if path.Clean(slug) != slug || strings.HasPrefix(slug, "..") {
		return fmt.Errorf("slug must be a clean relative path")
	}
	return nil
}

func invalid(field, value, reason string, cause error) error {
	b := errors.ConfigError("invalid configuration: "+field+" "+reason).
		WithContext("field", field).
		WithContext("value", value)
	if cause != nil {
		b = b.WithCause(cause)
	}
	return b.Build()
}
