package config

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Config is the complete, validated site configuration. It is built once at
// startup and treated as read-only afterwards.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Social   []SocialLink   `yaml:"social,omitempty"`
	Sidebar  []SidebarEntry `yaml:"sidebar,omitempty"`
	Markdown MarkdownConfig `yaml:"markdown,omitempty"`
	Content  ContentConfig  `yaml:"content,omitempty"`
	Output   OutputConfig   `yaml:"output,omitempty"`
	Build    BuildConfig    `yaml:"build,omitempty"`
}

// SiteConfig holds site metadata.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	BaseURL     string `yaml:"base_url"`            // absolute; canonical URLs and the site origin derive from it
	BasePath    string `yaml:"base_path,omitempty"` // URL path prefix for every generated route
	Lang        string `yaml:"lang,omitempty"`
}

// SocialLink is an icon link rendered in the site header.
type SocialLink struct {
	Platform SocialPlatform `yaml:"platform"`
	Label    string         `yaml:"label"`
	Href     string         `yaml:"href"`
}

// MarkdownConfig lists the Markdown AST transforms in execution order.
type MarkdownConfig struct {
	Plugins []PluginConfig `yaml:"plugins,omitempty"`
}

// PluginConfig configures one Markdown transform.
type PluginConfig struct {
	Name   string   `yaml:"name"`
	Target string   `yaml:"target,omitempty"` // external_links only
	Rel    []string `yaml:"rel,omitempty"`    // external_links only
}

// ContentConfig locates the Markdown content tree.
type ContentConfig struct {
	Dir string `yaml:"dir,omitempty"`
}

// OutputConfig controls where the site is written.
type OutputConfig struct {
	Directory    string `yaml:"directory,omitempty"`
	KeepExisting bool   `yaml:"keep_existing,omitempty"` // skip cleaning the output directory
}

// BuildConfig holds build behavior switches.
type BuildConfig struct {
	Concurrency          int    `yaml:"concurrency,omitempty"`
	LastUpdated          bool   `yaml:"last_updated,omitempty"`
	SkipLinkVerification bool   `yaml:"skip_link_verification,omitempty"`
	Manifest             string `yaml:"manifest,omitempty"`
	HistoryDB            string `yaml:"history_db,omitempty"`
}

// Load reads, normalizes, defaults and validates the configuration file at
// configPath. Relative paths inside the file are resolved against its directory.
func Load(configPath string) (*Config, error) {
	dir := filepath.Dir(configPath)
	loadEnvFiles(dir)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", configPath)
		}
		return nil, err
	}
	cfg.resolvePaths(dir)
	return cfg, nil
}

// Parse decodes YAML configuration and finalizes it. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to decode configuration").
			Fatal().
			UserAction().
			Build()
	}
	return New(cfg)
}

// New finalizes a configuration declared as a Go literal: it normalizes,
// applies defaults and validates. The returned value is a private copy.
func New(cfg Config) (*Config, error) {
	c := cfg.clone()
	normalize(c)
	applyDefaults(c)
	if err := Validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) resolvePaths(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Content.Dir = abs(c.Content.Dir)
	c.Output.Directory = abs(c.Output.Directory)
	c.Build.HistoryDB = abs(c.Build.HistoryDB)
}

// Plugin returns the first configured plugin with the given name.
func (m MarkdownConfig) Plugin(name string) (PluginConfig, bool) {
	for _, p := range m.Plugins {
		if p.Name == name {
			return p, true
		}
	}
	return PluginConfig{}, false
}

func (c *Config) clone() *Config {
	cp := *c
	cp.Social = append([]SocialLink(nil), c.Social...)
	cp.Sidebar = cloneEntries(c.Sidebar)
	if c.Markdown.Plugins != nil {
		cp.Markdown.Plugins = make([]PluginConfig, len(c.Markdown.Plugins))
		for i, p := range c.Markdown.Plugins {
			p.Rel = append([]string(nil), p.Rel...)
			cp.Markdown.Plugins[i] = p
		}
	}
	return &cp
}
