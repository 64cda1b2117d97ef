package config

// Plugin names accepted in markdown.plugins.
const (
	PluginExternalLinks = "external_links"
	PluginBasePathLinks = "base_path_links"
)

// Defaults for optional settings.
const (
	DefaultTitle       = "Documentation"
	DefaultLang        = "en"
	DefaultBasePath    = "/"
	DefaultContentDir  = "src/content/docs"
	DefaultOutputDir   = "dist"
	DefaultManifest    = "manifest.json"
	DefaultConcurrency = 4
	DefaultLinkTarget  = "_blank"
)

// DefaultLinkRel returns the rel tokens added to external links by default.
func DefaultLinkRel() []string { return []string{"noopener", "noreferrer"} }

// DefaultPlugins returns the transform list used when none is configured.
func DefaultPlugins() []PluginConfig {
	return []PluginConfig{{Name: PluginExternalLinks, Target: DefaultLinkTarget, Rel: DefaultLinkRel()}}
}

func applyDefaults(c *Config) {
	if c.Site.Title == "" {
		c.Site.Title = DefaultTitle
	}
	if c.Site.Lang == "" {
		c.Site.Lang = DefaultLang
	}
	if c.Site.BasePath == "" {
		c.Site.BasePath = DefaultBasePath
	}

	if c.Markdown.Plugins == nil {
		c.Markdown.Plugins = DefaultPlugins()
	}
	for i := range c.Markdown.Plugins {
		p := &c.Markdown.Plugins[i]
		if p.Name != PluginExternalLinks {
			continue
		}
		if p.Target == "" {
			p.Target = DefaultLinkTarget
		}
		if len(p.Rel) == 0 {
			p.Rel = DefaultLinkRel()
		}
	}

	if c.Content.Dir == "" {
		c.Content.Dir = DefaultContentDir
	}
	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDir
	}
	if c.Build.Concurrency <= 0 {
		c.Build.Concurrency = DefaultConcurrency
	}
	if c.Build.Manifest == "" {
		c.Build.Manifest = DefaultManifest
	}
}
