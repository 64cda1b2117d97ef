package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Example returns the configuration written by Init.
func Example() Config {
	return Config{
		Site: SiteConfig{
			Title:       "Python Package Template",
			Description: "A template for creating Python packages with UV, pytest, and Starlight documentation",
			BaseURL:     "https://opencitations.github.io",
			BasePath:    "/python-package-template",
		},
		Social: []SocialLink{
			{Platform: SocialGitHub, Label: "GitHub", Href: "https://github.com/opencitations/python-package-template"},
		},
		Sidebar: []SidebarEntry{
			{
				Label: "Guides",
				Items: []SidebarEntry{
					{Label: "Getting started", Slug: "getting_started"},
				},
			},
		},
		Markdown: MarkdownConfig{Plugins: DefaultPlugins()},
		Content:  ContentConfig{Dir: DefaultContentDir},
		Output:   OutputConfig{Directory: DefaultOutputDir},
	}
}

// Init writes the example configuration to configPath. An existing file is
// only replaced when force is set.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Example()
	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example configuration").Fatal().Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
