package markdown

import (
	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// PipelineFromConfig builds the transform pipeline declared in
// markdown.plugins, preserving declaration order.
func PipelineFromConfig(cfg *config.Config) (*Pipeline, error) {
	p := NewPipeline()
	for i, plugin := range cfg.Markdown.Plugins {
		switch plugin.Name {
		case config.PluginExternalLinks:
			rule, err := newRule(cfg, plugin)
			if err != nil {
				return nil, err
			}
			p = p.Append(NewExternalLinks(rule))
		case config.PluginBasePathLinks:
			p = p.Append(NewBasePathLinks(cfg.Site.BasePath))
		default:
			return nil, errors.ConfigError("unknown markdown plugin").
				WithContext("field", "markdown.plugins").
				WithContext("index", i).
				WithContext("value", plugin.Name).
				Build()
		}
	}
	return p, nil
}

// RuleFromConfig returns the link rewrite rule of the external_links plugin.
// ok is false when the plugin is not configured.
func RuleFromConfig(cfg *config.Config) (rule LinkRewriteRule, ok bool, err error) {
	plugin, found := cfg.Markdown.Plugin(config.PluginExternalLinks)
	if !found {
		return LinkRewriteRule{}, false, nil
	}
	rule, err = newRule(cfg, plugin)
	if err != nil {
		return LinkRewriteRule{}, false, err
	}
	return rule, true, nil
}

func newRule(cfg *config.Config, plugin config.PluginConfig) (LinkRewriteRule, error) {
	rule, err := NewLinkRewriteRule(cfg.Site.BaseURL, plugin.Target, plugin.Rel)
	if err != nil {
		return LinkRewriteRule{}, errors.WrapError(err, errors.CategoryConfig, "cannot derive site origin for external links").
			Fatal().
			WithContext("field", "site.base_url").
			WithContext("value", cfg.Site.BaseURL).
			Build()
	}
	return rule, nil
}
