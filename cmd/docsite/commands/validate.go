package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/docs"
	"git.home.luguber.info/inful/docsite/internal/markdown"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(_ *Global, root *CLI) error {
	return RunValidate(root.Config, os.Stdout)
}

// RunValidate loads the configuration, builds the transform pipeline and
// checks every sidebar reference against the content tree.
func RunValidate(configPath string, out io.Writer) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	pipeline, err := markdown.PipelineFromConfig(cfg)
	if err != nil {
		return err
	}
	set, err := docs.Discover(cfg.Content.Dir, false)
	if err != nil {
		return err
	}
	if err := config.ValidateSidebarContent(cfg.Sidebar, set); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Configuration is valid: %d documents, %d sidebar pages, transforms %v\n",
		len(set.Documents), len(config.PageSlugs(cfg.Sidebar)), pipeline.Names())
	return nil
}
