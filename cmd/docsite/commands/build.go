package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output               string `short:"o" help:"Override output.directory" type:"path"`
	SkipLinkVerification bool   `name:"skip-link-verification" help:"Do not check emitted HTML for external link attributes"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = filepath.Clean(b.Output)
	}
	if b.SkipLinkVerification {
		cfg.Build.SkipLinkVerification = true
	}

	ctx, cancel := signalContext()
	defer cancel()
	return RunBuild(ctx, cfg, os.Stdout)
}

// RunBuild builds the site for cfg and prints a summary to out.
func RunBuild(ctx context.Context, cfg *config.Config, out io.Writer) error {
	store, closeStore, err := openHistoryStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	report, err := site.NewBuilder(cfg, site.WithEventStore(store), site.WithTrigger(site.TriggerCLI)).Build(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Built %d pages (%d assets, %d external links rewritten) into %s in %s\n",
		report.Pages, report.Assets, report.LinksRewritten, report.Output, report.Duration().Round(time.Millisecond))
	for _, w := range report.Warnings {
		_, _ = fmt.Fprintf(out, "warning: %s\n", w)
	}
	return nil
}
