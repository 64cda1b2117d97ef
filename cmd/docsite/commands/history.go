package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/eventstore"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int  `short:"n" help:"Number of builds to show" default:"10"`
	JSON  bool `name:"json" help:"Print builds as JSON"`
}

func (h *HistoryCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	return RunHistory(context.Background(), cfg, h.Limit, h.JSON, os.Stdout)
}

// RunHistory prints the most recent builds recorded in build.history_db.
func RunHistory(ctx context.Context, cfg *config.Config, limit int, asJSON bool, out io.Writer) error {
	if cfg.Build.HistoryDB == "" {
		return errors.ConfigError("build history is not enabled").
			WithContext("field", "build.history_db").
			UserAction().
			Build()
	}
	store, closeStore, err := openHistoryStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	builds, err := eventstore.NewHistory(store).Recent(ctx, limit)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(builds)
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tSTATUS\tTRIGGER\tPAGES\tLINKS\tDURATION\tDETAIL")
	for _, b := range builds {
		detail := ""
		if b.Status == eventstore.StatusFailed {
			detail = b.ErrorStage + ": " + b.ErrorMessage
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			b.StartedAt.Local().Format(time.DateTime), b.Status, b.Trigger,
			b.Pages, b.LinksRewritten, b.Duration.Round(time.Millisecond), detail)
	}
	return tw.Flush()
}
