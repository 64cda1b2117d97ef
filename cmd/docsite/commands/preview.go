package commands

import (
	"time"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/preview"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Addr     string        `help:"Listen address" default:"127.0.0.1:4321"`
	Debounce time.Duration `help:"Quiet period before rebuilding after a change" default:"300ms"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	store, closeStore, err := openHistoryStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ctx, cancel := signalContext()
	defer cancel()

	srv := preview.New(cfg, preview.Options{
		Addr:       p.Addr,
		ConfigPath: root.Config,
		Debounce:   p.Debounce,
		Store:      store,
	})
	return srv.Run(ctx)
}
