package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/eventstore"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// LogLevelEnv overrides the log level when --verbose is not given.
const LogLevelEnv = "DOCSITE_LOG_LEVEL"

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"docsite.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build    BuildCmd    `cmd:"" help:"Build the site into the output directory"`
	Validate ValidateCmd `cmd:"" help:"Check configuration and sidebar against the content without rendering"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
	Preview  PreviewCmd  `cmd:"" help:"Serve the site locally and rebuild on change"`
	History  HistoryCmd  `cmd:"" help:"List recent builds from the build history database"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel returns debug for --verbose, otherwise the level named by
// DOCSITE_LOG_LEVEL, defaulting to info.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(LogLevelEnv))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// openHistoryStore opens build.history_db when configured. The returned
// closer is always safe to call.
func openHistoryStore(cfg *config.Config) (eventstore.Store, func(), error) {
	if cfg.Build.HistoryDB == "" {
		return nil, func() {}, nil
	}
	store, err := eventstore.NewSQLiteStore(cfg.Build.HistoryDB)
	if err != nil {
		return nil, func() {}, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			slog.Warn("Failed to close build history", logfields.Error(err))
		}
	}, nil
}
