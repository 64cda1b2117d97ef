package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/eventstore"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// initProject writes the example configuration and the documents it
// references into a fresh directory.
func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "docsite.yaml")
	var out bytes.Buffer
	require.NoError(t, RunInit(cfgPath, false, &out))
	require.Contains(t, out.String(), "initialized successfully")

	content := filepath.Join(dir, filepath.FromSlash(config.DefaultContentDir))
	require.NoError(t, os.MkdirAll(content, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(content, "index.md"),
		[]byte("---\ntitle: Home\n---\nSee [GitHub](https://github.com/opencitations).\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(content, "getting_started.md"),
		[]byte("---\ntitle: Getting started\n---\n## Install\n"), 0o600))
	return cfgPath
}

func TestParseLogLevel(t *testing.T) {
	t.Setenv(LogLevelEnv, "warn")
	require.Equal(t, slog.LevelDebug, parseLogLevel(true))
	require.Equal(t, slog.LevelWarn, parseLogLevel(false))

	t.Setenv(LogLevelEnv, "ERROR")
	require.Equal(t, slog.LevelError, parseLogLevel(false))

	t.Setenv(LogLevelEnv, "")
	require.Equal(t, slog.LevelInfo, parseLogLevel(false))
}

func TestCLIParsing(t *testing.T) {
	parse := func(args ...string) (*CLI, string) {
		t.Helper()
		var cli CLI
		parser, err := kong.New(&cli, kong.Vars{"version": "test"})
		require.NoError(t, err)
		ctx, err := parser.Parse(args)
		require.NoError(t, err)
		return &cli, ctx.Command()
	}

	cli, cmd := parse("-c", "site.yaml", "build", "-o", "public", "--skip-link-verification")
	require.Equal(t, "build", cmd)
	require.True(t, filepath.IsAbs(cli.Config))
	require.Equal(t, "site.yaml", filepath.Base(cli.Config))
	require.True(t, cli.Build.SkipLinkVerification)

	cli, cmd = parse("preview")
	require.Equal(t, "preview", cmd)
	require.Equal(t, "docsite.yaml", filepath.Base(cli.Config))
	require.Equal(t, "127.0.0.1:4321", cli.Preview.Addr)
	require.Equal(t, "300ms", cli.Preview.Debounce.String())
}

func TestRunInit_RefusesOverwrite(t *testing.T) {
	cfgPath := initProject(t)
	err := RunInit(cfgPath, false, &bytes.Buffer{})
	require.Error(t, err)
	require.NoError(t, RunInit(cfgPath, true, &bytes.Buffer{}))
}

func TestRunValidate(t *testing.T) {
	cfgPath := initProject(t)
	var out bytes.Buffer
	require.NoError(t, RunValidate(cfgPath, &out))
	require.Contains(t, out.String(), "Configuration is valid: 2 documents, 1 sidebar pages")
	require.Contains(t, out.String(), "external_links")
}

func TestRunValidate_MissingSidebarSlug(t *testing.T) {
	cfgPath := initProject(t)
	content := filepath.Join(filepath.Dir(cfgPath), filepath.FromSlash(config.DefaultContentDir))
	require.NoError(t, os.Remove(filepath.Join(content, "getting_started.md")))

	err := RunValidate(cfgPath, &bytes.Buffer{})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
	require.Equal(t, 7, errors.NewCLIErrorAdapter(false, slog.Default()).ExitCodeFor(err))
}

func TestRunBuildAndHistory(t *testing.T) {
	cfgPath := initProject(t)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.Build.HistoryDB = filepath.Join(filepath.Dir(cfgPath), "history.db")

	var out bytes.Buffer
	require.NoError(t, RunBuild(context.Background(), cfg, &out))
	require.Contains(t, out.String(), "Built 2 pages")

	index, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(index), `<a href="https://github.com/opencitations" target="_blank" rel="noopener noreferrer">GitHub</a>`)

	out.Reset()
	require.NoError(t, RunHistory(context.Background(), cfg, 5, true, &out))
	var builds []eventstore.BuildSummary
	require.NoError(t, json.Unmarshal(out.Bytes(), &builds))
	require.Len(t, builds, 1)
	require.Equal(t, eventstore.StatusCompleted, builds[0].Status)
	require.Equal(t, "cli", builds[0].Trigger)

	out.Reset()
	require.NoError(t, RunHistory(context.Background(), cfg, 5, false, &out))
	require.True(t, strings.HasPrefix(out.String(), "STARTED"))
	require.Contains(t, out.String(), "completed")
}

func TestRunHistory_RequiresDatabase(t *testing.T) {
	cfgPath := initProject(t)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	err = RunHistory(context.Background(), cfg, 5, false, &bytes.Buffer{})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}
