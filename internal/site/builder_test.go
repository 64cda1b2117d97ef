package site

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/eventstore"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

const indexDoc = `---
title: Python Package Template
description: Start here
---
Read [the uv docs](https://docs.astral.sh/uv/), the [guide](https://opencitations.github.io/python-package-template/getting_started/)
and the [relative guide](getting_started/).
`

const gettingStartedDoc = `---
title: Getting started
---
## Install

Use <https://pypi.org/project/example>.

### From source

Clone the repository.
`

type fixture struct {
	root    string
	content string
	output  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		root:    root,
		content: filepath.Join(root, "src", "content", "docs"),
		output:  filepath.Join(root, "dist"),
	}
	f.write(t, "index.md", indexDoc)
	f.write(t, "getting_started.md", gettingStartedDoc)
	f.write(t, "images/logo.svg", "<svg></svg>")
	return f
}

func (f *fixture) write(t *testing.T, rel, content string) {
	t.Helper()
	p := filepath.Join(f.content, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func (f *fixture) config(t *testing.T, mutate ...func(*config.Config)) *config.Config {
	t.Helper()
	c := config.Example()
	c.Content.Dir = f.content
	c.Output.Directory = f.output
	for _, m := range mutate {
		m(&c)
	}
	cfg, err := config.New(c)
	require.NoError(t, err)
	return cfg
}

func (f *fixture) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.output, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestBuild_RewritesExternalLinks(t *testing.T) {
	f := newFixture(t)
	report, err := NewBuilder(f.config(t)).Build(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, report.Pages)
	require.Equal(t, 1, report.Assets)
	require.Equal(t, 2, report.LinksRewritten)
	require.Equal(t, metrics.BuildOutcomeSuccess, report.Outcome)

	index := f.read(t, "index.html")
	// external origin
	require.Contains(t, index, `<a href="https://docs.astral.sh/uv/" target="_blank" rel="noopener noreferrer">the uv docs</a>`)
	// same origin
	require.Contains(t, index, `<a href="https://opencitations.github.io/python-package-template/getting_started/">guide</a>`)
	// relative
	require.Contains(t, index, `<a href="getting_started/">relative guide</a>`)

	require.Contains(t, index, `<link rel="canonical" href="https://opencitations.github.io/python-package-template/">`)
	require.Contains(t, index, `<meta name="description" content="Start here">`)
	require.Contains(t, index, `href="https://github.com/opencitations/python-package-template" target="_blank" rel="noopener noreferrer">GitHub</a>`)

	guide := f.read(t, "getting_started/index.html")
	require.Contains(t, guide, `<a href="https://pypi.org/project/example" target="_blank" rel="noopener noreferrer">`)
	require.Contains(t, guide, `<a href="/python-package-template/getting_started/" aria-current="page">Getting started</a>`)
	require.Contains(t, guide, `<a href="#install">Install</a>`)
	require.Contains(t, guide, `<a href="#from-source">From source</a>`)

	require.Equal(t, "<svg></svg>", f.read(t, "images/logo.svg"))
	require.Contains(t, f.read(t, NotFoundPage), "Page not found")

	_, err = os.Stat(f.output + "_stage")
	require.True(t, os.IsNotExist(err), "staging directory is promoted")
}

func TestBuild_WritesManifest(t *testing.T) {
	f := newFixture(t)
	report, err := NewBuilder(f.config(t)).Build(context.Background())
	require.NoError(t, err)

	m, err := manifest.Read(filepath.Join(f.output, config.DefaultManifest))
	require.NoError(t, err)
	require.Equal(t, report.BuildID, m.ID)
	require.Equal(t, manifest.StatusSuccess, m.Status)
	require.Equal(t, []string{"external_links"}, m.Plan.Transforms)
	require.Equal(t, "/python-package-template", m.Plan.BasePath)
	require.Equal(t, report.ConfigHash, m.Inputs.ConfigHash)
	require.NotEmpty(t, m.Inputs.ContentHash)
	require.Len(t, m.Pages, 2)

	bySlug := map[string]manifest.Page{}
	for _, p := range m.Pages {
		bySlug[p.Slug] = p
		require.NotEmpty(t, p.Fingerprint)
	}
	require.Equal(t, "index.html", bySlug[""].Output)
	require.Equal(t, "getting_started/index.html", bySlug["getting_started"].Output)
	require.Equal(t, 1, bySlug["getting_started"].ExternalLinks)
}

func TestBuild_MissingSidebarSlugFailsBeforeRendering(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.content, "getting_started.md")))

	report, err := NewBuilder(f.config(t)).Build(context.Background())
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))

	stage, ok := FailedStage(err)
	require.True(t, ok)
	require.Equal(t, StageValidateSidebar, stage)

	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	slug, _ := ce.Context().GetString("slug")
	require.Equal(t, "getting_started", slug)

	require.Equal(t, metrics.BuildOutcomeFailed, report.Outcome)
	_, ok = report.StageResults[StageRenderPages]
	require.False(t, ok, "no page is rendered")

	_, statErr := os.Stat(f.output)
	require.True(t, os.IsNotExist(statErr), "nothing is written")
	_, statErr = os.Stat(f.output + "_stage")
	require.True(t, os.IsNotExist(statErr))
}

func TestBuild_RawHTMLExternalLinkIsRewritten(t *testing.T) {
	f := newFixture(t)
	f.write(t, "index.md", indexDoc+"\nSee <a href=\"https://pypi.org/project/x\">PyPI</a> for releases.\n\n<p><a href=\"https://example.org/raw\" target=\"_self\">raw</a></p>\n")

	report, err := NewBuilder(f.config(t)).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, metrics.ResultSuccess, report.StageResults[StageVerifyLinks])

	index := f.read(t, "index.html")
	require.Contains(t, index, `See <a href="https://pypi.org/project/x" target="_blank" rel="noopener noreferrer">PyPI</a> for releases.`)
	require.Contains(t, index, `<a href="https://example.org/raw" target="_blank" rel="noopener noreferrer">raw</a>`)
	require.NotContains(t, index, `target="_self"`)
}

func TestBuild_VerificationFailureKeepsPreviousOutput(t *testing.T) {
	f := newFixture(t)
	cfg := f.config(t)
	_, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	before := f.read(t, "index.html")

	// Hand-written HTML is copied as an asset and never passes the rewriter.
	f.write(t, "legacy/page.html", `<html><body><div class="sl-markdown-content"><a href="https://example.org/raw">raw</a></div></body></html>`)
	_, err = NewBuilder(cfg).Build(context.Background())
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryBuild))
	stage, _ := FailedStage(err)
	require.Equal(t, StageVerifyLinks, stage)

	require.Equal(t, before, f.read(t, "index.html"), "previous output is kept")
	_, statErr := os.Stat(filepath.Join(f.output, "legacy", "page.html"))
	require.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(f.output + "_stage")
	require.True(t, os.IsNotExist(statErr))

	skip := f.config(t, func(c *config.Config) { c.Build.SkipLinkVerification = true })
	report, err := NewBuilder(skip).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, metrics.ResultSkipped, report.StageResults[StageVerifyLinks])
	require.Contains(t, f.read(t, "legacy/page.html"), `<a href="https://example.org/raw">raw</a>`)
}

func TestBuild_WithoutExternalLinksPlugin(t *testing.T) {
	f := newFixture(t)
	cfg := f.config(t, func(c *config.Config) {
		c.Markdown.Plugins = []config.PluginConfig{}
	})
	report, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Zero(t, report.LinksRewritten)
	require.Equal(t, metrics.ResultSkipped, report.StageResults[StageVerifyLinks])
	require.NotContains(t, f.read(t, "index.html"), `target="_blank"`)
}

func TestBuild_KeepExistingOutput(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(f.output, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(f.output, "CNAME"), []byte("docs.example.com"), 0o600))

	cfg := f.config(t, func(c *config.Config) { c.Output.KeepExisting = true })
	_, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, "docs.example.com", f.read(t, "CNAME"))
	require.Contains(t, f.read(t, "index.html"), "the uv docs")
}

func TestBuild_Canceled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := NewBuilder(f.config(t)).Build(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, metrics.BuildOutcomeCanceled, report.Outcome)
	require.Equal(t, metrics.ResultCanceled, report.StageResults[StageDiscover])
}

type recordingRecorder struct {
	metrics.NoopRecorder
	mu       sync.Mutex
	results  map[string]metrics.ResultLabel
	outcomes []metrics.BuildOutcomeLabel
	pages    int
	links    int
}

func (r *recordingRecorder) IncStageResult(stage string, result metrics.ResultLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = map[string]metrics.ResultLabel{}
	}
	r.results[stage] = result
}

func (r *recordingRecorder) IncBuildOutcome(o metrics.BuildOutcomeLabel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *recordingRecorder) AddPagesRendered(n int)          { r.pages += n }
func (r *recordingRecorder) AddExternalLinksRewritten(n int) { r.links += n }

func TestBuild_RecordsMetrics(t *testing.T) {
	f := newFixture(t)
	rec := &recordingRecorder{}
	_, err := NewBuilder(f.config(t), WithRecorder(rec)).Build(context.Background())
	require.NoError(t, err)

	for _, st := range defaultStages() {
		require.Equal(t, metrics.ResultSuccess, rec.results[string(st.name)], st.name)
	}
	require.Equal(t, []metrics.BuildOutcomeLabel{metrics.BuildOutcomeSuccess}, rec.outcomes)
	require.Equal(t, 2, rec.pages)
	require.Equal(t, 2, rec.links)
}

func TestBuild_RecordsHistory(t *testing.T) {
	f := newFixture(t)
	store, err := eventstore.NewSQLiteStore(filepath.Join(f.root, "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	ok, err := NewBuilder(f.config(t), WithEventStore(store)).Build(context.Background())
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, os.Remove(filepath.Join(f.content, "getting_started.md")))
	failed, err := NewBuilder(f.config(t), WithEventStore(store), WithTrigger(TriggerPreview)).Build(context.Background())
	require.Error(t, err)

	builds, err := eventstore.NewHistory(store).Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, builds, 2)

	require.Equal(t, failed.BuildID, builds[0].BuildID)
	require.Equal(t, eventstore.StatusFailed, builds[0].Status)
	require.Equal(t, string(StageValidateSidebar), builds[0].ErrorStage)
	require.Equal(t, TriggerPreview, builds[0].Trigger)

	require.Equal(t, ok.BuildID, builds[1].BuildID)
	require.Equal(t, eventstore.StatusCompleted, builds[1].Status)
	require.Equal(t, 2, builds[1].Pages)
	require.Equal(t, 2, builds[1].LinksRewritten)
}

func TestOutputPath(t *testing.T) {
	require.Equal(t, "index.html", OutputPath(""))
	require.Equal(t, "guides/setup/index.html", OutputPath("guides/setup"))
}

func TestBuild_AutogeneratedSidebar(t *testing.T) {
	f := newFixture(t)
	f.write(t, "reference/api.md", "---\ntitle: API\nsidebar:\n  order: 2\n---\nAPI.\n")
	f.write(t, "reference/cli.md", "---\ntitle: CLI\nsidebar:\n  order: 1\n---\nCLI.\n")
	cfg := f.config(t, func(c *config.Config) {
		c.Sidebar = append(c.Sidebar, config.SidebarEntry{
			Label:        "Reference",
			Autogenerate: &config.AutogenerateConfig{Directory: "reference"},
		})
	})
	_, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)

	page := f.read(t, "reference/cli/index.html")
	cli := strings.Index(page, `href="/python-package-template/reference/cli/"`)
	api := strings.Index(page, `href="/python-package-template/reference/api/"`)
	require.Positive(t, cli)
	require.Positive(t, api)
	require.Less(t, cli, api, "ordered by sidebar.order")
	require.Contains(t, page, `rel="next"`)
}
