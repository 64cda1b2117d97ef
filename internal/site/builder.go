package site

import (
	"context"
	stdErrors "errors"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/docs"
	"git.home.luguber.info/inful/docsite/internal/eventstore"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/manifest"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/nav"
)

// Trigger values recorded in build history.
const (
	TriggerCLI     = "cli"
	TriggerPreview = "preview"
)

// Builder runs site builds for one configuration. A Builder may be reused
// for successive builds but must not run two builds at once.
type Builder struct {
	cfg      *config.Config
	recorder metrics.Recorder
	store    eventstore.Store
	trigger  string
}

// Option customizes a Builder.
type Option func(*Builder)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) {
		if r != nil {
			b.recorder = r
		}
	}
}

// WithEventStore records build events in s.
func WithEventStore(s eventstore.Store) Option {
	return func(b *Builder) { b.store = s }
}

// WithTrigger sets what started the build, for build history.
func WithTrigger(trigger string) Option {
	return func(b *Builder) { b.trigger = trigger }
}

// NewBuilder returns a builder for cfg.
func NewBuilder(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{cfg: cfg, recorder: metrics.NoopRecorder{}, trigger: TriggerCLI}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Config returns the configuration the builder was created with.
func (b *Builder) Config() *config.Config { return b.cfg }

// buildState carries data between stages of one build.
type buildState struct {
	cfg      *config.Config
	buildID  string
	recorder metrics.Recorder
	report   *Report

	renderer *markdown.Renderer
	rule     markdown.LinkRewriteRule
	hasRule  bool
	layout   *layout

	outputDir string
	stageDir  string // where this build writes; equals outputDir when keeping existing output
	staged    bool

	set     *docs.Set
	sidebar *nav.Sidebar
	pages   []manifest.Page
}

// Build runs every stage and promotes the result to the output directory.
// On failure the previous output is left untouched and the returned error
// is a *StageError wrapping the classified cause.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	buildID := manifest.NewBuildID()
	report := newReport(buildID)
	report.Output = b.cfg.Output.Directory
	report.ConfigHash = b.cfg.Snapshot()

	log := slog.With(logfields.BuildID(buildID))
	log.Info("Starting site build",
		slog.String("title", b.cfg.Site.Title),
		logfields.Output(b.cfg.Output.Directory))

	b.emit(ctx, func() (eventstore.Event, error) {
		return eventstore.NewBuildStarted(buildID, eventstore.BuildStartedMeta{
			Title:      b.cfg.Site.Title,
			BaseURL:    b.cfg.Site.BaseURL,
			ConfigHash: report.ConfigHash,
			Trigger:    b.trigger,
		})
	})

	bs, err := b.newBuildState(buildID, report)
	if err == nil {
		err = runStages(ctx, bs, defaultStages())
		if err == nil {
			err = bs.promote()
		}
		if err != nil {
			bs.abort()
		}
	}

	if err != nil {
		outcome := metrics.BuildOutcomeFailed
		if ctx.Err() != nil {
			outcome = metrics.BuildOutcomeCanceled
		}
		report.finish(outcome, b.recorder)
		b.emitFailure(ctx, buildID, report, err)
		log.Error("Site build failed", logfields.Error(err))
		return report, err
	}

	report.finish(metrics.BuildOutcomeSuccess, b.recorder)
	b.emit(ctx, func() (eventstore.Event, error) {
		return eventstore.NewBuildCompleted(buildID, eventstore.BuildCompletedMeta{
			Pages:          report.Pages,
			Assets:         report.Assets,
			LinksRewritten: report.LinksRewritten,
			DurationMS:     report.Duration().Milliseconds(),
			Output:         report.Output,
			ContentHash:    report.ContentHash,
		})
	})
	log.Info("Site build completed",
		logfields.Count(report.Pages),
		slog.Int("assets", report.Assets),
		slog.Int("links_rewritten", report.LinksRewritten),
		logfields.DurationMS(float64(report.Duration().Milliseconds())))
	return report, nil
}

func (b *Builder) newBuildState(buildID string, report *Report) (*buildState, error) {
	pipeline, err := markdown.PipelineFromConfig(b.cfg)
	if err != nil {
		return nil, err
	}
	rule, hasRule, err := markdown.RuleFromConfig(b.cfg)
	if err != nil {
		return nil, err
	}
	lay, err := newLayout()
	if err != nil {
		return nil, err
	}
	return &buildState{
		cfg:       b.cfg,
		buildID:   buildID,
		recorder:  b.recorder,
		report:    report,
		renderer:  markdown.NewRenderer(pipeline),
		rule:      rule,
		hasRule:   hasRule,
		layout:    lay,
		outputDir: filepath.Clean(b.cfg.Output.Directory),
	}, nil
}

func (b *Builder) emit(ctx context.Context, mk func() (eventstore.Event, error)) {
	if b.store == nil {
		return
	}
	ev, err := mk()
	if err == nil {
		err = b.store.Append(context.WithoutCancel(ctx), ev)
	}
	if err != nil {
		slog.Warn("Failed to record build event", logfields.Error(err))
	}
}

func (b *Builder) emitFailure(ctx context.Context, buildID string, report *Report, err error) {
	meta := eventstore.BuildFailedMeta{
		Error:      err.Error(),
		DurationMS: report.Duration().Milliseconds(),
	}
	if se, ok := asStageError(err); ok {
		meta.Stage = string(se.Stage)
	}
	if ce, ok := errors.AsClassified(err); ok {
		meta.Category = string(ce.Category())
	}
	b.emit(ctx, func() (eventstore.Event, error) {
		return eventstore.NewBuildFailed(buildID, meta)
	})
}

// FailedStage returns the stage a build error originated in.
func FailedStage(err error) (StageName, bool) {
	se, ok := asStageError(err)
	if !ok {
		return "", false
	}
	return se.Stage, true
}

func asStageError(err error) (*StageError, bool) {
	var se *StageError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func removeAll(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		slog.Warn("Failed to remove directory", logfields.Path(dir), logfields.Error(err))
	}
}
