package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// StageName identifies a build stage.
type StageName string

// Stages in execution order.
const (
	StageDiscover        StageName = "discover"
	StageValidateSidebar StageName = "validate_sidebar"
	StagePrepareOutput   StageName = "prepare_output"
	StageRenderPages     StageName = "render_pages"
	StageCopyAssets      StageName = "copy_assets"
	StageWriteManifest   StageName = "write_manifest"
	StageVerifyLinks     StageName = "verify_links"
)

// errSkipStage is returned by a stage that had nothing to do.
var errSkipStage = errors.New("stage skipped")

// StageError records the stage a build stopped in.
type StageError struct {
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("stage %s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

type stageFunc func(ctx context.Context, bs *buildState) error

type stageDef struct {
	name StageName
	fn   stageFunc
}

// stagePipeline collects stages in order.
type stagePipeline struct {
	stages []stageDef
}

func newStagePipeline() *stagePipeline { return &stagePipeline{} }

func (p *stagePipeline) add(name StageName, fn stageFunc) *stagePipeline {
	p.stages = append(p.stages, stageDef{name: name, fn: fn})
	return p
}

func (p *stagePipeline) build() []stageDef {
	return append([]stageDef(nil), p.stages...)
}

// defaultStages returns the standard build sequence.
func defaultStages() []stageDef {
	return newStagePipeline().
		add(StageDiscover, stageDiscover).
		add(StageValidateSidebar, stageValidateSidebar).
		add(StagePrepareOutput, stagePrepareOutput).
		add(StageRenderPages, stageRenderPages).
		add(StageCopyAssets, stageCopyAssets).
		add(StageWriteManifest, stageWriteManifest).
		add(StageVerifyLinks, stageVerifyLinks).
		build()
}

// runStages executes stages in order, recording timing and stopping on the
// first error.
func runStages(ctx context.Context, bs *buildState, stages []stageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			bs.report.recordStage(st.name, 0, metrics.ResultCanceled, bs.recorder)
			return &StageError{Stage: st.name, Err: ctx.Err()}
		default:
		}

		slog.Debug("Stage started", logfields.Stage(string(st.name)), logfields.BuildID(bs.buildID))
		t0 := time.Now()
		err := st.fn(ctx, bs)
		dur := time.Since(t0)

		switch {
		case err == nil:
			bs.report.recordStage(st.name, dur, metrics.ResultSuccess, bs.recorder)
		case errors.Is(err, errSkipStage):
			bs.report.recordStage(st.name, dur, metrics.ResultSkipped, bs.recorder)
		case ctx.Err() != nil:
			bs.report.recordStage(st.name, dur, metrics.ResultCanceled, bs.recorder)
			return &StageError{Stage: st.name, Err: err}
		default:
			bs.report.recordStage(st.name, dur, metrics.ResultFatal, bs.recorder)
			return &StageError{Stage: st.name, Err: err}
		}
		slog.Debug("Stage completed",
			logfields.Stage(string(st.name)),
			logfields.DurationMS(float64(dur.Microseconds())/1000))
	}
	return nil
}
