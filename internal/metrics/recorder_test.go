package metrics

import (
	"testing"
	"time"
)

var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStageDuration("render_pages", time.Second)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("render_pages", ResultSuccess)
	r.IncBuildOutcome(BuildOutcomeSuccess)
	r.AddPagesRendered(3)
	r.AddExternalLinksRewritten(2)
	r.SetRenderConcurrency(4)
}

func TestPrometheusRecorder_NilReceiver(t *testing.T) {
	var p *PrometheusRecorder
	p.ObserveStageDuration("render_pages", time.Second)
	p.AddPagesRendered(1)
	p.IncBuildOutcome(BuildOutcomeFailed)
}
