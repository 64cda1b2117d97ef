package site

import (
	"sync"
	"time"

	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// Report summarizes one build.
type Report struct {
	BuildID        string
	Start          time.Time
	End            time.Time
	Output         string
	Pages          int
	Assets         int
	Drafts         int
	LinksRewritten int
	ConfigHash     string
	ContentHash    string
	Warnings       []string
	StageDurations map[StageName]time.Duration
	StageResults   map[StageName]metrics.ResultLabel
	Outcome        metrics.BuildOutcomeLabel

	mu sync.Mutex
}

func newReport(buildID string) *Report {
	return &Report{
		BuildID:        buildID,
		Start:          time.Now(),
		StageDurations: make(map[StageName]time.Duration),
		StageResults:   make(map[StageName]metrics.ResultLabel),
	}
}

// Duration is the wall time of the build.
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

func (r *Report) recordStage(name StageName, d time.Duration, result metrics.ResultLabel, rec metrics.Recorder) {
	r.mu.Lock()
	r.StageDurations[name] = d
	r.StageResults[name] = result
	r.mu.Unlock()
	rec.ObserveStageDuration(string(name), d)
	rec.IncStageResult(string(name), result)
}

func (r *Report) addWarning(msg string) {
	r.mu.Lock()
	r.Warnings = append(r.Warnings, msg)
	r.mu.Unlock()
}

func (r *Report) finish(outcome metrics.BuildOutcomeLabel, rec metrics.Recorder) {
	r.End = time.Now()
	r.Outcome = outcome
	rec.ObserveBuildDuration(r.End.Sub(r.Start))
	rec.IncBuildOutcome(outcome)
}
