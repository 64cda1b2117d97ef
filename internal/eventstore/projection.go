// Package eventstore persists build events in SQLite and projects them into
// a build history.
package eventstore

import (
	"context"
	"encoding/json"
	"sort"
	"time"
)

// Build status values in summaries.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// BuildSummary is a read model of one build.
type BuildSummary struct {
	BuildID        string        `json:"build_id"`
	Status         string        `json:"status"`
	Trigger        string        `json:"trigger,omitempty"`
	StartedAt      time.Time     `json:"started_at"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
	Duration       time.Duration `json:"duration,omitempty"`
	Pages          int           `json:"pages"`
	LinksRewritten int           `json:"links_rewritten"`
	ErrorStage     string        `json:"error_stage,omitempty"`
	ErrorMessage   string        `json:"error_message,omitempty"`
}

// History replays events from a store into build summaries.
type History struct {
	store Store
}

// NewHistory returns a projection over store.
func NewHistory(store Store) *History {
	return &History{store: store}
}

// Recent returns up to limit builds, newest first. A limit <= 0 returns all.
func (h *History) Recent(ctx context.Context, limit int) ([]BuildSummary, error) {
	events, err := h.store.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return nil, err
	}

	builds := make(map[string]*BuildSummary)
	var order []*BuildSummary
	for _, ev := range events {
		id := ev.BuildID()
		if id == "" {
			continue
		}
		s, ok := builds[id]
		if !ok {
			s = &BuildSummary{BuildID: id, Status: StatusRunning, StartedAt: ev.Timestamp()}
			builds[id] = s
			order = append(order, s)
		}
		apply(s, ev)
	}

	sort.SliceStable(order, func(i, j int) bool { return order[i].StartedAt.After(order[j].StartedAt) })
	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}
	out := make([]BuildSummary, len(order))
	for i, s := range order {
		out[i] = *s
	}
	return out, nil
}

func apply(s *BuildSummary, ev Event) {
	switch ev.Type() {
	case TypeBuildStarted:
		var meta BuildStartedMeta
		if err := json.Unmarshal(ev.Payload(), &meta); err == nil {
			s.Trigger = meta.Trigger
		}
		s.StartedAt = ev.Timestamp()
		s.Status = StatusRunning

	case TypeBuildCompleted:
		finish(s, ev, StatusCompleted)
		var meta BuildCompletedMeta
		if err := json.Unmarshal(ev.Payload(), &meta); err == nil {
			s.Pages = meta.Pages
			s.LinksRewritten = meta.LinksRewritten
		}

	case TypeBuildFailed:
		finish(s, ev, StatusFailed)
		var meta BuildFailedMeta
		if err := json.Unmarshal(ev.Payload(), &meta); err == nil {
			s.ErrorStage = meta.Stage
			s.ErrorMessage = meta.Error
		}
	}
}

func finish(s *BuildSummary, ev Event, status string) {
	at := ev.Timestamp()
	s.CompletedAt = &at
	s.Duration = at.Sub(s.StartedAt)
	s.Status = status
}
