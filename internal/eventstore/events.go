package eventstore

import (
	"encoding/json"
	"time"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// BuildStartedMeta describes the inputs of a build.
type BuildStartedMeta struct {
	Title      string `json:"title"`
	BaseURL    string `json:"base_url"`
	ConfigHash string `json:"config_hash"`
	Trigger    string `json:"trigger"` // "cli" or "preview"
}

// BuildCompletedMeta summarizes a successful build.
type BuildCompletedMeta struct {
	Pages          int    `json:"pages"`
	Assets         int    `json:"assets"`
	LinksRewritten int    `json:"links_rewritten"`
	DurationMS     int64  `json:"duration_ms"`
	Output         string `json:"output"`
	ContentHash    string `json:"content_hash"`
}

// BuildFailedMeta records where and why a build stopped.
type BuildFailedMeta struct {
	Stage      string `json:"stage"`
	Category   string `json:"category,omitempty"`
	Error      string `json:"error"`
	DurationMS int64  `json:"duration_ms"`
}

// NewBuildStarted creates a build.started event.
func NewBuildStarted(buildID string, meta BuildStartedMeta) (Event, error) {
	return newEvent(buildID, TypeBuildStarted, meta)
}

// NewBuildCompleted creates a build.completed event.
func NewBuildCompleted(buildID string, meta BuildCompletedMeta) (Event, error) {
	return newEvent(buildID, TypeBuildCompleted, meta)
}

// NewBuildFailed creates a build.failed event.
func NewBuildFailed(buildID string, meta BuildFailedMeta) (Event, error) {
	return newEvent(buildID, TypeBuildFailed, meta)
}

func newEvent(buildID, eventType string, meta any) (Event, error) {
	payload, err := json.Marshal(meta)
	if err != nil {
		return nil, errors.EventStoreError("failed to marshal event payload").
			WithCause(err).
			WithContext("build_id", buildID).
			WithContext("type", eventType).
			Build()
	}
	return &BaseEvent{
		EventBuildID:   buildID,
		EventType:      eventType,
		EventTimestamp: time.Now().UTC(),
		EventPayload:   payload,
	}, nil
}
