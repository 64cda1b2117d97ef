package errors

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil)))

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"not found", NotFoundError("no such build").Build(), 4},
		{"config", ConfigError("bad config").Build(), 7},
		{"render", RenderError("render failed").Build(), 11},
		{"docs", DocsError("duplicate slug").Build(), 11},
		{"eventstore", EventStoreError("open").Build(), 12},
		{"internal", InternalError("boom").Build(), 10},
		{"unclassified", errors.New("unknown error"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, nil)

	cfgErr := ConfigError("sidebar slug has no matching document").
		WithContext("slug", "getting_started").
		Build()
	msg := quiet.FormatError(cfgErr)
	if !strings.Contains(msg, "sidebar slug has no matching document") {
		t.Errorf("expected message in output, got %q", msg)
	}
	if !strings.Contains(msg, "slug: getting_started") {
		t.Errorf("expected context in output, got %q", msg)
	}

	internal := quiet.FormatError(InternalError("nil pointer").Build())
	if !strings.Contains(internal, "use -v") {
		t.Errorf("expected internal errors to be hidden, got %q", internal)
	}

	verbose := NewCLIErrorAdapter(true, nil)
	if got := verbose.FormatError(InternalError("nil pointer").Build()); !strings.Contains(got, "nil pointer") {
		t.Errorf("expected verbose output to include message, got %q", got)
	}

	if got := quiet.FormatError(errors.New("plain")); got != "Error: plain" {
		t.Errorf("unexpected plain format %q", got)
	}
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	var out, logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil))).WithOutput(&out)

	code := adapter.Report(ConfigError("base path must start with '/'").Build())
	if code != 7 {
		t.Fatalf("expected exit code 7, got %d", code)
	}
	if !strings.Contains(out.String(), "base path") {
		t.Errorf("expected user message, got %q", out.String())
	}
	if !strings.Contains(logs.String(), "category=config") {
		t.Errorf("expected category in logs, got %q", logs.String())
	}
	if adapter.Report(nil) != 0 {
		t.Error("expected nil error to report 0")
	}
}

func TestCLIErrorAdapter_HandleErrorNil(t *testing.T) {
	var out bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&out, nil))).WithOutput(&out)
	adapter.HandleError(nil)
	if out.Len() != 0 {
		t.Errorf("expected no output for nil error, got %q", out.String())
	}
}

func TestCLIErrorAdapter_ReportUnclassified(t *testing.T) {
	var out, logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil))).WithOutput(&out)

	if code := adapter.Report(errors.New("disk full")); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(logs.String(), `error="disk full"`) {
		t.Errorf("expected error attribute in logs, got %q", logs.String())
	}
}
