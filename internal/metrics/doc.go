// Package metrics provides build observability hooks.
//
// Components receive a Recorder and call it unconditionally. NoopRecorder is
// the default; PrometheusRecorder is used by the preview server, which exposes
// the registry on /metrics.
package metrics
