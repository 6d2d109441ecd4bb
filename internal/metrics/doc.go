// Package metrics provides the observability hooks for generation runs.
//
// Components receive a Recorder through their constructor options and default
// to NoopRecorder, so no call site needs a nil check. The watch command swaps in
// a PrometheusRecorder when the preview server is enabled and exposes it through
// HTTPHandler at /metrics.
package metrics
