package metrics

import "time"

// ResultLabel enumerates per-route result categories for counters.
type ResultLabel string

const (
	ResultGenerated ResultLabel = "generated"
	ResultSkipped   ResultLabel = "skipped"
	ResultFailed    ResultLabel = "failed"
)

// Recorder defines observability hooks for generation runs. Implementations
// may forward to Prometheus; NoopRecorder is the default so callers never nil-check.
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome string) // outcome: success|partial|empty|failed
	ObserveRouteDuration(route string, d time.Duration)
	IncRouteResult(result ResultLabel)
	AddAssetsCopied(n int)
	IncWatchEvent(kind string) // kind: change|coalesced|ignored|rescan
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration)           {}
func (NoopRecorder) IncRunOutcome(string)                       {}
func (NoopRecorder) ObserveRouteDuration(string, time.Duration) {}
func (NoopRecorder) IncRouteResult(ResultLabel)                 {}
func (NoopRecorder) AddAssetsCopied(int)                        {}
func (NoopRecorder) IncWatchEvent(string)                       {}

// LiveReloadRecorder observes the preview server's LiveReload stream.
type LiveReloadRecorder interface {
	IncLiveReloadConnection()
	SetLiveReloadClients(n int)
	IncLiveReloadBroadcast()
	AddLiveReloadDropped(n int)
}

func (NoopRecorder) IncLiveReloadConnection() {}
func (NoopRecorder) SetLiveReloadClients(int) {}
func (NoopRecorder) IncLiveReloadBroadcast()  {}
func (NoopRecorder) AddLiveReloadDropped(int) {}
