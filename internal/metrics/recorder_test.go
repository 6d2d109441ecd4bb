package metrics

import "time"

// testRecorder counts calls; compile-time check that it satisfies Recorder.
type testRecorder struct {
	runs         int
	outcomes     map[string]int
	routeResults map[ResultLabel]int
	assets       int
	watchEvents  map[string]int
}

var (
	_ Recorder = (*testRecorder)(nil)
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)

	_ LiveReloadRecorder = NoopRecorder{}
	_ LiveReloadRecorder = (*PrometheusRecorder)(nil)
)

func (t *testRecorder) ObserveRunDuration(time.Duration)           { t.runs++ }
func (t *testRecorder) IncRunOutcome(o string)                     { t.outcomes[o]++ }
func (t *testRecorder) ObserveRouteDuration(string, time.Duration) {}
func (t *testRecorder) IncRouteResult(r ResultLabel)               { t.routeResults[r]++ }
func (t *testRecorder) AddAssetsCopied(n int)                      { t.assets += n }
func (t *testRecorder) IncWatchEvent(kind string)                  { t.watchEvents[kind]++ }
