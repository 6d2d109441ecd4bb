package metrics

import (
	"net/http"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	runDuration   prom.Histogram
	runOutcome    *prom.CounterVec
	routeDuration *prom.HistogramVec
	routeResults  *prom.CounterVec
	assetsCopied  prom.Counter
	watchEvents   *prom.CounterVec

	lrConnections prom.Counter
	lrClients     prom.Gauge
	lrBroadcasts  prom.Counter
	lrDropped     prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "bundleless",
			Name:      "run_duration_seconds",
			Help:      "Duration of complete generation runs",
			Buckets:   prom.DefBuckets,
		})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "bundleless",
			Name:      "run_outcomes_total",
			Help:      "Generation runs by final outcome",
		}, []string{"outcome"})
		pr.routeDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "bundleless",
			Name:      "route_duration_seconds",
			Help:      "Duration of single route generation",
			Buckets:   prom.DefBuckets,
		}, []string{"route"})
		pr.routeResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "bundleless",
			Name:      "route_results_total",
			Help:      "Route generation results by outcome",
		}, []string{"result"})
		pr.assetsCopied = prom.NewCounter(prom.CounterOpts{
			Namespace: "bundleless",
			Name:      "assets_copied_total",
			Help:      "Static assets copied into route output directories",
		})
		pr.watchEvents = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "bundleless",
			Name:      "watch_events_total",
			Help:      "Filesystem events seen by the watcher, by handling",
		}, []string{"kind"})
		pr.lrConnections = prom.NewCounter(prom.CounterOpts{
			Namespace: "bundleless",
			Name:      "livereload_connections_total",
			Help:      "LiveReload stream connections accepted",
		})
		pr.lrClients = prom.NewGauge(prom.GaugeOpts{
			Namespace: "bundleless",
			Name:      "livereload_clients",
			Help:      "Currently connected LiveReload clients",
		})
		pr.lrBroadcasts = prom.NewCounter(prom.CounterOpts{
			Namespace: "bundleless",
			Name:      "livereload_broadcasts_total",
			Help:      "Reload notifications sent after generation runs",
		})
		pr.lrDropped = prom.NewCounter(prom.CounterOpts{
			Namespace: "bundleless",
			Name:      "livereload_dropped_clients_total",
			Help:      "LiveReload clients dropped because their buffer was full",
		})
		reg.MustRegister(pr.runDuration, pr.runOutcome, pr.routeDuration, pr.routeResults, pr.assetsCopied, pr.watchEvents,
			pr.lrConnections, pr.lrClients, pr.lrBroadcasts, pr.lrDropped)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	p.runOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObserveRouteDuration(route string, d time.Duration) {
	p.routeDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRouteResult(result ResultLabel) {
	p.routeResults.WithLabelValues(string(result)).Inc()
}

func (p *PrometheusRecorder) AddAssetsCopied(n int) {
	if n > 0 {
		p.assetsCopied.Add(float64(n))
	}
}

func (p *PrometheusRecorder) IncWatchEvent(kind string) {
	p.watchEvents.WithLabelValues(kind).Inc()
}

func (p *PrometheusRecorder) IncLiveReloadConnection() { p.lrConnections.Inc() }

func (p *PrometheusRecorder) SetLiveReloadClients(n int) { p.lrClients.Set(float64(n)) }

func (p *PrometheusRecorder) IncLiveReloadBroadcast() { p.lrBroadcasts.Inc() }

func (p *PrometheusRecorder) AddLiveReloadDropped(n int) {
	if n > 0 {
		p.lrDropped.Add(float64(n))
	}
}

// HTTPHandler serves reg in the Prometheus text format, or OpenMetrics when the
// scraper negotiates it. Collection errors are reported in the response body.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}
