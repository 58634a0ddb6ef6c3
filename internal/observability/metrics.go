package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yungbote/vamshavali-backend/internal/kinship"
)

const namespace = "vamshavali"

// Metrics owns a private registry so several instances can coexist in tests.
// It satisfies kinship.Observer.
type Metrics struct {
	registry *prometheus.Registry

	resolveTotal    *prometheus.CounterVec
	resolveErrors   *prometheus.CounterVec
	resolveDuration prometheus.Histogram

	snapshotVersion prometheus.Gauge
	snapshotBuild   prometheus.Histogram
	snapshotPersons prometheus.Gauge
	snapshotEdges   prometheus.Gauge
	snapshotSkipped *prometheus.GaugeVec
	phrasingTotal   *prometheus.CounterVec
	apiRequests     *prometheus.CounterVec
	apiLatency      *prometheus.HistogramVec
	apiInflight     prometheus.Gauge
}

var _ kinship.Observer = (*Metrics)(nil)

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		resolveTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_total",
			Help:      "Resolved relationships by confidence.",
		}, []string{"confidence"}),
		resolveErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolve_errors_total",
			Help:      "Failed or negative resolutions by kind.",
		}, []string{"kind"}),
		resolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolve_duration_seconds",
			Help:      "Deterministic resolution latency.",
			Buckets:   []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		snapshotVersion: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_version",
			Help:      "Version of the published graph snapshot.",
		}),
		snapshotBuild: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snapshot_build_seconds",
			Help:      "Time to build a graph snapshot.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}),
		snapshotPersons: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_persons",
			Help:      "Persons in the published snapshot.",
		}),
		snapshotEdges: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_edges",
			Help:      "Directed edges in the published snapshot.",
		}),
		snapshotSkipped: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_skipped_relations",
			Help:      "Relations left out of the published snapshot by reason.",
		}, []string{"reason"}),
		phrasingTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "phrasing_total",
			Help:      "Phrasing attempts by outcome.",
		}, []string{"outcome"}),
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		apiInflight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_inflight_requests",
			Help:      "HTTP requests being served.",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) ObserveResolve(c kinship.Confidence, d time.Duration) {
	m.resolveTotal.WithLabelValues(string(c)).Inc()
	m.resolveDuration.Observe(d.Seconds())
}

func (m *Metrics) ObserveResolveError(kind string) {
	m.resolveErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveSnapshot(version uint64, d time.Duration, stats kinship.BuildStats) {
	m.snapshotVersion.Set(float64(version))
	m.snapshotBuild.Observe(d.Seconds())
	m.snapshotPersons.Set(float64(stats.Persons))
	m.snapshotEdges.Set(float64(stats.Edges))
	m.snapshotSkipped.WithLabelValues("dangling").Set(float64(stats.SkippedDangling))
	m.snapshotSkipped.WithLabelValues("self_link").Set(float64(stats.SkippedSelfLinked))
}

func (m *Metrics) ObservePhrasing(outcome string) {
	m.phrasingTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) ApiInflightInc() { m.apiInflight.Inc() }

func (m *Metrics) ApiInflightDec() { m.apiInflight.Dec() }
