// Package metrics holds the Prometheus collectors of the address service.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the service collectors.
type Metrics struct {
	QueriesTotal      *prometheus.CounterVec
	EmptyResultsTotal *prometheus.CounterVec
	QueryDurationMs   *prometheus.HistogramVec
	BuildDuration     prometheus.Histogram
	BuildDocuments    prometheus.Gauge
	SkippedRecords    *prometheus.CounterVec
	CacheRequests     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ruaddress_queries_total",
			Help: "Total number of address queries by operation",
		}, []string{"op"}),
		EmptyResultsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ruaddress_empty_results_total",
			Help: "Total number of address queries that found nothing",
		}, []string{"op"}),
		QueryDurationMs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ruaddress_query_duration_ms",
			Help:    "Query duration in milliseconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 20, 50, 100, 200, 500},
		}, []string{"op"}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ruaddress_build_duration_seconds",
			Help:    "Duration of address store rebuilds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		BuildDocuments: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ruaddress_build_documents",
			Help: "Number of documents in the last committed build",
		}),
		SkippedRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ruaddress_skipped_records_total",
			Help: "Records dropped during rebuilds by reason",
		}, []string{"reason"}),
		CacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ruaddress_cache_requests_total",
			Help: "Code lookup cache requests by result",
		}, []string{"result"}),
	}
	reg.MustRegister(
		m.QueriesTotal,
		m.EmptyResultsTotal,
		m.QueryDurationMs,
		m.BuildDuration,
		m.BuildDocuments,
		m.SkippedRecords,
		m.CacheRequests,
	)
	return m
}

// ObserveQuery records one query of op that took d.
func (m *Metrics) ObserveQuery(op string, d time.Duration) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(op).Inc()
	m.QueryDurationMs.WithLabelValues(op).Observe(float64(d.Microseconds()) / 1000)
}

// EmptyResult records a query of op that found nothing.
func (m *Metrics) EmptyResult(op string) {
	if m == nil {
		return
	}
	m.EmptyResultsTotal.WithLabelValues(op).Inc()
}

// ObserveBuild records a committed rebuild.
func (m *Metrics) ObserveBuild(d time.Duration, documents int, skipped map[string]int) {
	if m == nil {
		return
	}
	m.BuildDuration.Observe(d.Seconds())
	m.BuildDocuments.Set(float64(documents))
	for reason, n := range skipped {
		m.SkippedRecords.WithLabelValues(reason).Add(float64(n))
	}
}

// CacheResult records a cache hit, miss or error.
func (m *Metrics) CacheResult(result string) {
	if m == nil {
		return
	}
	m.CacheRequests.WithLabelValues(result).Inc()
}

// Handler serves the collectors of g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
