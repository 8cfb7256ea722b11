// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Quote ingestion metrics
	QuotesIngested    *prometheus.CounterVec
	QuotesRejected    *prometheus.CounterVec
	VenueFetchErrors  *prometheus.CounterVec
	VenueFetchLatency *prometheus.HistogramVec
	CacheFallbacks    *prometheus.CounterVec

	// Scan metrics
	ScanRunsTotal  *prometheus.CounterVec
	ScanDuration   prometheus.Histogram
	RoutesFound    *prometheus.CounterVec
	PathsEvaluated prometheus.Counter

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastScanTimestamp prometheus.Gauge
	LastScanSymbols   prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "arb_scanner"
	}

	return &Metrics{
		QuotesIngested: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "quotes_ingested_total",
			Help:      "Total number of valid quotes ingested by venue",
		}, []string{"venue"}),
		QuotesRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "quotes_rejected_total",
			Help:      "Total number of quotes rejected by venue and reason",
		}, []string{"venue", "reason"}),
		VenueFetchErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "venue_fetch_errors_total",
			Help:      "Total number of failed venue fetches",
		}, []string{"venue"}),
		VenueFetchLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "venue_fetch_latency_seconds",
			Help:      "Venue quote fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"venue"}),
		CacheFallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "market",
			Name:      "cache_fallbacks_total",
			Help:      "Total number of scans served a venue's quotes from cache",
		}, []string{"venue"}),

		ScanRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "runs_total",
			Help:      "Total number of scan cycles by status",
		}, []string{"status"}),
		ScanDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Scan cycle duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		}),
		RoutesFound: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "routes_found_total",
			Help:      "Total number of profitable routes found by kind",
		}, []string{"kind"}),
		PathsEvaluated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "paths_evaluated_total",
			Help:      "Total number of triangular paths evaluated",
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastScanTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_scan_timestamp",
			Help:      "Unix timestamp of last completed scan",
		}),
		LastScanSymbols: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_scan_symbols",
			Help:      "Number of symbols in the last scan snapshot",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordQuoteIngested increments the ingested quote counter for a venue.
func RecordQuoteIngested(venue string) {
	DefaultMetrics.QuotesIngested.WithLabelValues(venue).Inc()
}

// RecordQuoteRejected records a dropped quote with its rejection reason.
func RecordQuoteRejected(venue, reason string) {
	DefaultMetrics.QuotesRejected.WithLabelValues(venue, reason).Inc()
}

// RecordVenueFetch records a venue fetch attempt.
func RecordVenueFetch(venue string, seconds float64, err error) {
	DefaultMetrics.VenueFetchLatency.WithLabelValues(venue).Observe(seconds)
	if err != nil {
		DefaultMetrics.VenueFetchErrors.WithLabelValues(venue).Inc()
	}
}

// RecordCacheFallback increments the cache fallback counter for a venue.
func RecordCacheFallback(venue string) {
	DefaultMetrics.CacheFallbacks.WithLabelValues(venue).Inc()
}

// RecordScan records a completed scan cycle.
func RecordScan(status string, durationSeconds float64, symbols, paths int) {
	DefaultMetrics.ScanRunsTotal.WithLabelValues(status).Inc()
	DefaultMetrics.ScanDuration.Observe(durationSeconds)
	DefaultMetrics.PathsEvaluated.Add(float64(paths))
	DefaultMetrics.LastScanTimestamp.SetToCurrentTime()
	DefaultMetrics.LastScanSymbols.Set(float64(symbols))
}

// RecordRouteFound increments the routes found counter by kind.
func RecordRouteFound(kind string) {
	DefaultMetrics.RoutesFound.WithLabelValues(kind).Inc()
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
