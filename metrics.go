package antrean

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector provides Prometheus metrics for the request pipeline and
// the resource store. It is safe for concurrent use.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	retriesTotal *prometheus.CounterVec

	dedupHits *prometheus.CounterVec

	resourceRevalidations prometheus.Counter
	resourceStale         prometheus.Counter
	resourceRetries       prometheus.Counter

	errorsTotal *prometheus.CounterVec
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using the supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	return &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "antrean_requests_total",
				Help: "Total number of HTTP requests made",
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "antrean_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "status_code", "endpoint"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "antrean_requests_in_flight",
				Help: "Number of HTTP requests currently in flight",
			},
			[]string{"method", "endpoint"},
		),
		retriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "antrean_retries_total",
				Help: "Total number of transport retry attempts",
			},
			[]string{"method", "endpoint", "attempt"},
		),
		dedupHits: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "antrean_deduplication_hits_total",
				Help: "Total number of coalesced duplicate requests",
			},
			[]string{"method", "endpoint"},
		),
		resourceRevalidations: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "antrean_resource_revalidations_total",
				Help: "Total number of resource store fetches issued",
			},
		),
		resourceStale: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "antrean_resource_stale_hits_total",
				Help: "Total number of reads served from the resource store without a fetch",
			},
		),
		resourceRetries: promauto.With(registry).NewCounter(
			prometheus.CounterOpts{
				Name: "antrean_resource_retries_total",
				Help: "Total number of resource store retry attempts",
			},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "antrean_errors_total",
				Help: "Total number of errors by type",
			},
			[]string{"type", "method", "endpoint"},
		),
	}
}

// RecordRequestStart increments the in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(method, endpoint string) {
	mc.requestsInFlight.WithLabelValues(method, endpoint).Inc()
}

// RecordRequestEnd decrements the in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(method, endpoint string) {
	mc.requestsInFlight.WithLabelValues(method, endpoint).Dec()
}

// RecordRequest records a completed request with its final status code.
func (mc *MetricsCollector) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(method, status, endpoint).Inc()
	mc.requestDuration.WithLabelValues(method, status, endpoint).Observe(duration.Seconds())
}

// RecordRetry records a transport retry attempt.
func (mc *MetricsCollector) RecordRetry(method, endpoint string, attempt int) {
	mc.retriesTotal.WithLabelValues(method, endpoint, strconv.Itoa(attempt)).Inc()
}

// RecordDedupHit records a coalesced duplicate request.
func (mc *MetricsCollector) RecordDedupHit(method, endpoint string) {
	mc.dedupHits.WithLabelValues(method, endpoint).Inc()
}

// RecordResourceRevalidation records a fetch issued by the resource store.
func (mc *MetricsCollector) RecordResourceRevalidation() {
	mc.resourceRevalidations.Inc()
}

// RecordResourceStaleHit records a read served without a fetch.
func (mc *MetricsCollector) RecordResourceStaleHit() {
	mc.resourceStale.Inc()
}

// RecordResourceRetry records a retry scheduled by the resource store.
func (mc *MetricsCollector) RecordResourceRetry() {
	mc.resourceRetries.Inc()
}

// RecordError records an error by classification.
func (mc *MetricsCollector) RecordError(errorType, method, endpoint string) {
	mc.errorsTotal.WithLabelValues(errorType, method, endpoint).Inc()
}
