// Package observability defines the proxy's Prometheus metrics.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"method", "route", "status"},
	)

	upstreamLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cdss_upstream_latency_seconds",
			Help:    "Latency of CDSS REST API queries in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 14),
		},
		[]string{"resource"},
	)

	cacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_results_total",
			Help: "Cache results by outcome.",
		},
		[]string{"outcome"},
	)

	cacheOpDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_op_duration_seconds",
			Help:    "Duration of cache store operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"op", "status"},
	)

	invalidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invalidation_events_total",
			Help: "Invalidation events processed, by outcome.",
		},
		[]string{"op", "resource", "status"},
	)

	invalidatedKeys = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invalidation_keys_total",
			Help: "Cache keys removed by invalidation events.",
		},
	)

	invalidationDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "invalidation_duration_seconds",
			Help:    "End-to-end processing time of invalidation events.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)

	kafkaConsumerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_consumer_errors_total",
			Help: "Kafka consumer errors by kind.",
		},
		[]string{"kind"},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build information for the binary.",
		},
		[]string{"version"},
	)
)

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func ObserveUpstream(resource string, durationSeconds float64) {
	upstreamLatencySeconds.WithLabelValues(resource).Observe(durationSeconds)
}

func IncCacheHit()  { cacheResults.WithLabelValues("hit").Inc() }
func IncCacheMiss() { cacheResults.WithLabelValues("miss").Inc() }

func ObserveCacheOp(op string, err error, durationSeconds float64) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	cacheOpDurationSeconds.WithLabelValues(op, status).Observe(durationSeconds)
}

func ObserveInvalidation(op, resource string, keys int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	invalidationsTotal.WithLabelValues(op, resource, status).Inc()
	invalidationDurationSeconds.Observe(d.Seconds())
	if keys > 0 {
		invalidatedKeys.Add(float64(keys))
	}
}

func IncKafkaConsumerError(kind string) {
	kafkaConsumerErrors.WithLabelValues(kind).Inc()
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
