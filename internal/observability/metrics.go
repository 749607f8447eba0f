// Package observability provides logging, metrics, and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusboard_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campusboard_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// NotificationsDispatched counts notifications created by trigger type.
	NotificationsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusboard_notifications_dispatched_total",
		Help: "Total number of notifications dispatched by type",
	}, []string{"type"})

	// NotificationDispatchFailures counts swallowed notification-dispatch errors.
	NotificationDispatchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusboard_notification_dispatch_failures_total",
		Help: "Total number of notification dispatch failures by type",
	}, []string{"type"})

	// ReportsSubmitted counts abuse reports accepted by target type.
	ReportsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusboard_reports_submitted_total",
		Help: "Total number of abuse reports accepted by target type",
	}, []string{"target_type"})

	// CacheResults counts cache-aside lookups by key prefix and outcome.
	CacheResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusboard_cache_results_total",
		Help: "Cache-aside lookups by key prefix and outcome (hit/miss/bypass)",
	}, []string{"prefix", "outcome"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
