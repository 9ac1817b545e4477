// Package metrics defines Prometheus metrics for the listings service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listings_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	// PropertyChangesTotal counts committed change log rows by field.
	PropertyChangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_property_changes_total",
			Help: "Total committed property change log rows by field",
		},
		[]string{"field"},
	)

	// PropertyUpdatesTotal counts update attempts by outcome
	// (changed, unchanged, not_found, error).
	PropertyUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listings_property_updates_total",
			Help: "Total property updates by outcome",
		},
		[]string{"outcome"},
	)

	ChangeQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "listings_change_queue_depth",
			Help: "Current committed-change notification queue depth",
		},
	)

	FeedConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "listings_feed_connections",
			Help: "Current number of change feed WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		PropertyChangesTotal, PropertyUpdatesTotal,
		ChangeQueueDepth, FeedConnections,
	)
}
