package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)

	ActiveViews = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "chat_views_active",
			Help: "Current number of open chat views (websocket connections)",
		},
	)

	SnapshotsPushedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "live_snapshots_pushed_total",
			Help: "Snapshots delivered by live subscriptions",
		},
		[]string{"collection"},
	)

	SubscriptionErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "live_subscription_errors_total",
			Help: "Errors reported by live subscriptions",
		},
		[]string{"collection"},
	)

	StoreWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_writes_total",
			Help: "Store write requests by operation and result",
		},
		[]string{"op", "result"},
	)

	ChangeNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_changes_received_total",
			Help: "Change notifications received from the notification bus",
		},
		[]string{"driver"},
	)
)

// WriteResult labels a store write for StoreWritesTotal.
func WriteResult(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
