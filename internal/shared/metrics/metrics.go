// Package metrics defines Prometheus metrics for the console session core.
//
// Metric naming follows Prometheus conventions:
//   - darenow_ prefix for all custom metrics
//   - _total suffix for counters
//   - _seconds suffix for duration histograms
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// APIRequestsTotal counts remote API calls by classification and response status.
	APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "darenow_api_requests_total",
			Help: "Total remote API requests by classification and status.",
		},
		[]string{"class", "status"},
	)

	// APIRequestDurationSeconds is a histogram of remote API latency by classification.
	APIRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "darenow_api_request_duration_seconds",
			Help:    "Duration of remote API requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"class"},
	)

	// SessionTeardownsTotal counts sessions cleared after a 401.
	SessionTeardownsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "darenow_session_teardowns_total",
			Help: "Total sessions cleared because the remote API answered 401.",
		},
		[]string{"variant"},
	)

	// SessionEventsTotal counts synchronizer events by variant, kind and source.
	SessionEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "darenow_session_events_total",
			Help: "Total session events delivered to subscribers.",
		},
		[]string{"variant", "kind", "source"},
	)

	// LoginsTotal counts login attempts by variant and outcome.
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "darenow_logins_total",
			Help: "Total login attempts by variant and outcome.",
		},
		[]string{"variant", "outcome"},
	)

	// GuardDecisionsTotal counts route guard decisions.
	GuardDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "darenow_guard_decisions_total",
			Help: "Total route guard decisions by state.",
		},
		[]string{"state"},
	)
)

// Registry holds every collector above; the console serves it on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		APIRequestsTotal,
		APIRequestDurationSeconds,
		SessionTeardownsTotal,
		SessionEventsTotal,
		LoginsTotal,
		GuardDecisionsTotal,
	)
}

// RecordAPIRequest records a completed remote call. status 0 means a transport failure.
func RecordAPIRequest(class string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	APIRequestsTotal.WithLabelValues(class, label).Inc()
	APIRequestDurationSeconds.WithLabelValues(class).Observe(duration.Seconds())
}
