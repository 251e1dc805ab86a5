// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Webhook metrics
	WebhookDurationSeconds *prometheus.HistogramVec
	WebhookRequestsTotal   *prometheus.CounterVec
	WebhookEventsTotal     *prometheus.CounterVec

	// Classification metrics
	ClassifiedTotal *prometheus.CounterVec

	// Reply dispatch metrics
	ReplyTotal           *prometheus.CounterVec
	ReplyDurationSeconds prometheus.Histogram

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		WebhookDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "protein_webhook_duration_seconds",
				Help:    "Webhook request handling duration in seconds by outcome",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"status"},
		),

		WebhookRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protein_webhook_requests_total",
				Help: "Total number of webhook requests by outcome",
			},
			[]string{"status"}, // status: ok, invalid_signature, malformed, dispatch_error
		),

		WebhookEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protein_webhook_events_total",
				Help: "Total number of webhook events by type and handling",
			},
			[]string{"event_type", "handling"}, // handling: replied, ignored, dropped
		),

		ClassifiedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protein_classified_messages_total",
				Help: "Total number of text messages by matched rule",
			},
			[]string{"rule"},
		),

		ReplyTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protein_reply_dispatch_total",
				Help: "Total number of LINE reply calls by status",
			},
			[]string{"status"}, // status: success, error
		),

		ReplyDurationSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "protein_reply_dispatch_duration_seconds",
				Help:    "LINE reply API call duration in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),

		HTTPErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "protein_http_errors_total",
				Help: "Total HTTP errors by type and component",
			},
			[]string{"error_type", "component"},
		),
	}
}

// RecordWebhook records one webhook request with its outcome
func (m *Metrics) RecordWebhook(status string, duration float64) {
	m.WebhookRequestsTotal.WithLabelValues(status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(status).Observe(duration)
}

// RecordEvent records how a single webhook event was handled
func (m *Metrics) RecordEvent(eventType, handling string) {
	m.WebhookEventsTotal.WithLabelValues(eventType, handling).Inc()
}

// RecordClassification records the rule that answered a text message
func (m *Metrics) RecordClassification(rule string) {
	m.ClassifiedTotal.WithLabelValues(rule).Inc()
}

// RecordReply records a reply API call
func (m *Metrics) RecordReply(status string, duration float64) {
	m.ReplyTotal.WithLabelValues(status).Inc()
	m.ReplyDurationSeconds.Observe(duration)
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, component string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, component).Inc()
}

// WatchLogDrops exposes the number of log records the async sink discarded.
func WatchLogDrops(registry *prometheus.Registry, dropped func() uint64) {
	promauto.With(registry).NewCounterFunc(
		prometheus.CounterOpts{
			Name: "protein_log_records_dropped_total",
			Help: "Log records dropped because the remote log queue was full",
		},
		func() float64 { return float64(dropped()) },
	)
}
