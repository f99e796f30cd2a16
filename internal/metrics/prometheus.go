// Package metrics carries the pipeline's instrumentation: Prometheus
// collectors for the long-lived shipment server and a CloudWatch
// Embedded Metrics Format recorder for the watermark Lambda.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the notification relay and live-update delivery.
var (
	RelayMessagesReceived = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_messages_received_total",
			Help: "Total number of queue messages received by the notification relay",
		},
	)

	RelayMessagesDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_messages_delivered_total",
			Help: "Total number of notifications delivered and acknowledged",
		},
	)

	RelayDeliveryFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_delivery_failures_total",
			Help: "Total number of failed hand-offs to live-update delivery",
		},
	)

	RelayParseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_parse_failures_total",
			Help: "Total number of malformed queue messages dropped",
		},
	)

	LiveSessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_sessions_active",
			Help: "Number of currently open live-update sessions",
		},
	)

	LivePushesSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "live_pushes_sent_total",
			Help: "Total number of events pushed to live sessions",
		},
	)
)

// Register registers all Prometheus collectors with the default registry.
// Call once at server startup.
func Register() {
	prometheus.MustRegister(RelayMessagesReceived)
	prometheus.MustRegister(RelayMessagesDelivered)
	prometheus.MustRegister(RelayDeliveryFailures)
	prometheus.MustRegister(RelayParseFailures)
	prometheus.MustRegister(LiveSessionsActive)
	prometheus.MustRegister(LivePushesSent)
}
