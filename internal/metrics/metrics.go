package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var UpdateRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "autodns_update_requests_total",
		Help: "Number of update requests by outcome.",
	},
	[]string{"outcome"},
)

var ProviderCalls = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "autodns_provider_call_seconds",
		Help:    "Duration of DNS provider API calls.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"op"},
)

var NotificationFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "autodns_notification_failures_total",
		Help: "Number of failed notification sends.",
	},
)

// InitMetrics registers the collectors with the default registry
func InitMetrics() {
	prometheus.Register(UpdateRequests)
	prometheus.Register(ProviderCalls)
	prometheus.Register(NotificationFailures)
}

// IncrementOutcome counts one finished update request
func IncrementOutcome(outcome string) {
	UpdateRequests.WithLabelValues(outcome).Inc()
}

// ObserveProviderCall records the duration of one provider API call
func ObserveProviderCall(op string, d time.Duration) {
	ProviderCalls.WithLabelValues(op).Observe(d.Seconds())
}

// IncrementNotificationFailure counts one failed notification send
func IncrementNotificationFailure() {
	NotificationFailures.Inc()
}
