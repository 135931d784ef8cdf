package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helpme",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	transitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helpme",
			Name:      "transitions_total",
			Help:      "Lifecycle transitions by entity and target status.",
		},
		[]string{"entity", "status"},
	)

	notifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helpme",
			Name:      "notifications_total",
			Help:      "Notifications produced by type.",
		},
		[]string{"type"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, transitions, notifications)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncTransition counts one lifecycle transition.
func IncTransition(entity, status string) {
	transitions.WithLabelValues(entity, status).Inc()
}

// IncNotification counts one produced notification.
func IncNotification(notifType string) {
	notifications.WithLabelValues(notifType).Inc()
}
