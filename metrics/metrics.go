package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skill_swap",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "skill_swap",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	payments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skill_swap",
			Subsystem: "ledger",
			Name:      "payments_total",
			Help:      "Payments submitted to the ledger by purpose and outcome.",
		},
		[]string{"purpose", "status"},
	)

	collectibles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skill_swap",
			Subsystem: "ledger",
			Name:      "collectibles_total",
			Help:      "Collectible issuance attempts by kind and outcome.",
		},
		[]string{"kind", "success"},
	)

	bookingTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skill_swap",
			Subsystem: "booking",
			Name:      "transitions_total",
			Help:      "Booking workflow state transitions by target state.",
		},
		[]string{"state"},
	)

	reconciled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "skill_swap",
			Subsystem: "ledger",
			Name:      "reconciled_payments_total",
			Help:      "Payments with an unknown outcome resolved by reconciliation.",
		},
		[]string{"status"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		payments,
		collectibles,
		bookingTransitions,
		reconciled,
	)
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func RecordPayment(purpose, status string) {
	payments.WithLabelValues(purpose, status).Inc()
}

func RecordCollectible(kind string, success bool) {
	collectibles.WithLabelValues(kind, strconv.FormatBool(success)).Inc()
}

func RecordBookingTransition(state string) {
	bookingTransitions.WithLabelValues(state).Inc()
}

func RecordReconciled(status string) {
	reconciled.WithLabelValues(status).Inc()
}
