package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "project30"

var (
	once sync.Once

	apiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Count of remote API requests by endpoint and outcome.",
		},
		[]string{"endpoint", "outcome"},
	)

	apiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Latency of remote API requests.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"endpoint"},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Reference data cache lookups by result.",
		},
		[]string{"result"},
	)

	bookingCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_created_total",
			Help:      "Count of bookings reserved.",
		},
	)

	statusUpdated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_status_updated_total",
			Help:      "Count of booking status changes by new status.",
		},
		[]string{"status"},
	)

	bookingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_cancelled_total",
			Help:      "Count of bookings cancelled by users.",
		},
	)

	ownBookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "own_booking_conflicts_total",
			Help:      "Cells where the user holds more than one active booking.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			apiRequests,
			apiDuration,
			cacheLookups,
			bookingCreated,
			statusUpdated,
			bookingCancelled,
			ownBookingConflicts,
		)
	})
}

func ObserveAPIRequest(endpoint string, err error, took time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	apiRequests.WithLabelValues(endpoint, outcome).Inc()
	apiDuration.WithLabelValues(endpoint).Observe(took.Seconds())
}

func IncCacheLookup(hit bool) {
	if hit {
		cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	cacheLookups.WithLabelValues("miss").Inc()
}

func IncBookingCreated() {
	bookingCreated.Inc()
}

func IncStatusUpdated(status string) {
	statusUpdated.WithLabelValues(status).Inc()
}

func IncBookingCancelled() {
	bookingCancelled.Inc()
}

func IncOwnBookingConflict() {
	ownBookingConflicts.Inc()
}
