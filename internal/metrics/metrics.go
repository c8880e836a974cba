package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stayfit",
			Name:      "bookings_created_total",
			Help:      "Count of bookings created by resource kind.",
		},
		[]string{"kind"},
	)

	bookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stayfit",
			Name:      "bookings_cancelled_total",
			Help:      "Count of bookings cancelled by users.",
		},
	)

	claims = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stayfit",
			Name:      "session_claims_total",
			Help:      "Count of session capacity claims by outcome.",
		},
		[]string{"outcome"},
	)

	promotions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stayfit",
			Name:      "waitlist_promotions_total",
			Help:      "Count of waitlist promotion attempts by outcome.",
		},
		[]string{"outcome"},
	)

	sessionsMaterialized = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "stayfit",
			Name:      "sessions_materialized_total",
			Help:      "Count of class sessions created by the materializer.",
		},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsCreated, bookingsCancelled, claims, promotions, sessionsMaterialized)
	})
}

func IncBookingCreated(kind string) {
	bookingsCreated.WithLabelValues(kind).Inc()
}

func IncBookingCancelled() {
	bookingsCancelled.Inc()
}

func IncClaim(outcome string) {
	claims.WithLabelValues(outcome).Inc()
}

func IncPromotion(outcome string) {
	promotions.WithLabelValues(outcome).Inc()
}

func AddSessionsMaterialized(n int) {
	sessionsMaterialized.Add(float64(n))
}
