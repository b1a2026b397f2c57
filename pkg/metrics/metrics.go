// Package metrics defines the Prometheus metrics the booking core exposes,
// using the promauto GaugeVec/CounterVec/HistogramVec pattern.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "bookingcore_bookings_by_status",
		Help: "Current number of bookings in each status.",
	}, []string{"status"})

	TransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookingcore_transitions_total",
		Help: "Total accepted booking state transitions.",
	}, []string{"from", "to"})

	AcceptConflictsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookingcore_accept_conflicts_total",
		Help: "Total accept attempts that lost the race or failed preconditions.",
	}, []string{"reason"})

	WebhookEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookingcore_webhook_events_total",
		Help: "Total webhook events processed, by outcome.",
	}, []string{"provider", "outcome"})

	PaymentCapturesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookingcore_payment_captures_total",
		Help: "Total payment capture attempts, by outcome.",
	}, []string{"outcome"})

	SweeperExpiredTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookingcore_sweeper_expired_total",
		Help: "Total bookings expired by the TTL sweeper.",
	}, []string{"reason"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bookingcore_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
