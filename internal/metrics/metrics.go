package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	BookingsSubmitted  prometheus.Counter
	BookingsFailed     prometheus.Counter
	PromotionsApplied  prometheus.Counter
	PromotionsRejected prometheus.Counter
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
}

// New registers the service collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		BookingsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "booking_submissions_total",
			Help: "Number of successfully submitted bookings.",
		}),
		BookingsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "booking_submission_failures_total",
			Help: "Number of booking submissions that failed or were rolled back.",
		}),
		PromotionsApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "promotions_applied_total",
			Help: "Number of promotion codes successfully applied to bookings.",
		}),
		PromotionsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "promotions_rejected_total",
			Help: "Number of promotion code attempts rejected at validation.",
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "circuit_cache_hits_total",
			Help: "Circuit detail reads served from the cache.",
		}),
		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "circuit_cache_misses_total",
			Help: "Circuit detail reads that fell through to the database.",
		}),
	}
}
