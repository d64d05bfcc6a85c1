package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	bookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "service_booking",
			Name:      "bookings_total",
			Help:      "Booking commands by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	pricingQuotesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "service_booking",
			Name:      "pricing_quotes_total",
			Help:      "Price-for-range and simulation computations.",
		},
	)

	ledgerMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "service_booking",
			Name:      "ledger_mutations_total",
			Help:      "Availability ledger mutations by kind.",
		},
		[]string{"kind"},
	)
)

// Register registers all collectors. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(bookingsTotal, pricingQuotesTotal, ledgerMutationsTotal)
	})
}

// IncBooking counts one booking command result.
func IncBooking(operation, outcome string) {
	bookingsTotal.WithLabelValues(operation, outcome).Inc()
}

// IncPricingQuote counts one pricing computation.
func IncPricingQuote() {
	pricingQuotesTotal.Inc()
}

// IncLedgerMutation counts one ledger mutation of the given kind.
func IncLedgerMutation(kind string) {
	ledgerMutationsTotal.WithLabelValues(kind).Inc()
}
