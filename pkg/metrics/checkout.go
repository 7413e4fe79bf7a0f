package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	checkoutInitiations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: "checkout",
		Name:      "initiations_total",
		Help:      "Checkout initiation attempts by outcome.",
	}, []string{"outcome"})

	checkoutSettlements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: "checkout",
		Name:      "settlements_total",
		Help:      "Settlement attempts by outcome.",
	}, []string{"outcome"})

	inventoryClamps = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shop",
		Subsystem: "checkout",
		Name:      "inventory_clamps_total",
		Help:      "Inventory decrements that would have gone negative and were clamped at zero.",
	})

	gatewayRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "shop",
		Subsystem: "checkout",
		Name:      "gateway_request_duration_seconds",
		Help:      "Latency of payment gateway create-payment calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})
)

const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeNotFound = "not_found"
	OutcomeIgnored  = "ignored"
)

func RecordInitiation(outcome string) {
	checkoutInitiations.WithLabelValues(outcome).Inc()
}

func RecordSettlement(outcome string) {
	checkoutSettlements.WithLabelValues(outcome).Inc()
}

func RecordInventoryClamp() {
	inventoryClamps.Inc()
}

func ObserveGatewayRequest(outcome string, d time.Duration) {
	gatewayRequestDuration.WithLabelValues(outcome).Observe(d.Seconds())
}
