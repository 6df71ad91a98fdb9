package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics groups the payment-settlement counters.
type SettlementMetrics struct {
	SessionsInitiatedTotal prometheus.Counter
	SessionInitFailedTotal *prometheus.CounterVec

	EventsIngestedTotal   *prometheus.CounterVec
	DuplicateEventsTotal  prometheus.Counter
	UnmatchedEventsTotal  prometheus.Counter
	StaleTransitionsTotal prometheus.Counter

	OrdersSettledTotal       *prometheus.CounterVec
	OrdersSettledAmountTotal *prometheus.CounterVec
	StaleOrdersCancelledTotal prometheus.Counter

	ReconcileDuration prometheus.Histogram
}

func NewSettlementMetrics() *SettlementMetrics {
	return &SettlementMetrics{
		SessionsInitiatedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "settlement_sessions_initiated_total",
			Help: "Checkout sessions successfully initiated",
		}),
		SessionInitFailedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_session_init_failed_total",
			Help: "Session initiations failed, by reason",
		}, []string{"reason"}),
		EventsIngestedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_events_ingested_total",
			Help: "Processor events ingested, by type and outcome",
		}, []string{"event_type", "outcome"}),
		DuplicateEventsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "settlement_duplicate_events_total",
			Help: "Events skipped because the id was already in the ledger",
		}),
		UnmatchedEventsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "settlement_unmatched_events_total",
			Help: "Events whose payment ref resolved to no local order",
		}),
		StaleTransitionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "settlement_stale_transitions_total",
			Help: "Events absorbed as no-ops because the order had moved on",
		}),
		OrdersSettledTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_orders_settled_total",
			Help: "Orders reaching a settled status, by status",
		}, []string{"status"}),
		OrdersSettledAmountTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "settlement_orders_settled_amount_total",
			Help: "Minor-unit amount of settled orders, by status",
		}, []string{"status"}),
		StaleOrdersCancelledTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "settlement_stale_orders_cancelled_total",
			Help: "Unreferenced pending orders cancelled by the sweeper",
		}),
		ReconcileDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "settlement_reconcile_duration_seconds",
			Help:    "Time spent reconciling one event",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
