package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/craftlane/settlement-service/internal/domain"
	publisher "github.com/craftlane/settlement-service/internal/infrastructure/kafka"
)

type ReconcileOutcome string

const (
	OutcomeApplied   ReconcileOutcome = "applied"
	OutcomeDuplicate ReconcileOutcome = "duplicate"
	OutcomeStale     ReconcileOutcome = "stale"
	OutcomeUnmatched ReconcileOutcome = "unmatched"
)

// transitionFor maps an event type to the transition it drives. Every
// processor-driven edge starts at PENDING; later states are only reachable
// through the fulfillment operations.
func transitionFor(eventType domain.EventType) (to domain.OrderStatus, ok bool) {
	switch eventType {
	case domain.EventCheckoutCompleted, domain.EventAsyncPaymentSucceeded, domain.EventPaymentIntentSucceeded:
		return domain.StatusPaid, true
	case domain.EventAsyncPaymentFailed, domain.EventPaymentIntentFailed:
		return domain.StatusCancelled, true
	}
	return "", false
}

// Reconcile applies one processor event to the local order state, exactly
// once. Any error returned here is retryable: the event was not recorded as
// processed and the processor's redelivery will try again.
func (uc *DefaultSettlementUsecase) Reconcile(ctx context.Context, event domain.PaymentEvent) (ReconcileOutcome, error) {
	start := time.Now()
	defer func() {
		uc.Metrics.ReconcileDuration.Observe(time.Since(start).Seconds())
	}()

	// Fast duplicate check. The ledger's primary key inside
	// ApplyEventTransition closes the race two concurrent deliveries leave.
	seen, err := uc.OrderRepo.HasProcessedEvent(ctx, event.ID)
	if err != nil {
		return "", fmt.Errorf("failed to check event ledger: %w", err)
	}
	if seen {
		uc.Metrics.DuplicateEventsTotal.Inc()
		return OutcomeDuplicate, nil
	}

	order, found, err := uc.OrderRepo.FindByExternalRef(ctx, event.PaymentRef)
	if err != nil {
		return "", fmt.Errorf("failed to resolve payment ref: %w", err)
	}
	if !found {
		// Record and acknowledge: redelivering an event for an order that
		// will never exist cannot succeed. Flagged for manual review.
		if err := uc.OrderRepo.RecordUnmatchedEvent(ctx, event.ID); err != nil {
			return "", fmt.Errorf("failed to record unmatched event: %w", err)
		}
		uc.Metrics.UnmatchedEventsTotal.Inc()
		slog.Warn("event references unknown payment ref",
			"event_id", event.ID, "event_type", string(event.Type), "payment_ref", event.PaymentRef)
		return OutcomeUnmatched, nil
	}

	if event.OrderID != "" && event.OrderID != order.ID {
		// Metadata cross-check only; the payment ref stays the join key.
		slog.Warn("event metadata order id disagrees with payment ref",
			"event_id", event.ID, "metadata_order_id", event.OrderID, "order_id", order.ID)
	}

	to, ok := transitionFor(event.Type)
	if !ok {
		return "", fmt.Errorf("no transition for event type %s", event.Type)
	}

	outcome, err := uc.OrderRepo.ApplyEventTransition(ctx, event.ID, order.ID, domain.StatusPending, to)
	if err != nil {
		return "", fmt.Errorf("failed to apply transition: %w", err)
	}

	switch outcome {
	case domain.TransitionDuplicate:
		uc.Metrics.DuplicateEventsTotal.Inc()
		return OutcomeDuplicate, nil
	case domain.TransitionStale:
		uc.Metrics.StaleTransitionsTotal.Inc()
		slog.Info("event absorbed as no-op, order already advanced",
			"event_id", event.ID, "order_id", order.ID, "status", string(order.Status))
		return OutcomeStale, nil
	}

	uc.recordOrderSettled(order, to)
	slog.Info("order transition applied",
		"event_id", event.ID, "order_id", order.ID, "from", string(domain.StatusPending), "to", string(to))

	go func(event publisher.SettlementEvent) {
		if err := uc.Publisher.PublishSettlement(event); err != nil {
			slog.Error("failed to publish SettlementEvent", "stage", "reconcile", "error", err.Error())
		}
	}(publisher.SettlementEvent{
		OrderID:     order.ID,
		BuyerID:     order.BuyerID,
		Status:      string(to),
		Amount:      int64(order.TotalAmount),
		PlatformFee: int64(order.PlatformCommission),
		EventID:     event.ID,
		EventType:   string(event.Type),
	})

	return OutcomeApplied, nil
}
