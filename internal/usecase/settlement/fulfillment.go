package settlement

import (
	"context"
	"log/slog"

	"github.com/craftlane/settlement-service/internal/domain"
	publisher "github.com/craftlane/settlement-service/internal/infrastructure/kafka"
)

// Fulfillment transitions cover the edges of the state machine the processor
// never drives: PAID->SHIPPED->DELIVERED, PAID->REFUNDED and the buyer-side
// PENDING->CANCELLED. All go through the same compare-and-set, so a webhook
// landing concurrently cannot be overwritten.

func (uc *DefaultSettlementUsecase) MarkShipped(ctx context.Context, orderID string) error {
	return uc.transition(ctx, orderID, domain.StatusPaid, domain.StatusShipped)
}

func (uc *DefaultSettlementUsecase) MarkDelivered(ctx context.Context, orderID string) error {
	return uc.transition(ctx, orderID, domain.StatusShipped, domain.StatusDelivered)
}

func (uc *DefaultSettlementUsecase) RefundOrder(ctx context.Context, orderID string) error {
	return uc.transition(ctx, orderID, domain.StatusPaid, domain.StatusRefunded)
}

func (uc *DefaultSettlementUsecase) CancelOrder(ctx context.Context, orderID string) error {
	return uc.transition(ctx, orderID, domain.StatusPending, domain.StatusCancelled)
}

func (uc *DefaultSettlementUsecase) transition(ctx context.Context, orderID string, from, to domain.OrderStatus) error {
	if err := uc.OrderRepo.TransitionStatus(ctx, orderID, from, to); err != nil {
		return err
	}

	order, found, err := uc.OrderRepo.GetOrderByID(ctx, orderID)
	if err != nil || !found {
		// Transition already committed; the event below is best-effort.
		slog.Error("failed to reload order after transition", "order_id", orderID)
		return nil
	}

	slog.Info("fulfillment transition applied",
		"order_id", orderID, "from", string(from), "to", string(to))

	go func(event publisher.SettlementEvent) {
		if err := uc.Publisher.PublishSettlement(event); err != nil {
			slog.Error("failed to publish SettlementEvent", "stage", "fulfillment", "error", err.Error())
		}
	}(publisher.SettlementEvent{
		OrderID:     order.ID,
		BuyerID:     order.BuyerID,
		Status:      string(to),
		Amount:      int64(order.TotalAmount),
		PlatformFee: int64(order.PlatformCommission),
	})

	return nil
}
