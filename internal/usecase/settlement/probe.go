package settlement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/craftlane/settlement-service/internal/domain"
)

type ProbeOutput struct {
	Status        string
	PaymentStatus string
	OrderID       string
	OrderStatus   domain.OrderStatus
	// Divergent is set when the processor already reports the payment settled
	// but the local order is still pending, i.e. the async event has not
	// arrived yet.
	Divergent bool
}

// ProbeSession is the synchronous fallback read for clients returning from a
// redirect before the webhook lands. It never mutates the order: the
// reconciler is the single writer into the state machine, and this path only
// surfaces a discrepancy.
func (uc *DefaultSettlementUsecase) ProbeSession(ctx context.Context, handle string) (*ProbeOutput, error) {
	session, err := uc.Processor.GetSession(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session status: %w", err)
	}

	output := &ProbeOutput{
		Status:        session.Status,
		PaymentStatus: session.PaymentStatus,
	}

	if session.PaymentRef == "" {
		return output, nil
	}

	order, found, err := uc.OrderRepo.FindByExternalRef(ctx, session.PaymentRef)
	if err != nil {
		return nil, err
	}
	if !found {
		return output, nil
	}

	output.OrderID = order.ID
	output.OrderStatus = order.Status

	if session.PaymentStatus == "paid" && order.Status == domain.StatusPending {
		output.Divergent = true
		slog.Warn("probe observed settled payment ahead of local order",
			"order_id", order.ID, "session", handle)
	}

	return output, nil
}
