package settlement

import (
	"context"
	"log/slog"
	"time"
)

// PendingOrderTTL is injected at startup; stored here so the background task
// does not need the config package.
var defaultPendingTTL = 30 * time.Minute

// SweepStaleOrders cancels pending orders that never received an external
// payment ref. They come from session creations whose processor call failed
// or timed out; there is no session to reconcile, so they can only rot.
func (uc *DefaultSettlementUsecase) SweepStaleOrders(ctx context.Context) error {
	cutoff := time.Now().Add(-uc.pendingTTL())

	cancelled, err := uc.OrderRepo.CancelStaleUnreferenced(ctx, cutoff)
	if err != nil {
		return err
	}

	if len(cancelled) > 0 {
		uc.Metrics.StaleOrdersCancelledTotal.Add(float64(len(cancelled)))
		slog.Info("cancelled stale unreferenced orders", "count", len(cancelled))
	}
	return nil
}

func (uc *DefaultSettlementUsecase) pendingTTL() time.Duration {
	if uc.PendingOrderTTL > 0 {
		return uc.PendingOrderTTL
	}
	return defaultPendingTTL
}
