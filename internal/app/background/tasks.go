package background

import (
	"context"
	"log/slog"
	"time"

	"github.com/craftlane/settlement-service/internal/usecase/settlement"
)

// StartStaleOrderSweeper periodically cancels pending orders that never got a
// payment session bound to them. Runs until ctx is cancelled.
func StartStaleOrderSweeper(ctx context.Context, uc settlement.SettlementUsecase, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := uc.SweepStaleOrders(ctx); err != nil {
				slog.Error("stale order sweep failed", "error", err.Error())
			}
		}
	}
}
