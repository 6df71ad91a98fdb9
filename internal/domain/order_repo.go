package domain

import (
	"context"
	"time"
)

// TransitionOutcome describes what ApplyEventTransition did with an event.
type TransitionOutcome string

const (
	// TransitionApplied - the order moved to the new status and the event was
	// recorded, atomically.
	TransitionApplied TransitionOutcome = "APPLIED"
	// TransitionStale - the order was no longer in the expected status; the
	// event was recorded as processed without touching the order.
	TransitionStale TransitionOutcome = "STALE"
	// TransitionDuplicate - another delivery of the same event id won the
	// race; nothing was written.
	TransitionDuplicate TransitionOutcome = "DUPLICATE"
)

type OrderRepository interface {
	CreateOrderWithItems(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, orderID string) (*Order, bool, error)
	FindByExternalRef(ctx context.Context, paymentRef string) (*Order, bool, error)

	// SetExternalPaymentRef binds the processor's payment-intent id to a
	// still-pending order. The ref is written exactly once.
	SetExternalPaymentRef(ctx context.Context, orderID, paymentRef string) error

	// ApplyEventTransition locks the order row, re-checks that its status is
	// still from, and commits the status change together with the processed-
	// event ledger row in one transaction.
	ApplyEventTransition(ctx context.Context, eventID, orderID string, from, to OrderStatus) (TransitionOutcome, error)

	// RecordUnmatchedEvent writes a ledger row with no order so the processor
	// stops redelivering an event we can never resolve.
	RecordUnmatchedEvent(ctx context.Context, eventID string) error
	HasProcessedEvent(ctx context.Context, eventID string) (bool, error)

	// TransitionStatus is the compare-and-set used by the fulfillment paths
	// (ship, deliver, refund, buyer cancel).
	TransitionStatus(ctx context.Context, orderID string, from, to OrderStatus) error

	// CancelStaleUnreferenced cancels pending orders that never received an
	// external payment ref before cutoff. Returns the ids it cancelled.
	CancelStaleUnreferenced(ctx context.Context, cutoff time.Time) ([]string, error)
}
