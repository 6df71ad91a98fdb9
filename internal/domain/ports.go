package domain

import "context"

// Listing is the read-only view of a catalog entry this engine needs: the
// price snapshot and enough to route the seller's share.
type Listing struct {
	ID       string
	SellerID string
	Price    Money
	Active   bool
}

type ListingCatalog interface {
	GetListing(ctx context.Context, listingID string) (Listing, bool, error)
}

// SellerAccounts exposes the payout-onboarding capability flag. Onboarding
// itself happens elsewhere; here it is only a gate.
type SellerAccounts interface {
	PayoutAccountID(ctx context.Context, sellerID string) (string, bool, error)
}

type CreateSessionInput struct {
	OrderID string
	// IdempotencyKey guards the processor call against our own retries.
	IdempotencyKey string
	Amount         Money
	PlatformFee    Money
	// PayoutAccountID routes the seller's net share on the processor side.
	PayoutAccountID string
}

type CheckoutSession struct {
	// Handle is the opaque client/redirect token.
	Handle string
	// PaymentRef is the payment-intent id, the reconciliation join key.
	PaymentRef  string
	CheckoutURL string
}

type SessionStatus struct {
	Status        string
	PaymentStatus string
	PaymentRef    string
}

// PaymentProcessor is the external checkout service. Both calls must respect
// the context deadline; a timed-out session create leaves the local order
// pending and unreferenced for the sweeper.
type PaymentProcessor interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (CheckoutSession, error)
	GetSession(ctx context.Context, handle string) (SessionStatus, error)
}

type Message struct {
	Key   []byte
	Value []byte
}
