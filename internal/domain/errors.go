package domain

import "errors"

var (
	ErrInvalidCommissionRate = errors.New("commission rate out of range")
	ErrListingNotFound       = errors.New("listing not found")
	ErrListingInactive       = errors.New("listing is not active")
	ErrSellerNotOnboarded    = errors.New("seller has no payout-capable account")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderNotPending       = errors.New("order is no longer pending")
	ErrRefAlreadySet         = errors.New("external payment ref already set")
	ErrStatusConflict        = errors.New("order status changed concurrently")
	ErrSessionNotFound       = errors.New("checkout session not found")
	ErrInvalidSignature      = errors.New("event signature verification failed")
	ErrMalformedEvent        = errors.New("malformed event payload")
)
