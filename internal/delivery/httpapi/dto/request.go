package dto

// CreateSessionRequest is the payload for POST /orders/sessions.
type CreateSessionRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
	Quantity  int32  `json:"quantity" validate:"required,min=1"`
}
