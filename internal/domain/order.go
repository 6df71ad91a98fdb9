package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusPaid      OrderStatus = "PAID"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
	StatusRefunded  OrderStatus = "REFUNDED"
)

// Money is an amount in minor currency units (cents).
type Money int64

type Order struct {
	ID                 string
	BuyerID            string
	TotalAmount        Money
	PlatformCommission Money
	// ExternalPaymentRef is the processor's payment-intent id. Empty until the
	// checkout session exists; set exactly once and never rewritten.
	ExternalPaymentRef string
	Status             OrderStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
	Items              []OrderItem
}

type OrderItem struct {
	ID        string
	OrderID   string
	ListingID string
	Quantity  int32
	// UnitPrice is the listing price snapshot taken at purchase time.
	UnitPrice Money
}
