package models

import (
	"time"

	"github.com/craftlane/settlement-service/internal/domain"
)

type OrderModel struct {
	ID                 string `gorm:"primaryKey;type:uuid"`
	BuyerID            string `gorm:"type:uuid;index:idx_buyer"`
	TotalAmount        int64  `gorm:"not null"`
	PlatformCommission int64  `gorm:"not null"`
	// Unique and nullable: the ref exists only after the checkout session was
	// created, and it is the reconciliation join key.
	ExternalPaymentRef *string            `gorm:"uniqueIndex:ux_orders_external_payment_ref"`
	Status             domain.OrderStatus `gorm:"index:idx_status_created"`
	CreatedAt          time.Time          `gorm:"index:idx_status_created"`
	UpdatedAt          time.Time
	Items              []OrderItemModel `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

type OrderItemModel struct {
	ID        string `gorm:"primaryKey;type:uuid"`
	OrderID   string `gorm:"type:uuid;not null;index"`
	ListingID string `gorm:"not null;index"`
	Quantity  int32  `gorm:"not null"`
	UnitPrice int64  `gorm:"not null"`
}
