package models

import "time"

// ProcessedEventModel is the idempotency ledger. One row per external event
// id, ever; rows are never deleted in normal operation.
type ProcessedEventModel struct {
	EventID string `gorm:"primaryKey"`
	// OrderID is null when the event referenced an order we could not resolve.
	OrderID    *string   `gorm:"type:uuid;index"`
	ReceivedAt time.Time `gorm:"not null"`
}

func (ProcessedEventModel) TableName() string {
	return "processed_events"
}
