package publisher

type SettlementEvent struct {
	OrderID     string `json:"order_id"`
	BuyerID     string `json:"buyer_id"`
	Status      string `json:"status"`
	Amount      int64  `json:"amount"`
	PlatformFee int64  `json:"platform_fee"`
	EventID     string `json:"event_id,omitempty"`
	EventType   string `json:"event_type,omitempty"`
}
