package dto

type CreateSessionResponse struct {
	SessionHandle string `json:"session_handle"`
	OrderID       string `json:"order_id"`
	CheckoutURL   string `json:"checkout_url,omitempty"`
}

type SessionStatusResponse struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	OrderID       string `json:"order_id,omitempty"`
	OrderStatus   string `json:"order_status,omitempty"`
	Divergent     bool   `json:"divergent"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
