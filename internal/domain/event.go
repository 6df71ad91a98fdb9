package domain

import "encoding/json"

type EventType string

const (
	EventCheckoutCompleted      EventType = "checkout.session.completed"
	EventAsyncPaymentSucceeded  EventType = "checkout.session.async_payment_succeeded"
	EventAsyncPaymentFailed     EventType = "checkout.session.async_payment_failed"
	EventPaymentIntentSucceeded EventType = "payment_intent.succeeded"
	EventPaymentIntentFailed    EventType = "payment_intent.payment_failed"
)

// PaymentEvent is the typed form of a processor notification. The raw JSON
// envelope is decoded exactly once at the ingest boundary; everything past it
// works with this struct.
type PaymentEvent struct {
	ID   string
	Type EventType
	// PaymentRef is the payment-intent id, the join key to the local order.
	PaymentRef string
	// OrderID comes from the session metadata we attached at creation time.
	// Cross-check only, never the join key.
	OrderID string
}

// Recognized reports whether the event type drives an order transition.
// Anything else is acknowledged and dropped so the processor stops resending.
func (t EventType) Recognized() bool {
	switch t {
	case EventCheckoutCompleted, EventAsyncPaymentSucceeded, EventAsyncPaymentFailed,
		EventPaymentIntentSucceeded, EventPaymentIntentFailed:
		return true
	}
	return false
}

type eventEnvelope struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID            string `json:"id"`
			PaymentIntent string `json:"payment_intent"`
			Metadata      struct {
				OrderID string `json:"order_id"`
			} `json:"metadata"`
		} `json:"object"`
	} `json:"data"`
}

// DecodePaymentEvent parses a raw event body. A body that is not valid JSON or
// carries no event id is malformed; a recognized type without a payment
// reference is malformed too, since it can never be reconciled.
func DecodePaymentEvent(raw []byte) (PaymentEvent, error) {
	var env eventEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return PaymentEvent{}, ErrMalformedEvent
	}
	if env.ID == "" || env.Type == "" {
		return PaymentEvent{}, ErrMalformedEvent
	}

	event := PaymentEvent{
		ID:      env.ID,
		Type:    EventType(env.Type),
		OrderID: env.Data.Object.Metadata.OrderID,
	}

	// Session events reference the intent through payment_intent; intent
	// events are the intent object itself.
	switch event.Type {
	case EventCheckoutCompleted, EventAsyncPaymentSucceeded, EventAsyncPaymentFailed:
		event.PaymentRef = env.Data.Object.PaymentIntent
	case EventPaymentIntentSucceeded, EventPaymentIntentFailed:
		event.PaymentRef = env.Data.Object.ID
	default:
		return event, nil
	}

	if event.PaymentRef == "" {
		return PaymentEvent{}, ErrMalformedEvent
	}
	return event, nil
}
