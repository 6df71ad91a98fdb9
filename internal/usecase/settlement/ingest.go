package settlement

import (
	"context"
	"errors"
	"log/slog"

	"github.com/craftlane/settlement-service/internal/domain"
)

type IngestResult struct {
	EventID   string
	EventType domain.EventType
	Outcome   ReconcileOutcome
	// Ignored is set for event types this engine does not care about and for
	// malformed payloads; both are acknowledged so redelivery stops.
	Ignored bool
}

// Ingest is the authentication and parsing boundary for processor events.
// The signature is the only trust anchor: it is checked against the raw body
// before anything is decoded, and failure touches no state.
func (uc *DefaultSettlementUsecase) Ingest(ctx context.Context, rawBody []byte, signatureHeader string) (*IngestResult, error) {
	if err := uc.Verifier.Verify(rawBody, signatureHeader); err != nil {
		slog.Warn("rejected event with invalid signature")
		return nil, err
	}

	event, err := domain.DecodePaymentEvent(rawBody)
	if err != nil {
		if errors.Is(err, domain.ErrMalformedEvent) {
			// Retrying a malformed payload can never succeed; ack it.
			slog.Error("malformed event payload acknowledged as permanent no-op")
			return &IngestResult{Ignored: true}, nil
		}
		return nil, err
	}

	if !event.Type.Recognized() {
		uc.Metrics.EventsIngestedTotal.WithLabelValues(string(event.Type), "ignored").Inc()
		return &IngestResult{EventID: event.ID, EventType: event.Type, Ignored: true}, nil
	}

	outcome, err := uc.Reconcile(ctx, event)
	if err != nil {
		// Retryable: the processor redelivers on non-2xx per its own backoff.
		uc.Metrics.EventsIngestedTotal.WithLabelValues(string(event.Type), "error").Inc()
		return nil, err
	}

	uc.Metrics.EventsIngestedTotal.WithLabelValues(string(event.Type), string(outcome)).Inc()
	return &IngestResult{EventID: event.ID, EventType: event.Type, Outcome: outcome}, nil
}
