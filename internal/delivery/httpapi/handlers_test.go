package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/craftlane/settlement-service/internal/domain"
	"github.com/craftlane/settlement-service/internal/usecase/settlement"
	"github.com/gin-gonic/gin"
)

type fakeUsecase struct {
	initiateOut   *settlement.SessionOutput
	initiateErr   error
	ingestOut     *settlement.IngestResult
	ingestErr     error
	probeOut      *settlement.ProbeOutput
	probeErr      error
	transitionErr error

	ingestedBody   []byte
	ingestedHeader string
}

func (f *fakeUsecase) InitiateSession(_ context.Context, _ *settlement.InitiateSessionInput) (*settlement.SessionOutput, error) {
	return f.initiateOut, f.initiateErr
}

func (f *fakeUsecase) Ingest(_ context.Context, rawBody []byte, signatureHeader string) (*settlement.IngestResult, error) {
	f.ingestedBody = rawBody
	f.ingestedHeader = signatureHeader
	return f.ingestOut, f.ingestErr
}

func (f *fakeUsecase) Reconcile(_ context.Context, _ domain.PaymentEvent) (settlement.ReconcileOutcome, error) {
	return settlement.OutcomeApplied, nil
}

func (f *fakeUsecase) ProbeSession(_ context.Context, _ string) (*settlement.ProbeOutput, error) {
	return f.probeOut, f.probeErr
}

func (f *fakeUsecase) MarkShipped(_ context.Context, _ string) error   { return f.transitionErr }
func (f *fakeUsecase) MarkDelivered(_ context.Context, _ string) error { return f.transitionErr }
func (f *fakeUsecase) RefundOrder(_ context.Context, _ string) error   { return f.transitionErr }
func (f *fakeUsecase) CancelOrder(_ context.Context, _ string) error   { return f.transitionErr }
func (f *fakeUsecase) SweepStaleOrders(_ context.Context) error        { return nil }

func serve(t *testing.T, uc settlement.SettlementUsecase, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	NewRouter(uc).ServeHTTP(w, req)
	return w
}

func TestCreateSessionCreated(t *testing.T) {
	uc := &fakeUsecase{initiateOut: &settlement.SessionOutput{
		OrderID: "order-1", SessionHandle: "cs_1", CheckoutURL: "https://pay.example/cs_1",
	}}

	body := bytes.NewBufferString(`{"listing_id": "listing-1", "quantity": 2}`)
	req := httptest.NewRequest(http.MethodPost, "/orders/sessions", body)
	req.Header.Set("X-Buyer-ID", "buyer-1")

	w := serve(t, uc, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var response map[string]string
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["session_handle"] != "cs_1" || response["order_id"] != "order-1" {
		t.Errorf("response %v", response)
	}
}

func TestCreateSessionRequiresBuyer(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/orders/sessions",
		bytes.NewBufferString(`{"listing_id": "l", "quantity": 1}`))

	if w := serve(t, &fakeUsecase{}, req); w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestCreateSessionValidation(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/orders/sessions",
		bytes.NewBufferString(`{"listing_id": "", "quantity": 0}`))
	req.Header.Set("X-Buyer-ID", "buyer-1")

	if w := serve(t, &fakeUsecase{}, req); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestCreateSessionErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrListingNotFound, http.StatusBadRequest},
		{domain.ErrListingInactive, http.StatusBadRequest},
		{domain.ErrSellerNotOnboarded, http.StatusConflict},
		{errors.New("processor down"), http.StatusBadGateway},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/orders/sessions",
			bytes.NewBufferString(`{"listing_id": "l", "quantity": 1}`))
		req.Header.Set("X-Buyer-ID", "buyer-1")

		w := serve(t, &fakeUsecase{initiateErr: tt.err}, req)
		if w.Code != tt.want {
			t.Errorf("%v: status = %d, want %d", tt.err, w.Code, tt.want)
		}
	}
}

func TestWebhookAcknowledgesApplied(t *testing.T) {
	uc := &fakeUsecase{ingestOut: &settlement.IngestResult{
		EventID: "evt_1", EventType: domain.EventCheckoutCompleted, Outcome: settlement.OutcomeApplied,
	}}

	req := httptest.NewRequest(http.MethodPost, "/payments/events",
		bytes.NewBufferString(`{"id":"evt_1"}`))
	req.Header.Set("Settlement-Signature", "t=1,v1=aa")

	w := serve(t, uc, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if uc.ingestedHeader != "t=1,v1=aa" {
		t.Errorf("signature header not forwarded: %q", uc.ingestedHeader)
	}
	if string(uc.ingestedBody) != `{"id":"evt_1"}` {
		t.Errorf("raw body altered before ingest: %q", uc.ingestedBody)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	uc := &fakeUsecase{ingestErr: domain.ErrInvalidSignature}

	req := httptest.NewRequest(http.MethodPost, "/payments/events", bytes.NewBufferString(`{}`))
	if w := serve(t, uc, req); w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestWebhookRequestsRedeliveryOnTransientFailure(t *testing.T) {
	uc := &fakeUsecase{ingestErr: errors.New("storage unavailable")}

	req := httptest.NewRequest(http.MethodPost, "/payments/events", bytes.NewBufferString(`{}`))
	if w := serve(t, uc, req); w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 so the processor redelivers", w.Code)
	}
}

func TestWebhookAcksIgnoredEvent(t *testing.T) {
	uc := &fakeUsecase{ingestOut: &settlement.IngestResult{Ignored: true}}

	req := httptest.NewRequest(http.MethodPost, "/payments/events", bytes.NewBufferString(`{}`))
	if w := serve(t, uc, req); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestSessionStatus(t *testing.T) {
	uc := &fakeUsecase{probeOut: &settlement.ProbeOutput{
		Status: "complete", PaymentStatus: "paid",
		OrderID: "order-1", OrderStatus: domain.StatusPending, Divergent: true,
	}}

	req := httptest.NewRequest(http.MethodGet, "/orders/sessions/cs_1/status", nil)
	w := serve(t, uc, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var response map[string]any
	json.Unmarshal(w.Body.Bytes(), &response)
	if response["divergent"] != true {
		t.Errorf("divergence not surfaced: %v", response)
	}
}

func TestSessionStatusUnknownHandle(t *testing.T) {
	uc := &fakeUsecase{probeErr: fmt.Errorf("failed to fetch session status: %w", domain.ErrSessionNotFound)}

	req := httptest.NewRequest(http.MethodGet, "/orders/sessions/cs_missing/status", nil)
	if w := serve(t, uc, req); w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestSessionStatusProcessorUnavailable(t *testing.T) {
	// A processor blip is not a verdict on the session. The poller must see a
	// retryable status, never a 404 that would make it give up.
	uc := &fakeUsecase{probeErr: errors.New("processor unreachable: connection refused")}

	req := httptest.NewRequest(http.MethodGet, "/orders/sessions/cs_1/status", nil)
	if w := serve(t, uc, req); w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502 so the client retries", w.Code)
	}
}

func TestFulfillmentConflict(t *testing.T) {
	uc := &fakeUsecase{transitionErr: domain.ErrStatusConflict}

	req := httptest.NewRequest(http.MethodPost, "/orders/order-1/ship", nil)
	if w := serve(t, uc, req); w.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", w.Code)
	}
}
