package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/craftlane/settlement-service/internal/domain"
)

// HTTPCheckoutClient talks to the external payment processor. Every call is
// bounded by the client timeout; a timed-out session create is reported as an
// error and the local order stays pending without a ref.
type HTTPCheckoutClient struct {
	Address string
	client  *http.Client
}

func NewHTTPCheckoutClient(address string, timeout time.Duration) *HTTPCheckoutClient {
	return &HTTPCheckoutClient{
		Address: address,
		client:  &http.Client{Timeout: timeout},
	}
}

type createSessionRequest struct {
	Amount          int64             `json:"amount"`
	ApplicationFee  int64             `json:"application_fee_amount"`
	PayoutAccountID string            `json:"transfer_destination"`
	IdempotencyKey  string            `json:"idempotency_key"`
	Metadata        map[string]string `json:"metadata"`
}

type sessionResponse struct {
	ID            string `json:"id"`
	PaymentIntent string `json:"payment_intent"`
	URL           string `json:"url"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (c *HTTPCheckoutClient) CreateSession(ctx context.Context, input domain.CreateSessionInput) (domain.CheckoutSession, error) {
	requestBodyBytes, err := json.Marshal(createSessionRequest{
		Amount:          int64(input.Amount),
		ApplicationFee:  int64(input.PlatformFee),
		PayoutAccountID: input.PayoutAccountID,
		IdempotencyKey:  input.IdempotencyKey,
		Metadata:        map[string]string{"order_id": input.OrderID},
	})
	if err != nil {
		return domain.CheckoutSession{}, err
	}

	var response sessionResponse
	if err := c.post(ctx, "/v1/checkout/sessions", requestBodyBytes, &response); err != nil {
		return domain.CheckoutSession{}, err
	}

	return domain.CheckoutSession{
		Handle:      response.ID,
		PaymentRef:  response.PaymentIntent,
		CheckoutURL: response.URL,
	}, nil
}

func (c *HTTPCheckoutClient) GetSession(ctx context.Context, handle string) (domain.SessionStatus, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/v1/checkout/sessions/%s", c.Address, handle), nil)
	if err != nil {
		return domain.SessionStatus{}, err
	}

	response, err := c.client.Do(request)
	if err != nil {
		return domain.SessionStatus{}, err
	}
	defer response.Body.Close()

	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return domain.SessionStatus{}, err
	}

	if response.StatusCode == http.StatusNotFound {
		return domain.SessionStatus{}, domain.ErrSessionNotFound
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return domain.SessionStatus{}, decodeError(responseBodyBytes, response.StatusCode)
	}

	var session sessionResponse
	if err := json.Unmarshal(responseBodyBytes, &session); err != nil {
		return domain.SessionStatus{}, err
	}

	return domain.SessionStatus{
		Status:        session.Status,
		PaymentStatus: session.PaymentStatus,
		PaymentRef:    session.PaymentIntent,
	}, nil
}

func (c *HTTPCheckoutClient) post(ctx context.Context, path string, body []byte, out any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.Address+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := c.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return err
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return decodeError(responseBodyBytes, response.StatusCode)
	}

	return json.Unmarshal(responseBodyBytes, out)
}

func decodeError(body []byte, status int) error {
	var errResponse errorResponse
	if err := json.Unmarshal(body, &errResponse); err == nil && errResponse.Error != "" {
		return errors.New(errResponse.Error)
	}
	return fmt.Errorf("processor returned status %d", status)
}
