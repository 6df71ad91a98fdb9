package settlement

import (
	"context"
	"sync"
	"time"

	"github.com/craftlane/settlement-service/internal/domain"
	publisher "github.com/craftlane/settlement-service/internal/infrastructure/kafka"
	"github.com/craftlane/settlement-service/internal/infrastructure/metrics"
	"github.com/craftlane/settlement-service/internal/infrastructure/signature"
)

// Registered once per test binary; promauto metrics cannot be re-registered.
var testMetrics = metrics.NewSettlementMetrics()

// fakeOrderRepo keeps the repository contract in memory: the mutex stands in
// for the row lock, the processed map for the ledger's primary key.
type fakeOrderRepo struct {
	mu        sync.Mutex
	orders    map[string]*domain.Order
	processed map[string]*string
	failWith  error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:    map[string]*domain.Order{},
		processed: map[string]*string{},
	}
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Items = append([]domain.OrderItem(nil), order.Items...)
	return &clone
}

func (r *fakeOrderRepo) CreateOrderWithItems(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	r.orders[order.ID] = cloneOrder(order)
	return nil
}

func (r *fakeOrderRepo) GetOrderByID(_ context.Context, orderID string) (*domain.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, false, nil
	}
	return cloneOrder(order), true, nil
}

func (r *fakeOrderRepo) FindByExternalRef(_ context.Context, paymentRef string) (*domain.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, order := range r.orders {
		if order.ExternalPaymentRef == paymentRef && paymentRef != "" {
			return cloneOrder(order), true, nil
		}
	}
	return nil, false, nil
}

func (r *fakeOrderRepo) SetExternalPaymentRef(_ context.Context, orderID, paymentRef string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.ExternalPaymentRef != "" {
		return domain.ErrRefAlreadySet
	}
	if order.Status != domain.StatusPending {
		return domain.ErrOrderNotPending
	}
	order.ExternalPaymentRef = paymentRef
	return nil
}

func (r *fakeOrderRepo) ApplyEventTransition(_ context.Context, eventID, orderID string, from, to domain.OrderStatus) (domain.TransitionOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return "", r.failWith
	}
	order, ok := r.orders[orderID]
	if !ok {
		return "", domain.ErrOrderNotFound
	}
	if _, seen := r.processed[eventID]; seen {
		return domain.TransitionDuplicate, nil
	}
	r.processed[eventID] = &orderID
	if order.Status != from {
		return domain.TransitionStale, nil
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	return domain.TransitionApplied, nil
}

func (r *fakeOrderRepo) RecordUnmatchedEvent(_ context.Context, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.processed[eventID]; !seen {
		r.processed[eventID] = nil
	}
	return nil
}

func (r *fakeOrderRepo) HasProcessedEvent(_ context.Context, eventID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return false, r.failWith
	}
	_, seen := r.processed[eventID]
	return seen, nil
}

func (r *fakeOrderRepo) TransitionStatus(_ context.Context, orderID string, from, to domain.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.Status != from {
		return domain.ErrStatusConflict
	}
	order.Status = to
	return nil
}

func (r *fakeOrderRepo) CancelStaleUnreferenced(_ context.Context, cutoff time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var cancelled []string
	for _, order := range r.orders {
		if order.Status == domain.StatusPending && order.ExternalPaymentRef == "" && order.CreatedAt.Before(cutoff) {
			order.Status = domain.StatusCancelled
			cancelled = append(cancelled, order.ID)
		}
	}
	return cancelled, nil
}

func (r *fakeOrderRepo) ledgerSize() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.processed)
}

func (r *fakeOrderRepo) status(orderID string) domain.OrderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[orderID].Status
}

type fakeProcessor struct {
	mu          sync.Mutex
	createErr   error
	nextSession domain.CheckoutSession
	sessions    map[string]domain.SessionStatus
	created     []domain.CreateSessionInput
}

func (p *fakeProcessor) CreateSession(_ context.Context, input domain.CreateSessionInput) (domain.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createErr != nil {
		return domain.CheckoutSession{}, p.createErr
	}
	p.created = append(p.created, input)
	return p.nextSession, nil
}

func (p *fakeProcessor) GetSession(_ context.Context, handle string) (domain.SessionStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	session, ok := p.sessions[handle]
	if !ok {
		return domain.SessionStatus{}, domain.ErrSessionNotFound
	}
	return session, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publisher.SettlementEvent
}

func (p *fakePublisher) PublishSettlement(event publisher.SettlementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type fakeCatalog struct {
	listings map[string]domain.Listing
}

func (c *fakeCatalog) GetListing(_ context.Context, listingID string) (domain.Listing, bool, error) {
	listing, ok := c.listings[listingID]
	return listing, ok, nil
}

type fakeSellers struct {
	accounts map[string]string
}

func (s *fakeSellers) PayoutAccountID(_ context.Context, sellerID string) (string, bool, error) {
	account, ok := s.accounts[sellerID]
	return account, ok, nil
}

const testWebhookSecret = "whsec_test"

func newTestUsecase(repo *fakeOrderRepo, processor *fakeProcessor) *DefaultSettlementUsecase {
	return NewDefaultSettlementUsecase(
		repo,
		&fakeCatalog{listings: map[string]domain.Listing{
			"listing-1": {ID: "listing-1", SellerID: "seller-1", Price: 10000, Active: true},
			"listing-2": {ID: "listing-2", SellerID: "seller-2", Price: 500, Active: true},
			"inactive":  {ID: "inactive", SellerID: "seller-1", Price: 100, Active: false},
		}},
		&fakeSellers{accounts: map[string]string{"seller-1": "acct_1"}},
		processor,
		signature.NewVerifier(testWebhookSecret, 5*time.Minute),
		&fakePublisher{},
		testMetrics,
		500, // 5%
		30*time.Minute,
	)
}

func pendingOrder(repo *fakeOrderRepo, id, ref string) *domain.Order {
	order := &domain.Order{
		ID:                 id,
		BuyerID:            "buyer-1",
		TotalAmount:        10000,
		PlatformCommission: 500,
		ExternalPaymentRef: ref,
		Status:             domain.StatusPending,
		CreatedAt:          time.Now(),
	}
	repo.orders[order.ID] = order
	return order
}
