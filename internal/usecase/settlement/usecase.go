package settlement

import (
	"context"
	"time"

	"github.com/craftlane/settlement-service/internal/domain"
	publisher "github.com/craftlane/settlement-service/internal/infrastructure/kafka"
	"github.com/craftlane/settlement-service/internal/infrastructure/metrics"
	"github.com/craftlane/settlement-service/internal/infrastructure/signature"
)

type SettlementUsecase interface {
	InitiateSession(ctx context.Context, input *InitiateSessionInput) (*SessionOutput, error)
	Ingest(ctx context.Context, rawBody []byte, signatureHeader string) (*IngestResult, error)
	Reconcile(ctx context.Context, event domain.PaymentEvent) (ReconcileOutcome, error)
	ProbeSession(ctx context.Context, handle string) (*ProbeOutput, error)

	MarkShipped(ctx context.Context, orderID string) error
	MarkDelivered(ctx context.Context, orderID string) error
	RefundOrder(ctx context.Context, orderID string) error
	CancelOrder(ctx context.Context, orderID string) error

	SweepStaleOrders(ctx context.Context) error
}

// SettlementPublisher is the slice of the kafka publisher this usecase needs.
type SettlementPublisher interface {
	PublishSettlement(event publisher.SettlementEvent) error
}

type DefaultSettlementUsecase struct {
	OrderRepo         domain.OrderRepository
	Catalog           domain.ListingCatalog
	Sellers           domain.SellerAccounts
	Processor         domain.PaymentProcessor
	Verifier          *signature.Verifier
	Publisher         SettlementPublisher
	Metrics           *metrics.SettlementMetrics
	CommissionRateBps int32
	PendingOrderTTL   time.Duration
}

func NewDefaultSettlementUsecase(
	orderRepo domain.OrderRepository,
	catalog domain.ListingCatalog,
	sellers domain.SellerAccounts,
	processor domain.PaymentProcessor,
	verifier *signature.Verifier,
	settlementPublisher SettlementPublisher,
	settlementMetrics *metrics.SettlementMetrics,
	commissionRateBps int32,
	pendingOrderTTL time.Duration) *DefaultSettlementUsecase {

	return &DefaultSettlementUsecase{
		OrderRepo:         orderRepo,
		Catalog:           catalog,
		Sellers:           sellers,
		Processor:         processor,
		Verifier:          verifier,
		Publisher:         settlementPublisher,
		Metrics:           settlementMetrics,
		CommissionRateBps: commissionRateBps,
		PendingOrderTTL:   pendingOrderTTL,
	}
}
