package settlement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/craftlane/settlement-service/internal/domain"
	publisher "github.com/craftlane/settlement-service/internal/infrastructure/kafka"
	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
)

type InitiateSessionInput struct {
	BuyerID   string
	ListingID string
	Quantity  int32
}

type SessionOutput struct {
	OrderID       string
	SessionHandle string
	CheckoutURL   string
}

// InitiateSession snapshots the listing price, computes the commission split,
// persists the pending order locally and only then asks the processor for a
// checkout session. If the processor call fails the order stays pending with
// no external ref; the stale-order sweeper cancels it later. That is the
// documented resolution of the local-commit-then-external-call dual write.
func (uc *DefaultSettlementUsecase) InitiateSession(ctx context.Context, input *InitiateSessionInput) (*SessionOutput, error) {
	if input.Quantity <= 0 {
		uc.Metrics.SessionInitFailedTotal.WithLabelValues("invalid_quantity").Inc()
		return nil, domain.ErrInvalidQuantity
	}

	listing, found, err := uc.Catalog.GetListing(ctx, input.ListingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	if !found {
		uc.Metrics.SessionInitFailedTotal.WithLabelValues("listing_not_found").Inc()
		return nil, domain.ErrListingNotFound
	}
	if !listing.Active {
		uc.Metrics.SessionInitFailedTotal.WithLabelValues("listing_inactive").Inc()
		return nil, domain.ErrListingInactive
	}

	payoutAccountID, capable, err := uc.Sellers.PayoutAccountID(ctx, listing.SellerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check seller payout capability: %w", err)
	}
	if !capable {
		uc.Metrics.SessionInitFailedTotal.WithLabelValues("seller_not_onboarded").Inc()
		return nil, domain.ErrSellerNotOnboarded
	}

	total := listing.Price * domain.Money(input.Quantity)
	platformFee, _, err := domain.SplitCommission(total, uc.CommissionRateBps)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &domain.Order{
		ID:                 uuid.NewString(),
		BuyerID:            input.BuyerID,
		TotalAmount:        total,
		PlatformCommission: platformFee,
		Status:             domain.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
		Items: []domain.OrderItem{
			{
				ID:        uuid.NewString(),
				ListingID: listing.ID,
				Quantity:  input.Quantity,
				UnitPrice: listing.Price,
			},
		},
	}

	if err := uc.OrderRepo.CreateOrderWithItems(ctx, order); err != nil {
		return nil, err
	}

	idGenerator, err := nanoid.Standard(21)
	if err != nil {
		return nil, err
	}

	session, err := uc.Processor.CreateSession(ctx, domain.CreateSessionInput{
		OrderID:         order.ID,
		IdempotencyKey:  idGenerator(),
		Amount:          total,
		PlatformFee:     platformFee,
		PayoutAccountID: payoutAccountID,
	})
	if err != nil {
		// Local order persists unreferenced for the cleanup sweep. Do not
		// guess the session's fate from a timeout.
		slog.Error("checkout session creation failed, order left for sweep",
			"order_id", order.ID, "error", err.Error())
		uc.Metrics.SessionInitFailedTotal.WithLabelValues("processor").Inc()
		return &SessionOutput{OrderID: order.ID}, fmt.Errorf("failed to create checkout session: %w", err)
	}

	if err := uc.OrderRepo.SetExternalPaymentRef(ctx, order.ID, session.PaymentRef); err != nil {
		return &SessionOutput{OrderID: order.ID}, fmt.Errorf("failed to bind payment ref: %w", err)
	}

	uc.Metrics.SessionsInitiatedTotal.Inc()
	slog.Info("checkout session initiated",
		"order_id", order.ID, "session", session.Handle, "amount", int64(total), "fee", int64(platformFee))

	go func(event publisher.SettlementEvent) {
		if err := uc.Publisher.PublishSettlement(event); err != nil {
			slog.Error("failed to publish SettlementEvent", "stage", "initiate", "error", err.Error())
		}
	}(publisher.SettlementEvent{
		OrderID:     order.ID,
		BuyerID:     order.BuyerID,
		Status:      string(domain.StatusPending),
		Amount:      int64(total),
		PlatformFee: int64(platformFee),
	})

	return &SessionOutput{
		OrderID:       order.ID,
		SessionHandle: session.Handle,
		CheckoutURL:   session.CheckoutURL,
	}, nil
}
