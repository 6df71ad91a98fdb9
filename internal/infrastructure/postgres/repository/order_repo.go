package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/craftlane/settlement-service/internal/domain"
	"github.com/craftlane/settlement-service/internal/infrastructure/postgres/mappers"
	"github.com/craftlane/settlement-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultOrderRepository struct {
	DB *gorm.DB
}

func NewDefaultOrderRepository(db *gorm.DB) *DefaultOrderRepository {
	return &DefaultOrderRepository{DB: db}
}

func (r *DefaultOrderRepository) CreateOrderWithItems(ctx context.Context, order *domain.Order) error {
	orderModel := mappers.ToGORMOrder(order)
	if err := r.DB.WithContext(ctx).Create(orderModel).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *DefaultOrderRepository) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, bool, error) {
	var orderModel models.OrderModel
	err := r.DB.WithContext(ctx).Preload("Items").First(&orderModel, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return mappers.ToDomainOrder(&orderModel), true, nil
}

func (r *DefaultOrderRepository) FindByExternalRef(ctx context.Context, paymentRef string) (*domain.Order, bool, error) {
	var orderModel models.OrderModel
	err := r.DB.WithContext(ctx).Preload("Items").First(&orderModel, "external_payment_ref = ?", paymentRef).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return mappers.ToDomainOrder(&orderModel), true, nil
}

// SetExternalPaymentRef writes the processor's payment-intent id onto a
// still-pending order. The ref column is write-once: a second call for the
// same order fails instead of rebinding the order to another session.
func (r *DefaultOrderRepository) SetExternalPaymentRef(ctx context.Context, orderID, paymentRef string) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orderModel models.OrderModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&orderModel, "id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if orderModel.ExternalPaymentRef != nil {
			return domain.ErrRefAlreadySet
		}
		if orderModel.Status != domain.StatusPending {
			return domain.ErrOrderNotPending
		}

		return tx.Model(&models.OrderModel{}).
			Where("id = ?", orderID).
			Update("external_payment_ref", paymentRef).Error
	})
}

// ApplyEventTransition commits the ledger row and the status change together.
// The order row is locked FOR UPDATE for the whole read-check-write, so two
// reconciliations of the same order serialize while different orders proceed
// in parallel.
func (r *DefaultOrderRepository) ApplyEventTransition(
	ctx context.Context,
	eventID, orderID string,
	from, to domain.OrderStatus,
) (domain.TransitionOutcome, error) {
	outcome := domain.TransitionApplied

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orderModel models.OrderModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&orderModel, "id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		// A concurrent delivery of the same event id loses on the ledger's
		// primary key and must not re-apply the transition.
		ledgerRow := models.ProcessedEventModel{
			EventID:    eventID,
			OrderID:    &orderID,
			ReceivedAt: time.Now(),
		}
		insert := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ledgerRow)
		if insert.Error != nil {
			return insert.Error
		}
		if insert.RowsAffected == 0 {
			outcome = domain.TransitionDuplicate
			return nil
		}

		// Out-of-order or duplicate delivery that arrived after a later event
		// already advanced the order: keep the ledger row, leave the order be.
		if orderModel.Status != from {
			outcome = domain.TransitionStale
			return nil
		}

		return tx.Model(&models.OrderModel{}).
			Where("id = ?", orderID).
			Update("status", to).Error
	})
	if err != nil {
		return "", err
	}
	return outcome, nil
}

func (r *DefaultOrderRepository) RecordUnmatchedEvent(ctx context.Context, eventID string) error {
	ledgerRow := models.ProcessedEventModel{
		EventID:    eventID,
		OrderID:    nil,
		ReceivedAt: time.Now(),
	}
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ledgerRow).Error
}

func (r *DefaultOrderRepository) HasProcessedEvent(ctx context.Context, eventID string) (bool, error) {
	var row models.ProcessedEventModel
	err := r.DB.WithContext(ctx).First(&row, "event_id = ?", eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// TransitionStatus is the compare-and-set used by fulfillment operations. The
// WHERE clause carries the expected status, so a concurrent writer makes this
// a zero-row update rather than a lost update.
func (r *DefaultOrderRepository) TransitionStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) error {
	result := r.DB.WithContext(ctx).Model(&models.OrderModel{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var orderModel models.OrderModel
		err := r.DB.WithContext(ctx).First(&orderModel, "id = ?", orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		return domain.ErrStatusConflict
	}
	return nil
}

// CancelStaleUnreferenced sweeps pending orders the session-create path left
// without an external payment ref. Such orders have no session to reconcile
// against and would stay pending forever.
func (r *DefaultOrderRepository) CancelStaleUnreferenced(ctx context.Context, cutoff time.Time) ([]string, error) {
	var cancelled []string

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orderModels []models.OrderModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ?", domain.StatusPending).
			Where("external_payment_ref IS NULL").
			Where("created_at < ?", cutoff).
			Find(&orderModels).Error; err != nil {
			return err
		}

		if len(orderModels) == 0 {
			return nil
		}

		ids := make([]string, len(orderModels))
		for i, orderModel := range orderModels {
			ids[i] = orderModel.ID
		}

		if err := tx.Model(&models.OrderModel{}).
			Where("id IN (?)", ids).
			Update("status", domain.StatusCancelled).Error; err != nil {
			return err
		}

		cancelled = ids
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}
