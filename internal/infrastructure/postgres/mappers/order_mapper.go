package mappers

import (
	"github.com/craftlane/settlement-service/internal/domain"
	"github.com/craftlane/settlement-service/internal/infrastructure/postgres/models"
)

func ToGORMOrder(order *domain.Order) *models.OrderModel {
	var ref *string
	if order.ExternalPaymentRef != "" {
		r := order.ExternalPaymentRef
		ref = &r
	}

	items := make([]models.OrderItemModel, len(order.Items))
	for i, item := range order.Items {
		items[i] = models.OrderItemModel{
			ID:        item.ID,
			OrderID:   order.ID,
			ListingID: item.ListingID,
			Quantity:  item.Quantity,
			UnitPrice: int64(item.UnitPrice),
		}
	}

	return &models.OrderModel{
		ID:                 order.ID,
		BuyerID:            order.BuyerID,
		TotalAmount:        int64(order.TotalAmount),
		PlatformCommission: int64(order.PlatformCommission),
		ExternalPaymentRef: ref,
		Status:             order.Status,
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
		Items:              items,
	}
}

func ToDomainOrder(model *models.OrderModel) *domain.Order {
	ref := ""
	if model.ExternalPaymentRef != nil {
		ref = *model.ExternalPaymentRef
	}

	items := make([]domain.OrderItem, len(model.Items))
	for i, item := range model.Items {
		items[i] = domain.OrderItem{
			ID:        item.ID,
			OrderID:   item.OrderID,
			ListingID: item.ListingID,
			Quantity:  item.Quantity,
			UnitPrice: domain.Money(item.UnitPrice),
		}
	}

	return &domain.Order{
		ID:                 model.ID,
		BuyerID:            model.BuyerID,
		TotalAmount:        domain.Money(model.TotalAmount),
		PlatformCommission: domain.Money(model.PlatformCommission),
		ExternalPaymentRef: ref,
		Status:             model.Status,
		CreatedAt:          model.CreatedAt,
		UpdatedAt:          model.UpdatedAt,
		Items:              items,
	}
}
