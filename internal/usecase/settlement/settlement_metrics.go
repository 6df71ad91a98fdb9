package settlement

import "github.com/craftlane/settlement-service/internal/domain"

func (uc *DefaultSettlementUsecase) recordOrderSettled(order *domain.Order, status domain.OrderStatus) {
	uc.Metrics.OrdersSettledTotal.WithLabelValues(string(status)).Inc()
	uc.Metrics.OrdersSettledAmountTotal.WithLabelValues(string(status)).Add(float64(order.TotalAmount))
}
