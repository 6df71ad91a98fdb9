package httpapi

import (
	"github.com/craftlane/settlement-service/internal/usecase/settlement"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the HTTP surface: the buyer-facing session endpoints, the
// processor webhook and the prometheus scrape endpoint.
func NewRouter(uc settlement.SettlementUsecase) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	ordersHandler := NewOrdersHandler(uc)
	webhookHandler := NewWebhookHandler(uc)

	r.POST("/orders/sessions", ordersHandler.CreateSession)
	r.GET("/orders/sessions/:handle/status", ordersHandler.SessionStatus)

	r.POST("/orders/:id/ship", ordersHandler.Ship)
	r.POST("/orders/:id/deliver", ordersHandler.Deliver)
	r.POST("/orders/:id/refund", ordersHandler.Refund)
	r.POST("/orders/:id/cancel", ordersHandler.Cancel)

	r.POST("/payments/events", webhookHandler.HandleEvent)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
