package httpapi

import (
	"errors"
	"net/http"

	"github.com/craftlane/settlement-service/internal/domain"
	"github.com/craftlane/settlement-service/internal/usecase/settlement"
	"github.com/gin-gonic/gin"
)

const signatureHeader = "Settlement-Signature"

type WebhookHandler struct {
	usecase settlement.SettlementUsecase
}

func NewWebhookHandler(uc settlement.SettlementUsecase) *WebhookHandler {
	return &WebhookHandler{usecase: uc}
}

// HandleEvent handles POST /payments/events. A 2xx acknowledges the event and
// stops redelivery; anything else makes the processor redeliver per its own
// backoff, so transient failures must map to non-2xx.
func (h *WebhookHandler) HandleEvent(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	result, err := h.usecase.Ingest(c.Request.Context(), rawBody, c.GetHeader(signatureHeader))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
			return
		}
		// Retryable: storage or lock trouble. Ask for redelivery.
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
		return
	}

	if result.Ignored {
		c.JSON(http.StatusOK, gin.H{"received": true, "ignored": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received": true,
		"event_id": result.EventID,
		"outcome":  string(result.Outcome),
	})
}
