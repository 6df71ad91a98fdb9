package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/craftlane/settlement-service/internal/delivery/httpapi/dto"
	"github.com/craftlane/settlement-service/internal/domain"
	"github.com/craftlane/settlement-service/internal/usecase/settlement"
	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
)

type OrdersHandler struct {
	usecase   settlement.SettlementUsecase
	validator *validatorv10.Validate
}

func NewOrdersHandler(uc settlement.SettlementUsecase) *OrdersHandler {
	return &OrdersHandler{
		usecase:   uc,
		validator: validatorv10.New(),
	}
}

// CreateSession handles POST /orders/sessions.
func (h *OrdersHandler) CreateSession(c *gin.Context) {
	buyerID := c.GetHeader("X-Buyer-ID")
	if buyerID == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "buyer identity required"})
		return
	}

	var req dto.CreateSessionRequest
	if err := BindAndValidate(c, &req, h.validator); err != nil {
		return
	}

	output, err := h.usecase.InitiateSession(c.Request.Context(), &settlement.InitiateSessionInput{
		BuyerID:   buyerID,
		ListingID: req.ListingID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrListingNotFound),
			errors.Is(err, domain.ErrListingInactive),
			errors.Is(err, domain.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrSellerNotOnboarded):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		default:
			// The pending order may already exist; return its id so the
			// client can poll once the sweep or a retry resolves it.
			response := gin.H{"error": "failed to initiate checkout session"}
			if output != nil {
				response["order_id"] = output.OrderID
			}
			c.JSON(http.StatusBadGateway, response)
		}
		return
	}

	c.JSON(http.StatusCreated, dto.CreateSessionResponse{
		SessionHandle: output.SessionHandle,
		OrderID:       output.OrderID,
		CheckoutURL:   output.CheckoutURL,
	})
}

// SessionStatus handles GET /orders/sessions/:handle/status.
func (h *OrdersHandler) SessionStatus(c *gin.Context) {
	handle := c.Param("handle")

	output, err := h.usecase.ProbeSession(c.Request.Context(), handle)
	if err != nil {
		// Only a definitive processor-side miss is a 404. Anything else is a
		// transient failure the caller should retry against, not a verdict.
		if errors.Is(err, domain.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "session not found"})
			return
		}
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "failed to fetch session status"})
		return
	}

	c.JSON(http.StatusOK, dto.SessionStatusResponse{
		Status:        output.Status,
		PaymentStatus: output.PaymentStatus,
		OrderID:       output.OrderID,
		OrderStatus:   string(output.OrderStatus),
		Divergent:     output.Divergent,
	})
}

func (h *OrdersHandler) Ship(c *gin.Context) {
	h.fulfill(c, h.usecase.MarkShipped)
}

func (h *OrdersHandler) Deliver(c *gin.Context) {
	h.fulfill(c, h.usecase.MarkDelivered)
}

func (h *OrdersHandler) Refund(c *gin.Context) {
	h.fulfill(c, h.usecase.RefundOrder)
}

func (h *OrdersHandler) Cancel(c *gin.Context) {
	h.fulfill(c, h.usecase.CancelOrder)
}

func (h *OrdersHandler) fulfill(c *gin.Context, op func(ctx context.Context, orderID string) error) {
	orderID := c.Param("id")

	if err := op(c.Request.Context(), orderID); err != nil {
		switch {
		case errors.Is(err, domain.ErrOrderNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrStatusConflict):
			c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "transition failed"})
		}
		return
	}

	c.Status(http.StatusOK)
}
