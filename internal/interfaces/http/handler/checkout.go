package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/secureshop/backend/internal/application/checkout"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/interfaces/http/middleware"
)

const (
	// header names shared with the CORS defaults
	IdempotencyKeyHeader   = middleware.IdempotencyKeyHeader
	IdempotentReplayHeader = middleware.IdempotentReplayHeader

	maxIdempotencyKeyLength = 128
)

// CheckoutHandler prices carts and places orders
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// Quote godoc
// @ID           quoteCheckout
// @Summary      Price a checkout
// @Description  Prices the given items, or the caller's cart when items is omitted. Guests must send items.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        request body checkout.QuoteRequest true "Items, coupon and shipping method"
// @Success      200 {object} APIResponse[checkout.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /checkout/quote [post]
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req checkout.QuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	quote, err := h.checkoutService.Quote(c.Request.Context(), optionalUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// PlaceOrder godoc
// @ID           placeOrder
// @Summary      Place an order
// @Description  Reserves stock, prices the order and clears the purchased cart lines in one transaction.
// @Description  Requests repeated with the same Idempotency-Key within 24h return the original order.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string                          false "Client generated retry key"
// @Param        request         body   checkout.PlaceOrderRequest true  "Order"
// @Success      201 {object} APIResponse[order.OrderResponse]
// @Success      200 {object} APIResponse[order.OrderResponse] "Replayed"
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders [post]
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	key := c.GetHeader(IdempotencyKeyHeader)
	if len(key) > maxIdempotencyKeyLength {
		h.HandleError(c, shared.ErrInvalidInput.WithMessage("Idempotency-Key is too long"))
		return
	}
	var req checkout.PlaceOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.checkoutService.PlaceOrder(c.Request.Context(), userID, key, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Replayed {
		c.Header(IdempotentReplayHeader, "true")
		h.Success(c, result.Order)
		return
	}
	h.Created(c, result.Order)
}
