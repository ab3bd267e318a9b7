package handler

import (
	"context"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/application/order"
	"github.com/secureshop/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order queries and status transitions
type OrderHandler struct {
	BaseHandler
	orderService  *order.OrderService
	confirmations *order.ConfirmationService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *order.OrderService, confirmations *order.ConfirmationService) *OrderHandler {
	return &OrderHandler{orderService: orderService, confirmations: confirmations}
}

func (h *OrderHandler) actor(c *gin.Context) (order.Actor, bool) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return order.Actor{}, false
	}
	return order.Actor{UserID: userID, IsAdmin: middleware.IsAdmin(c)}, true
}

// MyOrders godoc
// @ID           listMyOrders
// @Summary      List my orders
// @Tags         orders
// @Produce      json
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]order.OrderResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/my-orders [get]
func (h *OrderHandler) MyOrders(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	page, size, ok := h.pageParams(c)
	if !ok {
		return
	}

	orders, err := h.orderService.MyOrders(c.Request.Context(), userID, page, size)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPage(c, orders)
}

// Get godoc
// @ID           getOrder
// @Summary      Get an order
// @Description  Visible to the owner and to admins
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	resp, err := h.orderService.Get(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Cancel godoc
// @ID           cancelOrder
// @Summary      Cancel an order
// @Description  Only PENDING orders can be cancelled. Reserved stock is released.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id      path string                   true  "Order ID" format(uuid)
// @Param        request body order.CancelOrderRequest false "Reason"
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/cancel [patch]
func (h *OrderHandler) Cancel(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req order.CancelOrderRequest
	// the body is optional
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.orderService.Cancel(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Invoice godoc
// @ID           getOrderInvoice
// @Summary      Download the invoice
// @Description  Renders the order invoice as PDF
// @Tags         orders
// @Produce      application/pdf
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/invoice [get]
func (h *OrderHandler) Invoice(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.orderService.Invoice(c.Request.Context(), actor, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": invoice.Filename}))
	c.Data(http.StatusOK, "application/pdf", invoice.PDF)
}

// List godoc
// @ID           listOrders
// @Summary      List orders (admin)
// @Tags         admin-orders
// @Produce      json
// @Param        status        query string false "Order status"
// @Param        paymentStatus query string false "UNPAID, PAID or FAILED"
// @Param        from          query string false "From date (YYYY-MM-DD)"
// @Param        to            query string false "To date (YYYY-MM-DD)"
// @Param        search        query string false "Order id, customer name, email or phone"
// @Param        page          query int    false "Page number" default(1)
// @Param        page_size     query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]order.OrderResponse]
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter order.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPage(c, orders)
}

// Confirm godoc
// @ID           confirmOrder
// @Summary      Confirm an order
// @Description  PENDING to WAITING_FOR_DELIVERY. Reserved stock is consumed.
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/confirm [patch]
func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.orderService.Confirm)
}

// ConfirmByLink godoc
// @ID           confirmOrderByLink
// @Summary      Confirm an order from its email link
// @Description  Public. Burns the mailed token and moves a PENDING order to WAITING_FOR_DELIVERY. Orders already processed are reported with alreadyProcessed=true.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body order.ConfirmOrderRequest true "Confirmation token"
// @Success      200 {object} APIResponse[order.ConfirmationResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /orders/confirm [post]
func (h *OrderHandler) ConfirmByLink(c *gin.Context) {
	var req order.ConfirmOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.confirmations.Confirm(c.Request.Context(), req.Token)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Ship godoc
// @ID           shipOrder
// @Summary      Mark an order in transit
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/ship [patch]
func (h *OrderHandler) Ship(c *gin.Context) {
	h.transition(c, h.orderService.Ship)
}

// Deliver godoc
// @ID           deliverOrder
// @Summary      Mark an order delivered
// @Description  Cash on delivery orders become PAID
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id}/deliver [patch]
func (h *OrderHandler) Deliver(c *gin.Context) {
	h.transition(c, h.orderService.Deliver)
}

func (h *OrderHandler) transition(c *gin.Context, fn func(context.Context, uuid.UUID) (*order.OrderResponse, error)) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	resp, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update godoc
// @ID           updateOrder
// @Summary      Update shipping info
// @Description  Allowed while the order is PENDING
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Order ID" format(uuid)
// @Param        request body order.UpdateOrderRequest true "Shipping info"
// @Success      200 {object} APIResponse[order.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [put]
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req order.UpdateOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.orderService.UpdateShipping(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteOrder
// @Summary      Delete an order
// @Description  Only CANCELLED orders can be deleted
// @Tags         admin-orders
// @Param        id path string true "Order ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
