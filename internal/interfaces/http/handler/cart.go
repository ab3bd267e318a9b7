package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/secureshop/backend/internal/application/cart"
)

// CartHandler serves the authenticated user's cart
type CartHandler struct {
	BaseHandler
	cartService *cart.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cart.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// Get godoc
// @ID           getCart
// @Summary      Get the cart
// @Description  Lines with product summary, unit price and line total, plus subtotal and count
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[cart.CartResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	resp, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Count godoc
// @ID           countCart
// @Summary      Count units in the cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[cart.CountResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/count [get]
func (h *CartHandler) Count(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	count, err := h.cartService.Count(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cart.CountResponse{Count: count})
}

// Add godoc
// @ID           addCartItem
// @Summary      Add a product to the cart
// @Description  Increments the quantity when the product is already in the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cart.AddItemRequest true "Item"
// @Success      200 {object} APIResponse[cart.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/add [post]
func (h *CartHandler) Add(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	var req cart.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.cartService.Add(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Update godoc
// @ID           updateCartItem
// @Summary      Set a line quantity
// @Description  A quantity of zero or less removes the line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cart.UpdateItemRequest true "Item"
// @Success      200 {object} APIResponse[cart.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/update [put]
func (h *CartHandler) Update(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	var req cart.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.cartService.Update(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Remove godoc
// @ID           removeCartItem
// @Summary      Remove a line
// @Tags         cart
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[cart.CartResponse]
// @Security     BearerAuth
// @Router       /cart/remove/{productId} [delete]
func (h *CartHandler) Remove(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	productID, ok := h.paramUUID(c, "productId")
	if !ok {
		return
	}

	resp, err := h.cartService.Remove(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// Clear godoc
// @ID           clearCart
// @Summary      Empty the cart
// @Tags         cart
// @Produce      json
// @Success      200 {object} APIResponse[MessageData]
// @Security     BearerAuth
// @Router       /cart/clear [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	if err := h.cartService.Clear(c.Request.Context(), userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Cart cleared"})
}

// Merge godoc
// @ID           mergeCart
// @Summary      Merge the guest cart
// @Description  Sums quantities per product, caps them at available stock and reports skipped products
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body cart.MergeRequest true "Guest items"
// @Success      200 {object} APIResponse[cart.MergeResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /cart/merge [post]
func (h *CartHandler) Merge(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	var req cart.MergeRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.cartService.Merge(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
