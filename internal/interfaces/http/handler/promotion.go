package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/application/promotion"
	"github.com/shopspring/decimal"
)

// PromotionHandler handles discount codes
type PromotionHandler struct {
	BaseHandler
	discountService *promotion.DiscountService
}

// NewPromotionHandler creates a new PromotionHandler
func NewPromotionHandler(discountService *promotion.DiscountService) *PromotionHandler {
	return &PromotionHandler{discountService: discountService}
}

// Validate godoc
// @ID           validatePromotion
// @Summary      Preview a discount code
// @Description  Checks the code against a subtotal. Signed-in callers are also checked against the per user limit.
// @Tags         promotions
// @Produce      json
// @Param        code     query string true  "Discount code"
// @Param        subtotal query number false "Order subtotal"
// @Success      200 {object} APIResponse[promotion.ValidateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /promotions/validate [get]
func (h *PromotionHandler) Validate(c *gin.Context) {
	var q promotion.ValidateQuery
	if !h.bindQuery(c, &q) {
		return
	}
	if raw := c.Query("subtotal"); raw != "" {
		subtotal, err := decimal.NewFromString(raw)
		if err != nil || subtotal.IsNegative() {
			h.BadRequest(c, "Invalid subtotal")
			return
		}
		q.Subtotal = subtotal
	}

	resp, err := h.discountService.Validate(c.Request.Context(), optionalUserID(c), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List godoc
// @ID           listDiscounts
// @Summary      List discounts
// @Tags         admin-discounts
// @Produce      json
// @Param        search    query string  false "Code or description"
// @Param        active    query boolean false "Active flag"
// @Param        page      query int     false "Page number" default(1)
// @Param        page_size query int     false "Page size" default(20)
// @Success      200 {object} APIResponse[[]promotion.DiscountResponse]
// @Security     BearerAuth
// @Router       /admin/discounts [get]
func (h *PromotionHandler) List(c *gin.Context) {
	var filter promotion.DiscountListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	discounts, err := h.discountService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPage(c, discounts)
}

// Get godoc
// @ID           getDiscount
// @Summary      Get a discount
// @Tags         admin-discounts
// @Produce      json
// @Param        id path string true "Discount ID" format(uuid)
// @Success      200 {object} APIResponse[promotion.DiscountResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/discounts/{id} [get]
func (h *PromotionHandler) Get(c *gin.Context) {
	h.withID(c, h.discountService.GetByID)
}

// Create godoc
// @ID           createDiscount
// @Summary      Create a discount
// @Description  Codes are stored upper-cased and must be unique
// @Tags         admin-discounts
// @Accept       json
// @Produce      json
// @Param        request body promotion.DiscountRequest true "Discount"
// @Success      201 {object} APIResponse[promotion.DiscountResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/discounts [post]
func (h *PromotionHandler) Create(c *gin.Context) {
	var req promotion.DiscountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	discount, err := h.discountService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, discount)
}

// Update godoc
// @ID           updateDiscount
// @Summary      Update a discount
// @Tags         admin-discounts
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Discount ID" format(uuid)
// @Param        request body promotion.DiscountRequest true "Discount"
// @Success      200 {object} APIResponse[promotion.DiscountResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/discounts/{id} [put]
func (h *PromotionHandler) Update(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req promotion.DiscountRequest
	if !h.bindJSON(c, &req) {
		return
	}

	discount, err := h.discountService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, discount)
}

// Activate godoc
// @ID           activateDiscount
// @Summary      Activate a discount
// @Tags         admin-discounts
// @Produce      json
// @Param        id path string true "Discount ID" format(uuid)
// @Success      200 {object} APIResponse[promotion.DiscountResponse]
// @Security     BearerAuth
// @Router       /admin/discounts/{id}/activate [patch]
func (h *PromotionHandler) Activate(c *gin.Context) {
	h.withID(c, h.discountService.Activate)
}

// Deactivate godoc
// @ID           deactivateDiscount
// @Summary      Deactivate a discount
// @Tags         admin-discounts
// @Produce      json
// @Param        id path string true "Discount ID" format(uuid)
// @Success      200 {object} APIResponse[promotion.DiscountResponse]
// @Security     BearerAuth
// @Router       /admin/discounts/{id}/deactivate [patch]
func (h *PromotionHandler) Deactivate(c *gin.Context) {
	h.withID(c, h.discountService.Deactivate)
}

func (h *PromotionHandler) withID(c *gin.Context, fn func(context.Context, uuid.UUID) (*promotion.DiscountResponse, error)) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	discount, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, discount)
}

// Delete godoc
// @ID           deleteDiscount
// @Summary      Delete a discount
// @Tags         admin-discounts
// @Param        id path string true "Discount ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/discounts/{id} [delete]
func (h *PromotionHandler) Delete(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.discountService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
