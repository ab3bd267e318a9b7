package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/secureshop/backend/internal/application/catalog"
	"github.com/secureshop/backend/internal/interfaces/http/middleware"
)

// ReviewHandler handles product reviews and their moderation
type ReviewHandler struct {
	BaseHandler
	reviewService *catalog.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *catalog.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// ListForProduct godoc
// @ID           listProductReviews
// @Summary      List approved reviews of a product
// @Tags         reviews
// @Produce      json
// @Param        id        path  string true  "Product ID" format(uuid)
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalog.ReviewResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id}/reviews [get]
func (h *ReviewHandler) ListForProduct(c *gin.Context) {
	productID, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	page, size, ok := h.pageParams(c)
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListForProduct(c.Request.Context(), productID, page, size)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPage(c, reviews)
}

// Create godoc
// @ID           createProductReview
// @Summary      Review a product
// @Description  One review per user and product. Reviews stay pending until moderated.
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "Product ID" format(uuid)
// @Param        request body catalog.CreateReviewRequest true "Review"
// @Success      201 {object} APIResponse[catalog.ReviewResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	productID, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req catalog.CreateReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.ProductID = productID

	review, err := h.reviewService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, review)
}

// Delete godoc
// @ID           deleteReview
// @Summary      Delete a review
// @Description  Authors may delete their own review, admins any review
// @Tags         reviews
// @Param        id path string true "Review ID" format(uuid)
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(c.Request.Context(), userID, middleware.IsAdmin(c), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// List godoc
// @ID           listReviewsAdmin
// @Summary      List reviews for moderation
// @Tags         admin-reviews
// @Produce      json
// @Param        status    query string false "pending, approved or rejected"
// @Param        productId query string false "Product ID" format(uuid)
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalog.ReviewResponse]
// @Security     BearerAuth
// @Router       /admin/reviews [get]
func (h *ReviewHandler) List(c *gin.Context) {
	var filter catalog.ReviewListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	reviews, err := h.reviewService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPage(c, reviews)
}

// Approve godoc
// @ID           approveReview
// @Summary      Approve a review
// @Description  Approved reviews count towards the product rating
// @Tags         admin-reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.ReviewResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/reviews/{id}/approve [patch]
func (h *ReviewHandler) Approve(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.Approve(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, review)
}

// Reject godoc
// @ID           rejectReview
// @Summary      Reject a review
// @Tags         admin-reviews
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.ReviewResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/reviews/{id}/reject [patch]
func (h *ReviewHandler) Reject(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	review, err := h.reviewService.Reject(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, review)
}
