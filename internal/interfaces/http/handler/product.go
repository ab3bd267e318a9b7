package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/application/catalog"
)

// ProductHandler serves the storefront catalog and admin product management
type ProductHandler struct {
	BaseHandler
	productService *catalog.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalog.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Description  Active products with search, category, brand, price and stock filters
// @Tags         products
// @Produce      json
// @Param        search     query string  false "Name or SKU"
// @Param        categoryId query string  false "Category ID" format(uuid)
// @Param        brandId    query string  false "Brand ID" format(uuid)
// @Param        minPrice   query number  false "Minimum price"
// @Param        maxPrice   query number  false "Maximum price"
// @Param        inStock    query boolean false "Only products with available stock"
// @Param        sortBy     query string  false "created_at, price, name or rating"
// @Param        sortOrder  query string  false "asc or desc"
// @Param        page       query int     false "Page number" default(1)
// @Param        page_size  query int     false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalog.ProductSummary]
// @Failure      400 {object} ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	h.list(c, false)
}

// AdminList godoc
// @ID           listProductsAdmin
// @Summary      List products (admin)
// @Description  Same filters as the storefront list, inactive products included
// @Tags         admin-products
// @Produce      json
// @Param        search    query string false "Name or SKU"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]catalog.ProductSummary]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products [get]
func (h *ProductHandler) AdminList(c *gin.Context) {
	h.list(c, true)
}

func (h *ProductHandler) list(c *gin.Context, includeInactive bool) {
	var filter catalog.ProductListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.productService.List(c.Request.Context(), filter, includeInactive)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPage(c, page)
}

// Get godoc
// @ID           getProduct
// @Summary      Get product detail
// @Description  Product with stock, media, features, specifications and approved reviews
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.ProductDetail]
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	h.get(c, false)
}

// AdminGet godoc
// @ID           getProductAdmin
// @Summary      Get product detail (admin)
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.ProductDetail]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [get]
func (h *ProductHandler) AdminGet(c *gin.Context) {
	h.get(c, true)
}

func (h *ProductHandler) get(c *gin.Context, includeInactive bool) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id, includeInactive)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Description  Creates the product and its inventory record with the initial stock
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        request body catalog.ProductRequest true "Product"
// @Success      201 {object} APIResponse[catalog.ProductDetail]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalog.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Tags         admin-products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalog.ProductRequest true "Product"
// @Success      200 {object} APIResponse[catalog.ProductDetail]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req catalog.ProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Activate godoc
// @ID           activateProduct
// @Summary      Activate a product
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.ProductDetail]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id}/activate [patch]
func (h *ProductHandler) Activate(c *gin.Context) {
	h.transition(c, h.productService.Activate)
}

// Deactivate godoc
// @ID           deactivateProduct
// @Summary      Deactivate a product
// @Description  Inactive products disappear from the storefront and cannot be added to carts
// @Tags         admin-products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalog.ProductDetail]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id}/deactivate [patch]
func (h *ProductHandler) Deactivate(c *gin.Context) {
	h.transition(c, h.productService.Deactivate)
}

func (h *ProductHandler) transition(c *gin.Context, apply func(context.Context, uuid.UUID) (*catalog.ProductDetail, error)) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	product, err := apply(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Description  Soft delete; order history keeps its snapshot
// @Tags         admin-products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
