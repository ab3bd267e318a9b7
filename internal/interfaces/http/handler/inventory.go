package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/secureshop/backend/internal/application/inventory"
)

// InventoryHandler handles admin stock endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventory.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventory.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// List godoc
// @ID           listInventory
// @Summary      List stock levels
// @Description  Paginated stock per product, optionally only rows at or below their threshold
// @Tags         inventory
// @Produce      json
// @Param        search    query string  false "Product name or SKU"
// @Param        lowStock  query boolean false "Only low stock rows"
// @Param        page      query int     false "Page number" default(1)
// @Param        page_size query int     false "Page size" default(20)
// @Success      200 {object} APIResponse[[]inventory.InventoryResponse]
// @Security     BearerAuth
// @Router       /admin/inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	var filter inventory.InventoryListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	rows, err := h.inventoryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPage(c, rows)
}

// Get godoc
// @ID           getInventory
// @Summary      Get stock of a product
// @Tags         inventory
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[inventory.InventoryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/inventory/{productId} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	productID, ok := h.paramUUID(c, "productId")
	if !ok {
		return
	}

	row, err := h.inventoryService.GetByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, row)
}

// Adjust godoc
// @ID           adjustInventory
// @Summary      Adjust on-hand stock
// @Description  Applies a signed delta. On-hand stock may not drop below the reserved quantity.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        productId path string                        true "Product ID" format(uuid)
// @Param        request   body inventory.AdjustStockRequest true "Adjustment"
// @Success      200 {object} APIResponse[inventory.InventoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/inventory/{productId}/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	productID, ok := h.paramUUID(c, "productId")
	if !ok {
		return
	}
	var req inventory.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}

	row, err := h.inventoryService.Adjust(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, row)
}

// SetThreshold godoc
// @ID           setInventoryThreshold
// @Summary      Set the low stock threshold
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        productId path string                         true "Product ID" format(uuid)
// @Param        request   body inventory.SetThresholdRequest true "Threshold"
// @Success      200 {object} APIResponse[inventory.InventoryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/inventory/{productId}/threshold [put]
func (h *InventoryHandler) SetThreshold(c *gin.Context) {
	productID, ok := h.paramUUID(c, "productId")
	if !ok {
		return
	}
	var req inventory.SetThresholdRequest
	if !h.bindJSON(c, &req) {
		return
	}

	row, err := h.inventoryService.SetThreshold(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, row)
}

// Movements godoc
// @ID           listInventoryMovements
// @Summary      List stock movements
// @Description  Reservations, releases, consumptions and manual adjustments, newest first
// @Tags         inventory
// @Produce      json
// @Param        productId path  string true  "Product ID" format(uuid)
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]inventory.MovementResponse]
// @Security     BearerAuth
// @Router       /admin/inventory/{productId}/movements [get]
func (h *InventoryHandler) Movements(c *gin.Context) {
	productID, ok := h.paramUUID(c, "productId")
	if !ok {
		return
	}
	page, size, ok := h.pageParams(c)
	if !ok {
		return
	}

	movements, err := h.inventoryService.Movements(c.Request.Context(), productID, page, size)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPage(c, movements)
}
