package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/application/support"
	"github.com/secureshop/backend/internal/interfaces/http/middleware"
)

// TicketHandler handles customer support tickets
type TicketHandler struct {
	BaseHandler
	ticketService *support.TicketService
}

// NewTicketHandler creates a new TicketHandler
func NewTicketHandler(ticketService *support.TicketService) *TicketHandler {
	return &TicketHandler{ticketService: ticketService}
}

// Create godoc
// @ID           createTicket
// @Summary      Open a support ticket
// @Tags         support
// @Accept       json
// @Produce      json
// @Param        request body support.CreateTicketRequest true "Ticket"
// @Success      201 {object} APIResponse[support.TicketResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /support/tickets [post]
func (h *TicketHandler) Create(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	var req support.CreateTicketRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ticket, err := h.ticketService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, ticket)
}

// Mine godoc
// @ID           listMyTickets
// @Summary      List my tickets
// @Tags         support
// @Produce      json
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]support.TicketResponse]
// @Security     BearerAuth
// @Router       /support/tickets/mine [get]
func (h *TicketHandler) Mine(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	page, size, ok := h.pageParams(c)
	if !ok {
		return
	}

	tickets, err := h.ticketService.Mine(c.Request.Context(), userID, page, size)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPage(c, tickets)
}

// Get godoc
// @ID           getTicket
// @Summary      Get a ticket
// @Description  Visible to its author and to admins
// @Tags         support
// @Produce      json
// @Param        id path string true "Ticket ID" format(uuid)
// @Success      200 {object} APIResponse[support.TicketResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /support/tickets/{id} [get]
func (h *TicketHandler) Get(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}

	ticket, err := h.ticketService.Get(c.Request.Context(), userID, middleware.IsAdmin(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ticket)
}

// List godoc
// @ID           listTicketsAdmin
// @Summary      List all tickets
// @Tags         admin-support
// @Produce      json
// @Param        status    query string false "OPEN, IN_PROGRESS, RESOLVED or CLOSED"
// @Param        search    query string false "Title search"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]support.TicketResponse]
// @Security     BearerAuth
// @Router       /admin/tickets [get]
func (h *TicketHandler) List(c *gin.Context) {
	var filter support.TicketListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	tickets, err := h.ticketService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPage(c, tickets)
}

// Reply godoc
// @ID           replyTicket
// @Summary      Reply to a ticket
// @Description  Moves an open ticket to IN_PROGRESS
// @Tags         admin-support
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "Ticket ID" format(uuid)
// @Param        request body support.ReplyTicketRequest true "Reply"
// @Success      200 {object} APIResponse[support.TicketResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/tickets/{id}/reply [post]
func (h *TicketHandler) Reply(c *gin.Context) {
	adminID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req support.ReplyTicketRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ticket, err := h.ticketService.Reply(c.Request.Context(), adminID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ticket)
}

// SetStatus godoc
// @ID           setTicketStatus
// @Summary      Change a ticket status
// @Description  CLOSED tickets cannot change again
// @Tags         admin-support
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "Ticket ID" format(uuid)
// @Param        request body support.TicketStatusRequest true "Status"
// @Success      200 {object} APIResponse[support.TicketResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/tickets/{id}/status [patch]
func (h *TicketHandler) SetStatus(c *gin.Context) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req support.TicketStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ticket, err := h.ticketService.SetStatus(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ticket)
}

// WarrantyHandler handles warranty requests
type WarrantyHandler struct {
	BaseHandler
	warrantyService *support.WarrantyService
}

// NewWarrantyHandler creates a new WarrantyHandler
func NewWarrantyHandler(warrantyService *support.WarrantyService) *WarrantyHandler {
	return &WarrantyHandler{warrantyService: warrantyService}
}

// Submit godoc
// @ID           submitWarranty
// @Summary      Submit a warranty request
// @Description  The item must belong to one of the caller's delivered orders
// @Tags         warranty
// @Accept       json
// @Produce      json
// @Param        request body support.WarrantyRequestBody true "Warranty request"
// @Success      201 {object} APIResponse[support.WarrantyResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /warranty [post]
func (h *WarrantyHandler) Submit(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	var req support.WarrantyRequestBody
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.warrantyService.Submit(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Mine godoc
// @ID           listMyWarranty
// @Summary      List my warranty requests
// @Tags         warranty
// @Produce      json
// @Param        page      query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]support.WarrantyResponse]
// @Security     BearerAuth
// @Router       /warranty/mine [get]
func (h *WarrantyHandler) Mine(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}
	page, size, ok := h.pageParams(c)
	if !ok {
		return
	}

	requests, err := h.warrantyService.Mine(c.Request.Context(), userID, page, size)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPage(c, requests)
}

// List godoc
// @ID           listWarrantyAdmin
// @Summary      List warranty requests
// @Tags         admin-warranty
// @Produce      json
// @Param        status    query string false "SUBMITTED, APPROVED, REJECTED or RESOLVED"
// @Param        page      query int    false "Page number" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]support.WarrantyResponse]
// @Security     BearerAuth
// @Router       /admin/warranty [get]
func (h *WarrantyHandler) List(c *gin.Context) {
	var filter support.WarrantyListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	requests, err := h.warrantyService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	respondPage(c, requests)
}

// Approve godoc
// @ID           approveWarranty
// @Summary      Approve a warranty request
// @Tags         admin-warranty
// @Accept       json
// @Produce      json
// @Param        id      path string                          true  "Warranty request ID" format(uuid)
// @Param        request body support.WarrantyDecisionRequest false "Note"
// @Success      200 {object} APIResponse[support.WarrantyResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/warranty/{id}/approve [patch]
func (h *WarrantyHandler) Approve(c *gin.Context) {
	h.decide(c, h.warrantyService.Approve)
}

// Reject godoc
// @ID           rejectWarranty
// @Summary      Reject a warranty request
// @Tags         admin-warranty
// @Accept       json
// @Produce      json
// @Param        id      path string                          true  "Warranty request ID" format(uuid)
// @Param        request body support.WarrantyDecisionRequest false "Note"
// @Success      200 {object} APIResponse[support.WarrantyResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/warranty/{id}/reject [patch]
func (h *WarrantyHandler) Reject(c *gin.Context) {
	h.decide(c, h.warrantyService.Reject)
}

// Resolve godoc
// @ID           resolveWarranty
// @Summary      Resolve an approved warranty request
// @Tags         admin-warranty
// @Accept       json
// @Produce      json
// @Param        id      path string                          true  "Warranty request ID" format(uuid)
// @Param        request body support.WarrantyDecisionRequest false "Note"
// @Success      200 {object} APIResponse[support.WarrantyResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/warranty/{id}/resolve [patch]
func (h *WarrantyHandler) Resolve(c *gin.Context) {
	h.decide(c, h.warrantyService.Resolve)
}

func (h *WarrantyHandler) decide(c *gin.Context, fn func(context.Context, uuid.UUID, support.WarrantyDecisionRequest) (*support.WarrantyResponse, error)) {
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req support.WarrantyDecisionRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	resp, err := fn(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
