package support

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/support"
)

// CreateTicketRequest opens a support ticket
type CreateTicketRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Subject string `json:"subject" binding:"max=255"`
	Content string `json:"content" binding:"required,max=5000"`
}

// ReplyTicketRequest is an admin answer
type ReplyTicketRequest struct {
	Reply string `json:"reply" binding:"required,max=5000"`
}

// TicketStatusRequest moves a ticket
type TicketStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
}

// TicketListFilter pages through tickets
type TicketListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// TicketResponse represents a ticket in API responses
type TicketResponse struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"userId"`
	Title      string     `json:"title"`
	Subject    string     `json:"subject"`
	Content    string     `json:"content"`
	Status     string     `json:"status"`
	AdminReply string     `json:"adminReply,omitempty"`
	RepliedAt  *time.Time `json:"repliedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// ToTicketResponse converts a domain ticket
func ToTicketResponse(t *support.Ticket) TicketResponse {
	return TicketResponse{
		ID:         t.ID,
		UserID:     t.UserID,
		Title:      t.Title,
		Subject:    t.Subject,
		Content:    t.Content,
		Status:     string(t.Status),
		AdminReply: t.AdminReply,
		RepliedAt:  t.RepliedAt,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

// WarrantyRequestBody submits a warranty claim for a delivered item
type WarrantyRequestBody struct {
	OrderID     uuid.UUID `json:"orderId" binding:"required"`
	ProductID   uuid.UUID `json:"productId" binding:"required"`
	IssueType   string    `json:"issueType" binding:"required,oneof=DEFECT DAMAGED MISSING_PART OTHER"`
	Description string    `json:"description" binding:"required,max=2000"`
}

// WarrantyDecisionRequest carries an optional admin note
type WarrantyDecisionRequest struct {
	Note string `json:"note" binding:"max=1000"`
}

// WarrantyListFilter pages through warranty requests
type WarrantyListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=SUBMITTED APPROVED REJECTED RESOLVED"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// WarrantyResponse represents a warranty request in API responses
type WarrantyResponse struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"userId"`
	OrderID     uuid.UUID  `json:"orderId"`
	ProductID   uuid.UUID  `json:"productId"`
	IssueType   string     `json:"issueType"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	AdminNote   string     `json:"adminNote,omitempty"`
	RequestedAt time.Time  `json:"requestedAt"`
	ResolvedAt  *time.Time `json:"resolvedAt,omitempty"`
}

// ToWarrantyResponse converts a domain warranty request
func ToWarrantyResponse(w *support.WarrantyRequest) WarrantyResponse {
	return WarrantyResponse{
		ID:          w.ID,
		UserID:      w.UserID,
		OrderID:     w.OrderID,
		ProductID:   w.ProductID,
		IssueType:   string(w.IssueType),
		Description: w.Description,
		Status:      string(w.Status),
		AdminNote:   w.AdminNote,
		RequestedAt: w.RequestedAt,
		ResolvedAt:  w.ResolvedAt,
	}
}

func pageDefaults(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}
