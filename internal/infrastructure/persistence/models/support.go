package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/support"
)

// TicketModel is the persistence model for support.Ticket
type TicketModel struct {
	AggregateModel
	UserID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	Title      string               `gorm:"type:varchar(255);not null"`
	Subject    string               `gorm:"type:varchar(100);not null"`
	Content    string               `gorm:"type:text;not null"`
	Status     support.TicketStatus `gorm:"type:varchar(20);not null;index"`
	AdminReply string               `gorm:"type:text"`
	RepliedAt  *time.Time
	RepliedBy  *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (TicketModel) TableName() string {
	return "support_tickets"
}

// ToDomain converts the model to a domain ticket
func (m *TicketModel) ToDomain() *support.Ticket {
	return &support.Ticket{
		BaseAggregateRoot: m.ToAggregateRoot(),
		UserID:            m.UserID,
		Title:             m.Title,
		Subject:           m.Subject,
		Content:           m.Content,
		Status:            m.Status,
		AdminReply:        m.AdminReply,
		RepliedAt:         m.RepliedAt,
		RepliedBy:         m.RepliedBy,
	}
}

// TicketModelFromDomain creates a model from a domain ticket
func TicketModelFromDomain(t *support.Ticket) *TicketModel {
	m := &TicketModel{
		UserID:     t.UserID,
		Title:      t.Title,
		Subject:    t.Subject,
		Content:    t.Content,
		Status:     t.Status,
		AdminReply: t.AdminReply,
		RepliedAt:  t.RepliedAt,
		RepliedBy:  t.RepliedBy,
	}
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	return m
}

// WarrantyRequestModel is the persistence model for support.WarrantyRequest
type WarrantyRequestModel struct {
	AggregateModel
	UserID      uuid.UUID              `gorm:"type:uuid;not null;index"`
	OrderID     uuid.UUID              `gorm:"type:uuid;not null;index:idx_warranty_item,priority:1"`
	ProductID   uuid.UUID              `gorm:"type:uuid;not null;index:idx_warranty_item,priority:2"`
	IssueType   support.IssueType      `gorm:"type:varchar(30);not null"`
	Description string                 `gorm:"type:text;not null"`
	Status      support.WarrantyStatus `gorm:"type:varchar(20);not null;index"`
	AdminNote   string                 `gorm:"type:text"`
	RequestedAt time.Time              `gorm:"not null"`
	ResolvedAt  *time.Time
}

// TableName returns the table name for GORM
func (WarrantyRequestModel) TableName() string {
	return "warranty_requests"
}

// ToDomain converts the model to a domain warranty request
func (m *WarrantyRequestModel) ToDomain() *support.WarrantyRequest {
	return &support.WarrantyRequest{
		BaseAggregateRoot: m.ToAggregateRoot(),
		UserID:            m.UserID,
		OrderID:           m.OrderID,
		ProductID:         m.ProductID,
		IssueType:         m.IssueType,
		Description:       m.Description,
		Status:            m.Status,
		AdminNote:         m.AdminNote,
		RequestedAt:       m.RequestedAt,
		ResolvedAt:        m.ResolvedAt,
	}
}

// WarrantyRequestModelFromDomain creates a model from a domain warranty request
func WarrantyRequestModelFromDomain(w *support.WarrantyRequest) *WarrantyRequestModel {
	m := &WarrantyRequestModel{
		UserID:      w.UserID,
		OrderID:     w.OrderID,
		ProductID:   w.ProductID,
		IssueType:   w.IssueType,
		Description: w.Description,
		Status:      w.Status,
		AdminNote:   w.AdminNote,
		RequestedAt: w.RequestedAt,
		ResolvedAt:  w.ResolvedAt,
	}
	m.FromDomainAggregateRoot(w.BaseAggregateRoot)
	return m
}
