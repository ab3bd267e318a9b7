package support

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
)

// TicketStatus is the lifecycle state of a support ticket
type TicketStatus string

const (
	TicketOpen       TicketStatus = "OPEN"
	TicketInProgress TicketStatus = "IN_PROGRESS"
	TicketResolved   TicketStatus = "RESOLVED"
	TicketClosed     TicketStatus = "CLOSED"
)

// IsValid reports whether s is a known status
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return true
	}
	return false
}

// Ticket is a customer's support request
type Ticket struct {
	shared.BaseAggregateRoot
	UserID     uuid.UUID
	Title      string
	Subject    string
	Content    string
	Status     TicketStatus
	AdminReply string
	RepliedAt  *time.Time
	RepliedBy  *uuid.UUID
}

// NewTicket opens a ticket
func NewTicket(userID uuid.UUID, title, subject, content string) (*Ticket, error) {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || len([]rune(title)) > 255 {
		return nil, shared.NewDomainError("INVALID_TITLE", "Title must be 1-255 characters")
	}
	if content == "" || len([]rune(content)) > 5000 {
		return nil, shared.NewDomainError("INVALID_CONTENT", "Content must be 1-5000 characters")
	}
	return &Ticket{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		Title:             title,
		Subject:           strings.TrimSpace(subject),
		Content:           content,
		Status:            TicketOpen,
	}, nil
}

// Reply stores the admin answer and moves the ticket to IN_PROGRESS
func (t *Ticket) Reply(adminID uuid.UUID, reply string) error {
	if t.Status == TicketClosed {
		return shared.ErrInvalidState.WithMessage("Closed tickets cannot be answered")
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return shared.NewDomainError("INVALID_REPLY", "Reply cannot be empty")
	}
	now := time.Now()
	t.AdminReply = reply
	t.RepliedAt = &now
	t.RepliedBy = &adminID
	t.Status = TicketInProgress
	t.MarkModified()
	return nil
}

// SetStatus moves the ticket. CLOSED is terminal.
func (t *Ticket) SetStatus(status TicketStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown ticket status")
	}
	if t.Status == TicketClosed {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("Ticket is closed and cannot move to %s", status))
	}
	t.Status = status
	t.MarkModified()
	return nil
}
