package support

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
)

// WarrantyStatus is the lifecycle state of a warranty request
type WarrantyStatus string

const (
	WarrantySubmitted WarrantyStatus = "SUBMITTED"
	WarrantyApproved  WarrantyStatus = "APPROVED"
	WarrantyRejected  WarrantyStatus = "REJECTED"
	WarrantyResolved  WarrantyStatus = "RESOLVED"
)

// IssueType classifies what went wrong with the product
type IssueType string

const (
	IssueDefect  IssueType = "DEFECT"
	IssueDamaged IssueType = "DAMAGED"
	IssueMissing IssueType = "MISSING_PART"
	IssueOther   IssueType = "OTHER"
)

// IsValid reports whether t is a known issue type
func (t IssueType) IsValid() bool {
	switch t {
	case IssueDefect, IssueDamaged, IssueMissing, IssueOther:
		return true
	}
	return false
}

// WarrantyRequest asks for repair or replacement of a delivered item
type WarrantyRequest struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	IssueType   IssueType
	Description string
	Status      WarrantyStatus
	AdminNote   string
	RequestedAt time.Time
	ResolvedAt  *time.Time
}

// NewWarrantyRequest submits a request. Ownership of a delivered order is
// checked by the caller.
func NewWarrantyRequest(userID, orderID, productID uuid.UUID, issue IssueType, description string) (*WarrantyRequest, error) {
	if !issue.IsValid() {
		return nil, shared.NewDomainError("INVALID_ISSUE_TYPE", "Unknown issue type")
	}
	description = strings.TrimSpace(description)
	if description == "" || len([]rune(description)) > 2000 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description must be 1-2000 characters")
	}
	w := &WarrantyRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		OrderID:           orderID,
		ProductID:         productID,
		IssueType:         issue,
		Description:       description,
		Status:            WarrantySubmitted,
	}
	w.RequestedAt = w.CreatedAt
	return w, nil
}

func (w *WarrantyRequest) move(from, to WarrantyStatus, note string) error {
	if w.Status != from {
		return shared.ErrInvalidState.WithMessage(fmt.Sprintf("Warranty request must be %s to become %s", from, to))
	}
	w.Status = to
	if note != "" {
		w.AdminNote = note
	}
	w.MarkModified()
	return nil
}

// Approve accepts a submitted request
func (w *WarrantyRequest) Approve(note string) error {
	return w.move(WarrantySubmitted, WarrantyApproved, note)
}

// Reject declines a submitted request
func (w *WarrantyRequest) Reject(note string) error {
	return w.move(WarrantySubmitted, WarrantyRejected, note)
}

// Resolve closes an approved request
func (w *WarrantyRequest) Resolve(note string) error {
	if err := w.move(WarrantyApproved, WarrantyResolved, note); err != nil {
		return err
	}
	now := time.Now()
	w.ResolvedAt = &now
	return nil
}
