package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReviewStatus is the moderation state of a review
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "PENDING"
	ReviewStatusApproved ReviewStatus = "APPROVED"
	ReviewStatusRejected ReviewStatus = "REJECTED"
)

// IsValid reports whether s is a known status
func (s ReviewStatus) IsValid() bool {
	switch s {
	case ReviewStatusPending, ReviewStatusApproved, ReviewStatusRejected:
		return true
	}
	return false
}

var (
	ErrReviewExists      = shared.NewDomainError("REVIEW_EXISTS", "You have already reviewed this product")
	ErrReviewNotEligible = shared.NewDomainError("REVIEW_NOT_ELIGIBLE", "Only delivered purchases can be reviewed")
)

// Review is a customer's rating of a product. It becomes visible once approved.
type Review struct {
	shared.BaseAggregateRoot
	ProductID   uuid.UUID
	UserID      uuid.UUID
	OrderItemID *uuid.UUID
	Rating      int
	Comment     string
	Status      ReviewStatus
}

// NewReview creates a pending review
func NewReview(productID, userID uuid.UUID, orderItemID *uuid.UUID, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	comment = strings.TrimSpace(comment)
	if len([]rune(comment)) > 2000 {
		return nil, shared.NewDomainError("INVALID_COMMENT", "Comment cannot exceed 2000 characters")
	}
	return &Review{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		UserID:            userID,
		OrderItemID:       orderItemID,
		Rating:            rating,
		Comment:           comment,
		Status:            ReviewStatusPending,
	}, nil
}

// Approve publishes the review
func (r *Review) Approve() error {
	return r.moderate(ReviewStatusApproved)
}

// Reject hides the review
func (r *Review) Reject() error {
	return r.moderate(ReviewStatusRejected)
}

func (r *Review) moderate(status ReviewStatus) error {
	if r.Status == status {
		return shared.ErrInvalidState.WithMessage("Review is already " + strings.ToLower(string(status)))
	}
	r.Status = status
	r.MarkModified()
	return nil
}

// RatingSummary is the aggregate of approved reviews for a product
type RatingSummary struct {
	Average decimal.Decimal
	Count   int
}

// SummarizeRatings averages the ratings of approved reviews
func SummarizeRatings(reviews []*Review) RatingSummary {
	sum, count := 0, 0
	for _, r := range reviews {
		if r.Status != ReviewStatusApproved {
			continue
		}
		sum += r.Rating
		count++
	}
	if count == 0 {
		return RatingSummary{Average: decimal.Zero}
	}
	avg := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(count))).Round(1)
	return RatingSummary{Average: avg, Count: count}
}
