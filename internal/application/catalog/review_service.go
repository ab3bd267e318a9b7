package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PurchaseChecker answers whether a user received a product
type PurchaseChecker interface {
	HasDeliveredItem(ctx context.Context, userID, productID uuid.UUID) (*uuid.UUID, error)
}

// ReviewService handles product reviews and their moderation
type ReviewService struct {
	reviews   catalog.ReviewRepository
	products  catalog.ProductRepository
	purchases PurchaseChecker
	tx        shared.Transactor
	logger    *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviews catalog.ReviewRepository,
	products catalog.ProductRepository,
	purchases PurchaseChecker,
	tx shared.Transactor,
	logger *zap.Logger,
) *ReviewService {
	return &ReviewService{
		reviews:   reviews,
		products:  products,
		purchases: purchases,
		tx:        tx,
		logger:    logger.Named("reviews"),
	}
}

// Create records a pending review. The user needs a delivered order
// containing the product and may review it once.
func (s *ReviewService) Create(ctx context.Context, userID uuid.UUID, req CreateReviewRequest) (*ReviewResponse, error) {
	if _, err := s.products.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	reviewed, err := s.reviews.ExistsForUser(ctx, req.ProductID, userID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, catalog.ErrReviewExists
	}
	orderID, err := s.purchases.HasDeliveredItem(ctx, userID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if orderID == nil {
		s.logger.Warn("Review refused, no delivered purchase",
			zap.String("user_id", userID.String()),
			zap.String("product_id", req.ProductID.String()))
		return nil, catalog.ErrReviewNotEligible
	}

	review, err := catalog.NewReview(req.ProductID, userID, orderID, req.Rating, req.Comment)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	s.logger.Info("Review submitted",
		zap.String("review_id", review.ID.String()),
		zap.String("product_id", req.ProductID.String()),
		zap.Int("rating", req.Rating))
	resp := ToReviewResponse(review)
	return &resp, nil
}

// ListForProduct returns approved reviews of a product
func (s *ReviewService) ListForProduct(ctx context.Context, productID uuid.UUID, page, pageSize int) (shared.Paginated[ReviewResponse], error) {
	approved := catalog.ReviewStatusApproved
	return s.list(ctx, catalog.ReviewFilter{ProductID: &productID, Status: &approved, Page: page, PageSize: pageSize})
}

// List is the admin moderation queue
func (s *ReviewService) List(ctx context.Context, filter ReviewListFilter) (shared.Paginated[ReviewResponse], error) {
	f := catalog.ReviewFilter{
		ProductID: filter.ProductID,
		UserID:    filter.UserID,
		Rating:    filter.Rating,
		Page:      filter.Page,
		PageSize:  filter.PageSize,
	}
	if filter.Status != "" {
		status := catalog.ReviewStatus(filter.Status)
		f.Status = &status
	}
	return s.list(ctx, f)
}

func (s *ReviewService) list(ctx context.Context, f catalog.ReviewFilter) (shared.Paginated[ReviewResponse], error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	reviews, total, err := s.reviews.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[ReviewResponse]{}, err
	}
	items := make([]ReviewResponse, len(reviews))
	for i, r := range reviews {
		items[i] = ToReviewResponse(r)
	}
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// Approve publishes a review and refreshes the product rating
func (s *ReviewService) Approve(ctx context.Context, id uuid.UUID) (*ReviewResponse, error) {
	return s.moderate(ctx, id, (*catalog.Review).Approve)
}

// Reject hides a review and refreshes the product rating
func (s *ReviewService) Reject(ctx context.Context, id uuid.UUID) (*ReviewResponse, error) {
	return s.moderate(ctx, id, (*catalog.Review).Reject)
}

func (s *ReviewService) moderate(ctx context.Context, id uuid.UUID, action func(*catalog.Review) error) (*ReviewResponse, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := action(review); err != nil {
		return nil, err
	}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.reviews.Update(ctx, review); err != nil {
			return err
		}
		return s.refreshRating(ctx, review.ProductID)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Review moderated",
		zap.String("review_id", id.String()),
		zap.String("status", string(review.Status)))
	resp := ToReviewResponse(review)
	return &resp, nil
}

// Delete removes a review. Only its author or an admin may do so.
func (s *ReviewService) Delete(ctx context.Context, actorID uuid.UUID, isAdmin bool, id uuid.UUID) error {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && review.UserID != actorID {
		return shared.ErrForbidden.WithMessage("You can only delete your own reviews")
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.reviews.Delete(ctx, id); err != nil {
			return err
		}
		if review.Status != catalog.ReviewStatusApproved {
			return nil
		}
		return s.refreshRating(ctx, review.ProductID)
	})
}

// refreshRating recomputes the product's rating from approved reviews
func (s *ReviewService) refreshRating(ctx context.Context, productID uuid.UUID) error {
	summary, err := s.reviews.Summarize(ctx, productID)
	if err != nil {
		return err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	product.ApplyRating(summary.Average, summary.Count)
	return s.products.Update(ctx, product)
}
