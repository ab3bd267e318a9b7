package promotion

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/promotion"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// DiscountService manages coupon codes and applies them at checkout
type DiscountService struct {
	discounts promotion.Repository
	logger    *zap.Logger
	now       func() time.Time
}

// NewDiscountService creates a new DiscountService
func NewDiscountService(discounts promotion.Repository, logger *zap.Logger) *DiscountService {
	return &DiscountService{
		discounts: discounts,
		logger:    logger.Named("promotion"),
		now:       time.Now,
	}
}

// Validate previews a code for the storefront. userID is nil for guests,
// in which case the per user limit is not checked.
func (s *DiscountService) Validate(ctx context.Context, userID *uuid.UUID, q ValidateQuery) (*ValidateResponse, error) {
	subtotal := valueobject.VNDOf(q.Subtotal)
	d, amount, err := s.Resolve(ctx, userID, q.Code, subtotal)
	if err != nil {
		return nil, err
	}
	return &ValidateResponse{
		Valid:          true,
		Code:           d.Code,
		Type:           string(d.Type),
		Value:          d.Value,
		DiscountAmount: amount,
		Description:    d.Description,
	}, nil
}

// Resolve finds a usable discount and its amount for subtotal. Unknown
// codes fail with INVALID_COUPON.
func (s *DiscountService) Resolve(ctx context.Context, userID *uuid.UUID, code string, subtotal valueobject.Money) (*promotion.Discount, valueobject.Money, error) {
	d, err := s.discounts.FindByCode(ctx, promotion.NormalizeCode(code))
	if err != nil {
		return nil, valueobject.Money{}, s.notFoundAsInvalid(err)
	}
	if err := s.check(ctx, d, userID, subtotal); err != nil {
		return nil, valueobject.Money{}, err
	}
	return d, d.Amount(subtotal), nil
}

// Redeem applies a code to an order being placed: it locks the discount
// row, re-checks validity, counts the use and records it for the user.
// It must run inside the caller's transaction.
func (s *DiscountService) Redeem(ctx context.Context, code string, userID, orderID uuid.UUID, subtotal valueobject.Money) (valueobject.Money, error) {
	d, err := s.discounts.FindByCodeForUpdate(ctx, promotion.NormalizeCode(code))
	if err != nil {
		return valueobject.Money{}, s.notFoundAsInvalid(err)
	}
	if err := s.check(ctx, d, &userID, subtotal); err != nil {
		return valueobject.Money{}, err
	}
	if err := d.Redeem(); err != nil {
		return valueobject.Money{}, err
	}
	if err := s.discounts.Update(ctx, d); err != nil {
		return valueobject.Money{}, err
	}
	usage := &promotion.Usage{
		ID:         uuid.New(),
		DiscountID: d.ID,
		UserID:     userID,
		OrderID:    orderID,
		UsedAt:     s.now(),
	}
	if err := s.discounts.RecordUsage(ctx, usage); err != nil {
		return valueobject.Money{}, err
	}
	s.logger.Info("Discount redeemed",
		zap.String("code", d.Code),
		zap.String("order_id", orderID.String()),
		zap.Int("used_count", d.UsedCount))
	return d.Amount(subtotal), nil
}

func (s *DiscountService) check(ctx context.Context, d *promotion.Discount, userID *uuid.UUID, subtotal valueobject.Money) error {
	usage := 0
	if userID != nil && d.PerUserLimit != nil {
		n, err := s.discounts.CountUsageByUser(ctx, d.ID, *userID)
		if err != nil {
			return err
		}
		usage = n
	}
	if err := d.Check(subtotal, usage, s.now()); err != nil {
		s.logger.Warn("Discount rejected", zap.String("code", d.Code), zap.Error(err))
		return err
	}
	return nil
}

func (s *DiscountService) notFoundAsInvalid(err error) error {
	if errors.Is(err, shared.ErrNotFound) {
		return promotion.ErrInvalidCoupon.WithMessage("Coupon code does not exist")
	}
	return err
}

// List returns a page of discounts for the back office
func (s *DiscountService) List(ctx context.Context, filter DiscountListFilter) (shared.Paginated[DiscountResponse], error) {
	f := promotion.Filter{Search: filter.Search, Active: filter.Active, Page: filter.Page, PageSize: filter.PageSize}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	discounts, total, err := s.discounts.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[DiscountResponse]{}, err
	}
	items := make([]DiscountResponse, len(discounts))
	for i, d := range discounts {
		items[i] = ToDiscountResponse(d)
	}
	return shared.NewPaginated(items, total, f.Page, f.PageSize), nil
}

// GetByID returns one discount
func (s *DiscountService) GetByID(ctx context.Context, id uuid.UUID) (*DiscountResponse, error) {
	d, err := s.discounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDiscountResponse(d)
	return &resp, nil
}

// Create adds a discount code
func (s *DiscountService) Create(ctx context.Context, req DiscountRequest) (*DiscountResponse, error) {
	if err := s.checkCode(ctx, req.Code, nil); err != nil {
		return nil, err
	}
	d, err := promotion.NewDiscount(req.toInput(true))
	if err != nil {
		return nil, err
	}
	if err := s.discounts.Create(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info("Discount created", zap.String("discount_id", d.ID.String()), zap.String("code", d.Code))
	resp := ToDiscountResponse(d)
	return &resp, nil
}

// Update replaces the editable fields; the used count is kept
func (s *DiscountService) Update(ctx context.Context, id uuid.UUID, req DiscountRequest) (*DiscountResponse, error) {
	d, err := s.discounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCode(ctx, req.Code, &id); err != nil {
		return nil, err
	}
	if err := d.Update(req.toInput(d.Active)); err != nil {
		return nil, err
	}
	if err := s.discounts.Update(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDiscountResponse(d)
	return &resp, nil
}

// Activate enables a code
func (s *DiscountService) Activate(ctx context.Context, id uuid.UUID) (*DiscountResponse, error) {
	return s.setActive(ctx, id, true)
}

// Deactivate disables a code
func (s *DiscountService) Deactivate(ctx context.Context, id uuid.UUID) (*DiscountResponse, error) {
	return s.setActive(ctx, id, false)
}

func (s *DiscountService) setActive(ctx context.Context, id uuid.UUID, active bool) (*DiscountResponse, error) {
	d, err := s.discounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if active {
		d.Activate()
	} else {
		d.Deactivate()
	}
	if err := s.discounts.Update(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info("Discount status changed", zap.String("code", d.Code), zap.Bool("active", active))
	resp := ToDiscountResponse(d)
	return &resp, nil
}

// Delete removes a discount code
func (s *DiscountService) Delete(ctx context.Context, id uuid.UUID) error {
	d, err := s.discounts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.discounts.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Discount deleted", zap.String("code", d.Code))
	return nil
}

func (s *DiscountService) checkCode(ctx context.Context, code string, excludeID *uuid.UUID) error {
	taken, err := s.discounts.ExistsByCode(ctx, promotion.NormalizeCode(code), excludeID)
	if err != nil {
		return err
	}
	if taken {
		return shared.ErrAlreadyExists.WithMessage("Discount code already exists")
	}
	return nil
}
