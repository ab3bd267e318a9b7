package promotion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/promotion"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockDiscountRepository is a mock implementation of promotion.Repository
type MockDiscountRepository struct {
	mock.Mock
}

func (m *MockDiscountRepository) Create(ctx context.Context, d *promotion.Discount) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDiscountRepository) Update(ctx context.Context, d *promotion.Discount) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDiscountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDiscountRepository) FindByID(ctx context.Context, id uuid.UUID) (*promotion.Discount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Discount), args.Error(1)
}

func (m *MockDiscountRepository) FindByCode(ctx context.Context, code string) (*promotion.Discount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Discount), args.Error(1)
}

func (m *MockDiscountRepository) FindByCodeForUpdate(ctx context.Context, code string) (*promotion.Discount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*promotion.Discount), args.Error(1)
}

func (m *MockDiscountRepository) FindAll(ctx context.Context, filter promotion.Filter) ([]*promotion.Discount, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*promotion.Discount), args.Get(1).(int64), args.Error(2)
}

func (m *MockDiscountRepository) ExistsByCode(ctx context.Context, code string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, code, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDiscountRepository) RecordUsage(ctx context.Context, usage *promotion.Usage) error {
	return m.Called(ctx, usage).Error(0)
}

func (m *MockDiscountRepository) CountUsageByUser(ctx context.Context, discountID, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, discountID, userID)
	return args.Int(0), args.Error(1)
}

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestService() (*DiscountService, *MockDiscountRepository) {
	repo := new(MockDiscountRepository)
	s := NewDiscountService(repo, zap.NewNop())
	s.now = func() time.Time { return fixedNow }
	return s, repo
}

func newDiscount(t *testing.T, mutate func(*promotion.DiscountInput)) *promotion.Discount {
	t.Helper()
	in := promotion.DiscountInput{
		Code:     "GIAM10",
		Type:     promotion.DiscountPercentage,
		Value:    decimal.NewFromInt(10),
		StartsAt: fixedNow.Add(-24 * time.Hour),
		EndsAt:   fixedNow.Add(24 * time.Hour),
		Active:   true,
	}
	if mutate != nil {
		mutate(&in)
	}
	d, err := promotion.NewDiscount(in)
	require.NoError(t, err)
	return d
}

func intPtr(v int) *int { return &v }

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected DomainError, got %T: %v", err, err)
	assert.Equal(t, code, domainErr.Code)
}

func TestDiscountService_Validate(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name       string
		mutate     func(*promotion.DiscountInput)
		usedCount  int
		userUsage  int
		subtotal   int64
		wantAmount int64
		wantErr    bool
	}{
		{name: "percentage", subtotal: 1000000, wantAmount: 100000},
		{name: "fixed amount capped at subtotal", mutate: func(in *promotion.DiscountInput) {
			in.Type = promotion.DiscountFixedAmount
			in.Value = decimal.NewFromInt(500000)
		}, subtotal: 300000, wantAmount: 300000},
		{name: "inactive", mutate: func(in *promotion.DiscountInput) { in.Active = false }, subtotal: 100000, wantErr: true},
		{name: "expired", mutate: func(in *promotion.DiscountInput) {
			in.StartsAt = fixedNow.Add(-48 * time.Hour)
			in.EndsAt = fixedNow
		}, subtotal: 100000, wantErr: true},
		{name: "usage exhausted", mutate: func(in *promotion.DiscountInput) { in.MaxUsage = intPtr(5) }, usedCount: 5, subtotal: 100000, wantErr: true},
		{name: "per user limit", mutate: func(in *promotion.DiscountInput) { in.PerUserLimit = intPtr(1) }, userUsage: 1, subtotal: 100000, wantErr: true},
		{name: "below minimum", mutate: func(in *promotion.DiscountInput) {
			minValue := decimal.NewFromInt(500000)
			in.MinOrderValue = &minValue
		}, subtotal: 499999, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, repo := newTestService()
			d := newDiscount(t, tt.mutate)
			d.UsedCount = tt.usedCount
			repo.On("FindByCode", ctx, "GIAM10").Return(d, nil)
			repo.On("CountUsageByUser", ctx, d.ID, userID).Return(tt.userUsage, nil)

			// codes match case-insensitively
			resp, err := s.Validate(ctx, &userID, ValidateQuery{Code: " giam10 ", Subtotal: decimal.NewFromInt(tt.subtotal)})

			if tt.wantErr {
				requireCode(t, err, "INVALID_COUPON")
				return
			}
			require.NoError(t, err)
			assert.True(t, resp.Valid)
			assert.True(t, resp.DiscountAmount.Amount().Equal(decimal.NewFromInt(tt.wantAmount)),
				"got %s", resp.DiscountAmount)
		})
	}

	t.Run("unknown code", func(t *testing.T) {
		s, repo := newTestService()
		repo.On("FindByCode", ctx, "NOPE").Return(nil, shared.ErrNotFound)

		_, err := s.Validate(ctx, nil, ValidateQuery{Code: "nope", Subtotal: decimal.NewFromInt(1)})
		requireCode(t, err, "INVALID_COUPON")
	})

	t.Run("guest skips per user limit", func(t *testing.T) {
		s, repo := newTestService()
		d := newDiscount(t, func(in *promotion.DiscountInput) { in.PerUserLimit = intPtr(1) })
		repo.On("FindByCode", ctx, "GIAM10").Return(d, nil)

		_, err := s.Validate(ctx, nil, ValidateQuery{Code: "GIAM10", Subtotal: decimal.NewFromInt(100000)})

		require.NoError(t, err)
		repo.AssertNotCalled(t, "CountUsageByUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDiscountService_Redeem(t *testing.T) {
	ctx := context.Background()
	userID, orderID := uuid.New(), uuid.New()

	t.Run("counts and records usage", func(t *testing.T) {
		s, repo := newTestService()
		d := newDiscount(t, func(in *promotion.DiscountInput) { in.MaxUsage = intPtr(3) })
		repo.On("FindByCodeForUpdate", ctx, "GIAM10").Return(d, nil)
		repo.On("Update", ctx, d).Return(nil)
		repo.On("RecordUsage", ctx, mock.MatchedBy(func(u *promotion.Usage) bool {
			return u.DiscountID == d.ID && u.UserID == userID && u.OrderID == orderID
		})).Return(nil)

		amount, err := s.Redeem(ctx, "giam10", userID, orderID, valueobject.VNDFromInt(2000000))

		require.NoError(t, err)
		assert.True(t, amount.Amount().Equal(decimal.NewFromInt(200000)))
		assert.Equal(t, 1, d.UsedCount)
		repo.AssertExpectations(t)
	})

	t.Run("last use taken concurrently", func(t *testing.T) {
		s, repo := newTestService()
		d := newDiscount(t, func(in *promotion.DiscountInput) { in.MaxUsage = intPtr(1) })
		d.UsedCount = 1
		repo.On("FindByCodeForUpdate", ctx, "GIAM10").Return(d, nil)

		_, err := s.Redeem(ctx, "GIAM10", userID, orderID, valueobject.VNDFromInt(100000))

		requireCode(t, err, "INVALID_COUPON")
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestDiscountService_Admin(t *testing.T) {
	ctx := context.Background()

	t.Run("create rejects duplicate code", func(t *testing.T) {
		s, repo := newTestService()
		repo.On("ExistsByCode", ctx, "GIAM15", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := s.Create(ctx, DiscountRequest{
			Code: "giam15", Type: "PERCENTAGE", Value: decimal.NewFromInt(15),
			StartsAt: fixedNow, EndsAt: fixedNow.Add(time.Hour),
		})
		requireCode(t, err, "ALREADY_EXISTS")
	})

	t.Run("create defaults to active", func(t *testing.T) {
		s, repo := newTestService()
		repo.On("ExistsByCode", ctx, "SALE50K", (*uuid.UUID)(nil)).Return(false, nil)
		repo.On("Create", ctx, mock.AnythingOfType("*promotion.Discount")).Return(nil)

		resp, err := s.Create(ctx, DiscountRequest{
			Code: "sale50k", Type: "FIXED_AMOUNT", Value: decimal.NewFromInt(50000),
			StartsAt: fixedNow, EndsAt: fixedNow.Add(time.Hour),
		})

		require.NoError(t, err)
		assert.Equal(t, "SALE50K", resp.Code)
		assert.True(t, resp.Active)
	})

	t.Run("update keeps used count", func(t *testing.T) {
		s, repo := newTestService()
		d := newDiscount(t, nil)
		d.UsedCount = 7
		repo.On("FindByID", ctx, d.ID).Return(d, nil)
		repo.On("ExistsByCode", ctx, "GIAM10", &d.ID).Return(false, nil)
		repo.On("Update", ctx, d).Return(nil)

		resp, err := s.Update(ctx, d.ID, DiscountRequest{
			Code: "GIAM10", Type: "PERCENTAGE", Value: decimal.NewFromInt(12),
			StartsAt: fixedNow, EndsAt: fixedNow.Add(time.Hour),
		})

		require.NoError(t, err)
		assert.Equal(t, 7, resp.UsedCount)
		assert.True(t, resp.Value.Equal(decimal.NewFromInt(12)))
	})

	t.Run("deactivate", func(t *testing.T) {
		s, repo := newTestService()
		d := newDiscount(t, nil)
		repo.On("FindByID", ctx, d.ID).Return(d, nil)
		repo.On("Update", ctx, d).Return(nil)

		resp, err := s.Deactivate(ctx, d.ID)
		require.NoError(t, err)
		assert.False(t, resp.Active)
	})
}
