package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/catalog"
	"github.com/secureshop/backend/internal/domain/promotion"
	"github.com/secureshop/backend/internal/infrastructure/config"
	"github.com/secureshop/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestSeeder(t *testing.T) (*Seeder, *persistence.Database) {
	t.Helper()
	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver: "sqlite",
		Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate())
	t.Cleanup(func() { _ = db.Close() })

	s := newSeederFor(db, zap.NewNop())
	s.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	return s, db
}

func TestLoadFixture(t *testing.T) {
	t.Run("built-in fixture parses", func(t *testing.T) {
		f, err := LoadFixture(bytes.NewReader(defaultFixture))
		require.NoError(t, err)

		assert.NotEmpty(t, f.Categories)
		assert.NotEmpty(t, f.Brands)
		codes := make([]string, 0, len(f.Discounts))
		for _, d := range f.Discounts {
			codes = append(codes, d.Code)
		}
		assert.Subset(t, codes, []string{"GIAM10", "GIAM15", "GIAM20"})
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		_, err := LoadFixture(strings.NewReader("categories:\n  - name: A\n    colour: red\n"))
		assert.Error(t, err)
	})

	t.Run("empty document", func(t *testing.T) {
		f, err := LoadFixture(strings.NewReader(""))
		require.NoError(t, err)
		assert.Empty(t, f.Categories)
	})
}

func TestDiscountFixture_Input(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	limit := 1

	tests := []struct {
		name    string
		fixture DiscountFixture
		check   func(t *testing.T, in promotion.DiscountInput)
		wantErr bool
	}{
		{
			name:    "code and type are normalized",
			fixture: DiscountFixture{Code: " giam10 ", Type: "percentage", Value: "10", ValidDays: 30},
			check: func(t *testing.T, in promotion.DiscountInput) {
				assert.Equal(t, "GIAM10", in.Code)
				assert.Equal(t, promotion.DiscountPercentage, in.Type)
				assert.Equal(t, now.AddDate(0, 0, 30), in.EndsAt)
				assert.Nil(t, in.MinOrderValue)
			},
		},
		{
			name:    "limits and minimum order value carry over",
			fixture: DiscountFixture{Code: "VIP", Type: "FIXED_AMOUNT", Value: "50000", MinOrderValue: "1000000", PerUserLimit: &limit},
			check: func(t *testing.T, in promotion.DiscountInput) {
				require.NotNil(t, in.MinOrderValue)
				assert.Equal(t, "1000000", in.MinOrderValue.String())
				assert.Equal(t, &limit, in.PerUserLimit)
				assert.Equal(t, now.AddDate(0, 0, 1), in.EndsAt, "zero validDays still yields a valid window")
			},
		},
		{
			name:    "bad value",
			fixture: DiscountFixture{Code: "BAD", Type: "PERCENTAGE", Value: "ten"},
			wantErr: true,
		},
		{
			name:    "bad minimum",
			fixture: DiscountFixture{Code: "BAD", Type: "PERCENTAGE", Value: "10", MinOrderValue: "lots"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := tt.fixture.input(now)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, in)
		})
	}
}

func TestSeeder_ApplyFixture(t *testing.T) {
	s, db := newTestSeeder(t)
	ctx := context.Background()
	fixture, err := LoadFixture(bytes.NewReader(defaultFixture))
	require.NoError(t, err)

	first, err := s.ApplyFixture(ctx, fixture)
	require.NoError(t, err)

	categories, err := persistence.NewGormCategoryRepository(db.DB).FindAll(ctx, true)
	require.NoError(t, err)
	assert.Len(t, categories, len(fixture.Categories))
	assert.Equal(t, len(fixture.Categories), first.Categories)
	assert.Equal(t, len(fixture.Brands), first.Brands)

	// the migration may already have created some of the discount codes
	assert.Equal(t, len(fixture.Discounts), first.Discounts+first.Skipped)
	d, err := persistence.NewGormDiscountRepository(db.DB).FindByCode(ctx, "FREESHIP50K")
	require.NoError(t, err)
	assert.Equal(t, promotion.DiscountFixedAmount, d.Type)
	require.NotNil(t, d.MaxUsage)
	assert.Equal(t, 500, *d.MaxUsage)

	t.Run("second run creates nothing", func(t *testing.T) {
		again, err := s.ApplyFixture(ctx, fixture)
		require.NoError(t, err)

		assert.Zero(t, again.Categories+again.Brands+again.Discounts)
		assert.Equal(t, len(fixture.Categories)+len(fixture.Brands)+len(fixture.Discounts), again.Skipped)
	})

	t.Run("invalid entry rolls back the whole fixture", func(t *testing.T) {
		bad := &Fixture{
			Categories: []CategoryFixture{{Name: "Cameras"}},
			Brands:     []BrandFixture{{Name: ""}},
		}
		_, err := s.ApplyFixture(ctx, bad)
		require.Error(t, err)

		exists, err := persistence.NewGormCategoryRepository(db.DB).ExistsByName(ctx, "Cameras", nil)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestSeeder_GenerateProducts(t *testing.T) {
	s, db := newTestSeeder(t)
	ctx := context.Background()
	fixture, err := LoadFixture(bytes.NewReader(defaultFixture))
	require.NoError(t, err)
	_, err = s.ApplyFixture(ctx, fixture)
	require.NoError(t, err)

	sum, err := s.GenerateProducts(ctx, ProductOptions{Count: 12, Seed: 42, MinStock: 5, MaxStock: 20})
	require.NoError(t, err)
	assert.Equal(t, 12, sum.Products)

	products, total, err := persistence.NewGormProductRepository(db.DB).FindAll(ctx, catalog.ProductFilter{Page: 1, PageSize: 50})
	require.NoError(t, err)
	assert.EqualValues(t, 12, total)

	stockRepo := persistence.NewGormInventoryRepository(db.DB)
	movementRepo := persistence.NewGormMovementRepository(db.DB)
	for _, p := range products {
		assert.True(t, strings.HasPrefix(p.SKU, "SS-"), p.SKU)
		assert.False(t, p.Price.Amount().GreaterThan(p.ListedPrice.Amount()), "price above listed price for %s", p.SKU)
		assert.NotNil(t, p.CategoryID)
		assert.NotNil(t, p.BrandID)

		inv, err := stockRepo.FindByProduct(ctx, p.ID)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, inv.OnHand, 5)
		assert.LessOrEqual(t, inv.OnHand, 20)
		assert.Zero(t, inv.Reserved)

		movements, n, err := movementRepo.FindByProduct(ctx, p.ID, 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n, "one opening movement for %s", p.SKU)
		assert.Equal(t, inv.OnHand, movements[0].Quantity)
	}

	t.Run("zero count is a no-op", func(t *testing.T) {
		sum, err := s.GenerateProducts(ctx, ProductOptions{Count: 0})
		require.NoError(t, err)
		assert.Zero(t, sum.Products)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ấn", truncate("ấnđộ", 2))
}

func TestNewRootCmd(t *testing.T) {
	root := newRootCmd()

	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["fixtures"])
	assert.True(t, names["products"])
	assert.True(t, names["all"])

	products, _, err := root.Find([]string{"products"})
	require.NoError(t, err)
	count, err := products.Flags().GetInt("count")
	require.NoError(t, err)
	assert.Equal(t, 50, count)
}
