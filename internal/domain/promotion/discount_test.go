package promotion

import (
	"errors"
	"testing"
	"time"

	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func percentInput(code string, value int64) DiscountInput {
	now := time.Now()
	return DiscountInput{
		Code:     code,
		Type:     DiscountPercentage,
		Value:    decimal.NewFromInt(value),
		StartsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(time.Hour),
		Active:   true,
	}
}

func TestNewDiscount(t *testing.T) {
	d, err := NewDiscount(percentInput(" giam10 ", 10))
	require.NoError(t, err)
	assert.Equal(t, "GIAM10", d.Code)

	tests := []struct {
		name   string
		mutate func(*DiscountInput)
	}{
		{"bad code", func(in *DiscountInput) { in.Code = "a" }},
		{"bad type", func(in *DiscountInput) { in.Type = "BOGO" }},
		{"zero value", func(in *DiscountInput) { in.Value = decimal.Zero }},
		{"over 100 percent", func(in *DiscountInput) { in.Value = decimal.NewFromInt(101) }},
		{"inverted period", func(in *DiscountInput) { in.EndsAt = in.StartsAt }},
		{"zero max usage", func(in *DiscountInput) { in.MaxUsage = intPtr(0) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := percentInput("CODE10", 10)
			tt.mutate(&in)
			_, err := NewDiscount(in)
			assert.Error(t, err)
		})
	}
}

func TestDiscount_Check(t *testing.T) {
	now := time.Now()
	subtotal := valueobject.VNDFromInt(500000)

	tests := []struct {
		name      string
		mutate    func(*Discount)
		userUsage int
		wantErr   bool
	}{
		{"valid", func(d *Discount) {}, 0, false},
		{"inactive", func(d *Discount) { d.Active = false }, 0, true},
		{"not started", func(d *Discount) { d.StartsAt = now.Add(time.Minute) }, 0, true},
		{"ended exactly now", func(d *Discount) { d.EndsAt = now }, 0, true},
		{"max usage reached", func(d *Discount) { d.MaxUsage = intPtr(3); d.UsedCount = 3 }, 0, true},
		{"per user limit reached", func(d *Discount) { d.PerUserLimit = intPtr(1) }, 1, true},
		{"under per user limit", func(d *Discount) { d.PerUserLimit = intPtr(2) }, 1, false},
		{"below min order", func(d *Discount) { d.MinOrderValue = decPtr(600000) }, 0, true},
		{"equal to min order", func(d *Discount) { d.MinOrderValue = decPtr(500000) }, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDiscount(percentInput("GIAM10", 10))
			require.NoError(t, err)
			tt.mutate(d)
			err = d.Check(subtotal, tt.userUsage, now)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidCoupon))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDiscount_Amount(t *testing.T) {
	pct, err := NewDiscount(percentInput("GIAM15", 15))
	require.NoError(t, err)
	assert.True(t, pct.Amount(valueobject.VNDFromInt(200000)).Equals(valueobject.VNDFromInt(30000)))

	fixedIn := percentInput("FIXED50K", 0)
	fixedIn.Type = DiscountFixedAmount
	fixedIn.Value = decimal.NewFromInt(50000)
	fixed, err := NewDiscount(fixedIn)
	require.NoError(t, err)

	assert.True(t, fixed.Amount(valueobject.VNDFromInt(200000)).Equals(valueobject.VNDFromInt(50000)))
	assert.True(t, fixed.Amount(valueobject.VNDFromInt(30000)).Equals(valueobject.VNDFromInt(30000)))
	assert.True(t, fixed.Amount(valueobject.ZeroVND()).IsZero())
}

func TestDiscount_Redeem(t *testing.T) {
	in := percentInput("ONCE", 5)
	in.MaxUsage = intPtr(1)
	d, err := NewDiscount(in)
	require.NoError(t, err)

	require.NoError(t, d.Redeem())
	assert.Equal(t, 1, d.UsedCount)
	assert.Error(t, d.Redeem())
}
