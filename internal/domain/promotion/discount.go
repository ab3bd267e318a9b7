package promotion

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DiscountType selects how the amount is computed
type DiscountType string

const (
	DiscountPercentage  DiscountType = "PERCENTAGE"
	DiscountFixedAmount DiscountType = "FIXED_AMOUNT"
)

// IsValid reports whether t is a known type
func (t DiscountType) IsValid() bool {
	return t == DiscountPercentage || t == DiscountFixedAmount
}

var codeRegex = regexp.MustCompile(`^[A-Z0-9_-]{3,50}$`)

// ErrInvalidCoupon is returned for unknown or unusable codes
var ErrInvalidCoupon = shared.NewDomainError("INVALID_COUPON", "Coupon code is not valid")

// Discount is a coupon code customers can apply at checkout.
type Discount struct {
	shared.BaseAggregateRoot
	Code          string
	Description   string
	Type          DiscountType
	Value         decimal.Decimal
	MinOrderValue *decimal.Decimal
	MaxUsage      *int
	PerUserLimit  *int
	UsedCount     int
	StartsAt      time.Time
	EndsAt        time.Time
	Active        bool
}

// DiscountInput carries every editable field
type DiscountInput struct {
	Code          string
	Description   string
	Type          DiscountType
	Value         decimal.Decimal
	MinOrderValue *decimal.Decimal
	MaxUsage      *int
	PerUserLimit  *int
	StartsAt      time.Time
	EndsAt        time.Time
	Active        bool
}

// NormalizeCode upper-cases and trims a coupon code
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// NewDiscount validates input and creates a discount
func NewDiscount(in DiscountInput) (*Discount, error) {
	d := &Discount{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	if err := d.apply(in); err != nil {
		return nil, err
	}
	return d, nil
}

// Update replaces the editable fields. The used count is preserved.
func (d *Discount) Update(in DiscountInput) error {
	if err := d.apply(in); err != nil {
		return err
	}
	d.MarkModified()
	return nil
}

func (d *Discount) apply(in DiscountInput) error {
	in.Code = NormalizeCode(in.Code)
	if !codeRegex.MatchString(in.Code) {
		return shared.NewDomainError("INVALID_CODE", "Code must be 3-50 characters of A-Z, 0-9, '-' or '_'")
	}
	if !in.Type.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Type must be PERCENTAGE or FIXED_AMOUNT")
	}
	if !in.Value.IsPositive() {
		return shared.NewDomainError("INVALID_VALUE", "Value must be greater than 0")
	}
	if in.Type == DiscountPercentage && in.Value.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_VALUE", "Percentage cannot exceed 100")
	}
	if in.MinOrderValue != nil && in.MinOrderValue.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Minimum order value cannot be negative")
	}
	if in.MaxUsage != nil && *in.MaxUsage < 1 {
		return shared.NewDomainError("INVALID_VALUE", "Max usage must be at least 1")
	}
	if in.PerUserLimit != nil && *in.PerUserLimit < 1 {
		return shared.NewDomainError("INVALID_VALUE", "Per user limit must be at least 1")
	}
	if !in.EndsAt.After(in.StartsAt) {
		return shared.NewDomainError("INVALID_PERIOD", "End time must be after start time")
	}

	d.Code = in.Code
	d.Description = in.Description
	d.Type = in.Type
	d.Value = in.Value
	d.MinOrderValue = in.MinOrderValue
	d.MaxUsage = in.MaxUsage
	d.PerUserLimit = in.PerUserLimit
	d.StartsAt = in.StartsAt
	d.EndsAt = in.EndsAt
	d.Active = in.Active
	return nil
}

// Activate enables the code
func (d *Discount) Activate() {
	d.Active = true
	d.MarkModified()
}

// Deactivate disables the code
func (d *Discount) Deactivate() {
	d.Active = false
	d.MarkModified()
}

// Check returns why the discount cannot be applied, or nil. userUsage is
// the number of orders the customer already placed with this code.
func (d *Discount) Check(subtotal valueobject.Money, userUsage int, now time.Time) error {
	switch {
	case !d.Active:
		return ErrInvalidCoupon.WithMessage("Coupon is not active")
	case now.Before(d.StartsAt):
		return ErrInvalidCoupon.WithMessage("Coupon is not yet valid")
	case !now.Before(d.EndsAt):
		return ErrInvalidCoupon.WithMessage("Coupon has expired")
	case d.MaxUsage != nil && d.UsedCount >= *d.MaxUsage:
		return ErrInvalidCoupon.WithMessage("Coupon usage limit reached")
	case d.PerUserLimit != nil && userUsage >= *d.PerUserLimit:
		return ErrInvalidCoupon.WithMessage("You have already used this coupon")
	case d.MinOrderValue != nil && subtotal.Amount().LessThan(*d.MinOrderValue):
		return ErrInvalidCoupon.WithMessage("Order does not reach the minimum value for this coupon").
			WithDetails(map[string]any{"min_order_value": d.MinOrderValue.String()})
	}
	return nil
}

// Amount returns the reduction for subtotal, never more than subtotal
func (d *Discount) Amount(subtotal valueobject.Money) valueobject.Money {
	if !subtotal.IsPositive() {
		return valueobject.Zero(subtotal.Currency())
	}
	var off valueobject.Money
	switch d.Type {
	case DiscountPercentage:
		off = subtotal.Percent(d.Value)
	default:
		off = valueobject.VNDOf(d.Value)
	}
	if capped, err := off.Min(subtotal); err == nil {
		return capped
	}
	return valueobject.Zero(subtotal.Currency())
}

// Redeem counts one use of the code
func (d *Discount) Redeem() error {
	if d.MaxUsage != nil && d.UsedCount >= *d.MaxUsage {
		return ErrInvalidCoupon.WithMessage("Coupon usage limit reached")
	}
	d.UsedCount++
	d.MarkModified()
	return nil
}

// Usage records that a user redeemed a code on an order
type Usage struct {
	ID         uuid.UUID
	DiscountID uuid.UUID
	UserID     uuid.UUID
	OrderID    uuid.UUID
	UsedAt     time.Time
}
