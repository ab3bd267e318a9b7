package promotion

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/promotion"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DiscountRequest creates or replaces a discount code
type DiscountRequest struct {
	Code          string           `json:"code" binding:"required,min=3,max=50"`
	Description   string           `json:"description" binding:"max=500"`
	Type          string           `json:"type" binding:"required,oneof=PERCENTAGE FIXED_AMOUNT"`
	Value         decimal.Decimal  `json:"value" binding:"required"`
	MinOrderValue *decimal.Decimal `json:"minOrderValue"`
	MaxUsage      *int             `json:"maxUsage" binding:"omitempty,min=1"`
	PerUserLimit  *int             `json:"perUserLimit" binding:"omitempty,min=1"`
	StartsAt      time.Time        `json:"startsAt" binding:"required"`
	EndsAt        time.Time        `json:"endsAt" binding:"required"`
	Active        *bool            `json:"active"`
}

func (r DiscountRequest) toInput(current bool) promotion.DiscountInput {
	active := current
	if r.Active != nil {
		active = *r.Active
	}
	return promotion.DiscountInput{
		Code:          r.Code,
		Description:   r.Description,
		Type:          promotion.DiscountType(r.Type),
		Value:         r.Value,
		MinOrderValue: r.MinOrderValue,
		MaxUsage:      r.MaxUsage,
		PerUserLimit:  r.PerUserLimit,
		StartsAt:      r.StartsAt,
		EndsAt:        r.EndsAt,
		Active:        active,
	}
}

// DiscountListFilter is the admin discount search
type DiscountListFilter struct {
	Search   string `form:"search" binding:"max=50"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ValidateQuery previews a code against a subtotal. Subtotal is parsed by
// the caller since form binding cannot decode decimals.
type ValidateQuery struct {
	Code     string          `form:"code" binding:"required,max=50"`
	Subtotal decimal.Decimal `form:"-"`
}

// DiscountResponse represents a discount in API responses
type DiscountResponse struct {
	ID            uuid.UUID        `json:"id"`
	Code          string           `json:"code"`
	Description   string           `json:"description"`
	Type          string           `json:"type"`
	Value         decimal.Decimal  `json:"value"`
	MinOrderValue *decimal.Decimal `json:"minOrderValue,omitempty"`
	MaxUsage      *int             `json:"maxUsage,omitempty"`
	PerUserLimit  *int             `json:"perUserLimit,omitempty"`
	UsedCount     int              `json:"usedCount"`
	StartsAt      time.Time        `json:"startsAt"`
	EndsAt        time.Time        `json:"endsAt"`
	Active        bool             `json:"active"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// ValidateResponse is the storefront preview of a code
type ValidateResponse struct {
	Valid          bool              `json:"valid"`
	Code           string            `json:"code"`
	Type           string            `json:"type"`
	Value          decimal.Decimal   `json:"value"`
	DiscountAmount valueobject.Money `json:"discountAmount"`
	Description    string            `json:"description"`
}

// ToDiscountResponse converts a domain discount
func ToDiscountResponse(d *promotion.Discount) DiscountResponse {
	return DiscountResponse{
		ID:            d.ID,
		Code:          d.Code,
		Description:   d.Description,
		Type:          string(d.Type),
		Value:         d.Value,
		MinOrderValue: d.MinOrderValue,
		MaxUsage:      d.MaxUsage,
		PerUserLimit:  d.PerUserLimit,
		UsedCount:     d.UsedCount,
		StartsAt:      d.StartsAt,
		EndsAt:        d.EndsAt,
		Active:        d.Active,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}
