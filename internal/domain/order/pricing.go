package order

import (
	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
)

// Line is a priced product line used for quotes and orders
type Line struct {
	ProductID    uuid.UUID
	SKU          string
	Name         string
	ThumbnailURL string
	UnitPrice    valueobject.Money
	Quantity     int
}

// Total is unit price times quantity
func (l Line) Total() valueobject.Money {
	return l.UnitPrice.MultiplyByInt(l.Quantity)
}

// Quote is the priced breakdown of a checkout
type Quote struct {
	Lines       []Line
	Subtotal    valueobject.Money
	Discount    valueobject.Money
	ShippingFee valueobject.Money
	Total       valueobject.Money
	CouponCode  string
}

// Subtotal sums every line total
func Subtotal(lines []Line) (valueobject.Money, error) {
	sum := valueobject.ZeroVND()
	for _, l := range lines {
		var err error
		if sum, err = sum.Add(l.Total()); err != nil {
			return valueobject.Money{}, err
		}
	}
	return sum, nil
}

// Price builds a quote. The discount is capped at the subtotal and the
// total is never negative.
func Price(lines []Line, discount valueobject.Money, shippingFee valueobject.Money, couponCode string) (*Quote, error) {
	if len(lines) == 0 {
		return nil, ErrCartEmpty
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
	}
	subtotal, err := Subtotal(lines)
	if err != nil {
		return nil, err
	}
	if discount.Currency() == "" || discount.IsNegative() {
		discount = valueobject.ZeroVND()
	}
	if discount, err = discount.Min(subtotal); err != nil {
		return nil, err
	}
	afterDiscount, err := subtotal.Subtract(discount)
	if err != nil {
		return nil, err
	}
	total, err := afterDiscount.Add(shippingFee)
	if err != nil {
		return nil, err
	}
	if discount.IsZero() {
		couponCode = ""
	}
	return &Quote{
		Lines:       lines,
		Subtotal:    subtotal,
		Discount:    discount,
		ShippingFee: shippingFee,
		Total:       total.ClampZero(),
		CouponCode:  couponCode,
	}, nil
}
