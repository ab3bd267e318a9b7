package order

import (
	"regexp"
	"strings"

	"github.com/secureshop/backend/internal/domain/shared"
	"github.com/secureshop/backend/internal/domain/shared/valueobject"
)

// DefaultCity is used when the shipping city is left blank
const DefaultCity = "Hồ Chí Minh"

var (
	shippingPhoneRegex = regexp.MustCompile(`^[0-9]{10}$`)
	shippingEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ShippingMethod selects the delivery speed
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

// PaymentMethod is how the customer intends to pay
type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "cod"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentEWallet      PaymentMethod = "e_wallet"
)

// IsValid reports whether m is a known payment method
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentCOD, PaymentBankTransfer, PaymentEWallet:
		return true
	}
	return false
}

// ShippingFees maps each shipping method to a flat fee
type ShippingFees struct {
	Standard valueobject.Money
	Express  valueobject.Money
}

// DefaultShippingFees are the storefront's flat rates
func DefaultShippingFees() ShippingFees {
	return ShippingFees{
		Standard: valueobject.VNDFromInt(30000),
		Express:  valueobject.VNDFromInt(50000),
	}
}

// Fee returns the fee for a method. An empty method means standard.
func (f ShippingFees) Fee(method ShippingMethod) (valueobject.Money, error) {
	switch method {
	case ShippingStandard, "":
		return f.Standard, nil
	case ShippingExpress:
		return f.Express, nil
	}
	return valueobject.Money{}, shared.NewDomainError("INVALID_SHIPPING_METHOD", "Shipping method must be standard or express")
}

// ShippingInfo is the delivery address captured at checkout
type ShippingInfo struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Ward     string `json:"ward"`
	District string `json:"district"`
	City     string `json:"city"`
	Note     string `json:"note,omitempty"`
}

// Normalize trims fields, strips spaces from the phone and fills the default city
func (s ShippingInfo) Normalize() ShippingInfo {
	s.FullName = strings.TrimSpace(s.FullName)
	s.Phone = strings.ReplaceAll(strings.TrimSpace(s.Phone), " ", "")
	s.Email = strings.TrimSpace(s.Email)
	s.Address = strings.TrimSpace(s.Address)
	s.Ward = strings.TrimSpace(s.Ward)
	s.District = strings.TrimSpace(s.District)
	s.City = strings.TrimSpace(s.City)
	if s.City == "" {
		s.City = DefaultCity
	}
	s.Note = strings.TrimSpace(s.Note)
	return s
}

// Validate checks a normalized ShippingInfo and reports every bad field
func (s ShippingInfo) Validate() error {
	fields := map[string]any{}
	if s.FullName == "" {
		fields["fullName"] = "required"
	}
	if !shippingPhoneRegex.MatchString(s.Phone) {
		fields["phone"] = "must be exactly 10 digits"
	}
	if !shippingEmailRegex.MatchString(s.Email) {
		fields["email"] = "invalid email"
	}
	if s.Address == "" {
		fields["address"] = "required"
	}
	if s.District == "" {
		fields["district"] = "required"
	}
	if s.Ward == "" {
		fields["ward"] = "required"
	}
	if len(fields) > 0 {
		return shared.NewDomainError("INVALID_SHIPPING_INFO", "Shipping information is incomplete").WithDetails(fields)
	}
	return nil
}

// FullAddress joins the address parts on one line
func (s ShippingInfo) FullAddress() string {
	parts := []string{s.Address, s.Ward, s.District, s.City}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}
