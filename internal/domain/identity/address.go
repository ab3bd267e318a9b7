package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/shared"
)

// Address is an entry in a user's address book.
type Address struct {
	shared.BaseEntity
	UserID    uuid.UUID
	Name      string
	Phone     string
	Street    string
	Ward      string
	District  string
	Province  string
	IsDefault bool
}

// AddressInput carries the editable fields of an address
type AddressInput struct {
	Name      string
	Phone     string
	Street    string
	Ward      string
	District  string
	Province  string
	IsDefault bool
}

// NewAddress validates input and creates an address owned by userID
func NewAddress(userID uuid.UUID, in AddressInput) (*Address, error) {
	addr := &Address{BaseEntity: shared.NewBaseEntity(), UserID: userID}
	if err := addr.Apply(in); err != nil {
		return nil, err
	}
	return addr, nil
}

// Apply overwrites the editable fields after validation
func (a *Address) Apply(in AddressInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = NormalizePhone(in.Phone)
	in.Street = strings.TrimSpace(in.Street)
	in.Ward = strings.TrimSpace(in.Ward)
	in.District = strings.TrimSpace(in.District)
	in.Province = strings.TrimSpace(in.Province)

	switch {
	case in.Name == "":
		return shared.NewDomainError("INVALID_ADDRESS", "Recipient name is required")
	case !phoneRegex.MatchString(in.Phone):
		return shared.NewDomainError("INVALID_PHONE", "Phone must contain exactly 10 digits")
	case in.Street == "", in.Ward == "", in.District == "", in.Province == "":
		return shared.NewDomainError("INVALID_ADDRESS", "Street, ward, district and province are required")
	}

	a.Name = in.Name
	a.Phone = in.Phone
	a.Street = in.Street
	a.Ward = in.Ward
	a.District = in.District
	a.Province = in.Province
	a.IsDefault = in.IsDefault
	a.Touch()
	return nil
}

// OwnedBy reports whether the address belongs to userID
func (a *Address) OwnedBy(userID uuid.UUID) bool {
	return a.UserID == userID
}
