package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByEmail matches the normalized (lower-cased) address
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByProvider(ctx context.Context, provider Provider, providerID string) (*User, error)
	FindAll(ctx context.Context, filter UserFilter) ([]*User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status UserStatus) (int64, error)
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	// Search matches name, email or phone
	Search   string
	Role     *Role
	Status   *UserStatus
	Page     int
	PageSize int
}

// AddressRepository persists address book entries
type AddressRepository interface {
	Create(ctx context.Context, addr *Address) error
	Update(ctx context.Context, addr *Address) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Address, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Address, error)
	// ClearDefault unsets the default flag on every address of the user
	// except keep.
	ClearDefault(ctx context.Context, userID uuid.UUID, keep uuid.UUID) error
}
