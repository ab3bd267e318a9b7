package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/identity"
	"github.com/secureshop/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Create inserts a new user
func (r *GormUserRepository) Create(ctx context.Context, user *identity.User) error {
	return translateError(conn(ctx, r.db).Create(models.UserModelFromDomain(user)).Error)
}

// Update saves the user with optimistic locking
func (r *GormUserRepository) Update(ctx context.Context, user *identity.User) error {
	return updateVersioned(conn(ctx, r.db), models.UserModelFromDomain(user), user.ID, user.Version)
}

// Delete removes a user
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(conn(ctx, r.db), &models.UserModel{}, id)
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by normalized email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	var model models.UserModel
	if err := conn(ctx, r.db).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByProvider finds a user linked to an external identity
func (r *GormUserRepository) FindByProvider(ctx context.Context, provider identity.Provider, providerID string) (*identity.User, error) {
	var model models.UserModel
	if err := conn(ctx, r.db).
		Where("provider = ? AND provider_id = ?", provider, providerID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists users matching the filter with the total count
func (r *GormUserRepository) FindAll(ctx context.Context, filter identity.UserFilter) ([]*identity.User, int64, error) {
	query := conn(ctx, r.db).Model(&models.UserModel{})
	query = search(query, filter.Search, "name", "email", "phone")
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.UserModel
	if err := paginate(query.Order("created_at DESC"), filter.Page, filter.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	users := make([]*identity.User, len(rows))
	for i := range rows {
		users[i] = rows[i].ToDomain()
	}
	return users, total, nil
}

// ExistsByEmail checks if a normalized email is registered
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists(conn(ctx, r.db).Model(&models.UserModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))))
}

// Count returns the number of users
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.UserModel{}).Count(&count).Error
	return count, err
}

// CountByStatus returns the number of users with status
func (r *GormUserRepository) CountByStatus(ctx context.Context, status identity.UserStatus) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&models.UserModel{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

var _ identity.UserRepository = (*GormUserRepository)(nil)

// GormAddressRepository implements identity.AddressRepository using GORM
type GormAddressRepository struct {
	db *gorm.DB
}

// NewGormAddressRepository creates a new GormAddressRepository
func NewGormAddressRepository(db *gorm.DB) *GormAddressRepository {
	return &GormAddressRepository{db: db}
}

// Create inserts an address
func (r *GormAddressRepository) Create(ctx context.Context, addr *identity.Address) error {
	return translateError(conn(ctx, r.db).Create(models.AddressModelFromDomain(addr)).Error)
}

// Update saves an address
func (r *GormAddressRepository) Update(ctx context.Context, addr *identity.Address) error {
	return translateError(conn(ctx, r.db).Save(models.AddressModelFromDomain(addr)).Error)
}

// Delete removes an address
func (r *GormAddressRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID(conn(ctx, r.db), &models.AddressModel{}, id)
}

// FindByID finds an address by ID
func (r *GormAddressRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Address, error) {
	var model models.AddressModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUser lists the address book of a user, default first
func (r *GormAddressRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*identity.Address, error) {
	var rows []models.AddressModel
	if err := conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*identity.Address, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// ClearDefault unsets the default flag on every other address of the user
func (r *GormAddressRepository) ClearDefault(ctx context.Context, userID uuid.UUID, keep uuid.UUID) error {
	return conn(ctx, r.db).Model(&models.AddressModel{}).
		Where("user_id = ? AND id <> ? AND is_default = ?", userID, keep, true).
		Update("is_default", false).Error
}

var _ identity.AddressRepository = (*GormAddressRepository)(nil)
