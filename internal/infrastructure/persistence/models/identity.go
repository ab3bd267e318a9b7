package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/identity"
	"github.com/secureshop/backend/internal/domain/shared"
)

// UserModel is the persistence model for identity.User
type UserModel struct {
	AggregateModel
	Email          string              `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name           string              `gorm:"type:varchar(100);not null"`
	Phone          string              `gorm:"type:varchar(20)"`
	AvatarURL      string              `gorm:"type:varchar(500)"`
	Provider       identity.Provider   `gorm:"type:varchar(20);not null;default:local;index:idx_users_provider,priority:1"`
	ProviderID     string              `gorm:"type:varchar(255);index:idx_users_provider,priority:2"`
	PasswordHash   string              `gorm:"type:varchar(255)"`
	Role           identity.Role       `gorm:"type:varchar(20);not null;default:USER;index"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null;default:pending;index"`
	EmailVerified  bool                `gorm:"not null;default:false"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the model to a domain user
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.ToAggregateRoot(),
		Email:             m.Email,
		Name:              m.Name,
		Phone:             m.Phone,
		AvatarURL:         m.AvatarURL,
		Provider:          m.Provider,
		ProviderID:        m.ProviderID,
		PasswordHash:      m.PasswordHash,
		Role:              m.Role,
		Status:            m.Status,
		EmailVerified:     m.EmailVerified,
		LastLoginAt:       m.LastLoginAt,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
	}
}

// FromDomain populates the model from a domain user
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.Name = u.Name
	m.Phone = u.Phone
	m.AvatarURL = u.AvatarURL
	m.Provider = u.Provider
	m.ProviderID = u.ProviderID
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Status = u.Status
	m.EmailVerified = u.EmailVerified
	m.LastLoginAt = u.LastLoginAt
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
}

// UserModelFromDomain creates a model from a domain user
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// AddressModel is the persistence model for identity.Address
type AddressModel struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Phone     string    `gorm:"type:varchar(20);not null"`
	Street    string    `gorm:"type:varchar(255);not null"`
	Ward      string    `gorm:"type:varchar(100);not null"`
	District  string    `gorm:"type:varchar(100);not null"`
	Province  string    `gorm:"type:varchar(100);not null"`
	IsDefault bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the model to a domain address
func (m *AddressModel) ToDomain() *identity.Address {
	return &identity.Address{
		BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		UserID:     m.UserID,
		Name:       m.Name,
		Phone:      m.Phone,
		Street:     m.Street,
		Ward:       m.Ward,
		District:   m.District,
		Province:   m.Province,
		IsDefault:  m.IsDefault,
	}
}

// AddressModelFromDomain creates a model from a domain address
func AddressModelFromDomain(a *identity.Address) *AddressModel {
	m := &AddressModel{
		UserID:    a.UserID,
		Name:      a.Name,
		Phone:     a.Phone,
		Street:    a.Street,
		Ward:      a.Ward,
		District:  a.District,
		Province:  a.Province,
		IsDefault: a.IsDefault,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}
