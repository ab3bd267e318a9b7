package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/domain/identity"
)

// RegisterRequest is the sign-up form
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
}

// LoginRequest contains credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyEmailRequest carries the token from the verification mail
type VerifyEmailRequest struct {
	Token string `json:"token" form:"token" binding:"required"`
}

// ResendVerificationRequest asks for a new verification mail
type ResendVerificationRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// UpdateProfileRequest changes the caller's profile
type UpdateProfileRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100"`
	Phone     string `json:"phone" binding:"omitempty,max=20"`
	AvatarURL string `json:"avatarUrl" binding:"omitempty,max=500"`
}

// ChangePasswordRequest changes the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8,max=128"`
}

// AuthResult is returned by login, refresh and OAuth sign-in. The refresh
// token travels in a cookie and is never serialized into the body.
type AuthResult struct {
	AccessToken      string        `json:"accessToken"`
	ExpiresIn        int64         `json:"expiresIn"`
	TokenType        string        `json:"tokenType"`
	User             *UserResponse `json:"user,omitempty"`
	RefreshToken     string        `json:"-"`
	RefreshExpiresAt time.Time     `json:"-"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	AvatarURL     string     `json:"avatarUrl"`
	Provider      string     `json:"provider"`
	Role          string     `json:"role"`
	Status        string     `json:"status"`
	EmailVerified bool       `json:"emailVerified"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ToUserResponse converts a domain user
func ToUserResponse(u *identity.User) *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		Name:          u.Name,
		Phone:         u.Phone,
		AvatarURL:     u.AvatarURL,
		Provider:      string(u.Provider),
		Role:          string(u.Role),
		Status:        string(u.Status),
		EmailVerified: u.EmailVerified,
		LastLoginAt:   u.LastLoginAt,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
}

// AddressRequest creates or replaces an address book entry
type AddressRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Phone     string `json:"phone" binding:"required,max=20"`
	Street    string `json:"street" binding:"required,max=255"`
	Ward      string `json:"ward" binding:"required,max=100"`
	District  string `json:"district" binding:"required,max=100"`
	Province  string `json:"province" binding:"required,max=100"`
	IsDefault bool   `json:"isDefault"`
}

func (r AddressRequest) toInput() identity.AddressInput {
	return identity.AddressInput{
		Name:      r.Name,
		Phone:     r.Phone,
		Street:    r.Street,
		Ward:      r.Ward,
		District:  r.District,
		Province:  r.Province,
		IsDefault: r.IsDefault,
	}
}

// AddressResponse is an address book entry
type AddressResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Street    string    `json:"street"`
	Ward      string    `json:"ward"`
	District  string    `json:"district"`
	Province  string    `json:"province"`
	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToAddressResponse converts a domain address
func ToAddressResponse(a *identity.Address) AddressResponse {
	return AddressResponse{
		ID:        a.ID,
		Name:      a.Name,
		Phone:     a.Phone,
		Street:    a.Street,
		Ward:      a.Ward,
		District:  a.District,
		Province:  a.Province,
		IsDefault: a.IsDefault,
		CreatedAt: a.CreatedAt,
	}
}

// UserListFilter is the admin user search
type UserListFilter struct {
	Search   string `form:"search"`
	Role     string `form:"role" binding:"omitempty,oneof=USER ADMIN"`
	Status   string `form:"status" binding:"omitempty,oneof=pending active locked disabled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CreateUserRequest is the admin form for a new account
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
	Role     string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
}

// UpdateUserRequest changes role and status. Nil fields are left alone.
type UpdateUserRequest struct {
	Role   *string `json:"role" binding:"omitempty,oneof=USER ADMIN"`
	Status *string `json:"status" binding:"omitempty,oneof=pending active locked disabled"`
}
