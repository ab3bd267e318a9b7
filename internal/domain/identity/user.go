package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/secureshop/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"  // Registered, email not verified
	UserStatusActive   UserStatus = "active"   // Can sign in
	UserStatusLocked   UserStatus = "locked"   // Too many failed logins
	UserStatusDisabled UserStatus = "disabled" // Disabled by an admin
)

// IsValid reports whether s is a known status
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusPending, UserStatusActive, UserStatusLocked, UserStatusDisabled:
		return true
	}
	return false
}

// Role is the user's authorization level
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Provider identifies how the account authenticates
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
)

// Login lockout policy
const (
	MaxLoginAttempts = 5
	LockDuration     = 15 * time.Minute
)

const bcryptCost = 12

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex     = regexp.MustCompile(`^[0-9]{10}$`)
	hasLetterRegex = regexp.MustCompile(`[a-zA-Z]`)
	hasDigitRegex  = regexp.MustCompile(`[0-9]`)
)

// Domain errors raised by the identity context
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrAccountLocked      = shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked")
	ErrAccountDisabled    = shared.NewDomainError("ACCOUNT_DISABLED", "Account is disabled")
	ErrEmailNotVerified   = shared.NewDomainError("EMAIL_NOT_VERIFIED", "Email address has not been verified")
	ErrEmailTaken         = shared.NewDomainError("EMAIL_TAKEN", "Email is already registered")
	ErrWrongPassword      = shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
)

// User is a shopper or an administrator.
type User struct {
	shared.BaseAggregateRoot
	Email          string
	Name           string
	Phone          string
	AvatarURL      string
	Provider       Provider
	ProviderID     string
	PasswordHash   string
	Role           Role
	Status         UserStatus
	EmailVerified  bool
	LastLoginAt    *time.Time
	FailedAttempts int
	LockedUntil    *time.Time
}

// NewUser registers a local account. It starts pending until the email is verified.
func NewUser(name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Name:              name,
		Provider:          ProviderLocal,
		PasswordHash:      hash,
		Role:              RoleUser,
		Status:            UserStatusPending,
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user))
	return user, nil
}

// NewOAuthUser creates an active, verified account for a federated identity.
func NewOAuthUser(provider Provider, providerID, name, email, avatarURL string) (*User, error) {
	email = NormalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.Split(email, "@")[0]
	}
	user := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Name:              name,
		AvatarURL:         avatarURL,
		Provider:          provider,
		ProviderID:        providerID,
		Role:              RoleUser,
		Status:            UserStatusActive,
		EmailVerified:     true,
	}
	user.AddDomainEvent(NewUserRegisteredEvent(user))
	return user, nil
}

// NormalizeEmail lower-cases and trims an address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LinkProvider attaches a federated identity to an existing account. A
// successful OAuth sign-in proves the address, so a pending account is activated.
func (u *User) LinkProvider(provider Provider, providerID, avatarURL string) {
	if u.Provider == ProviderLocal && u.PasswordHash == "" {
		u.Provider = provider
	}
	u.ProviderID = providerID
	if u.AvatarURL == "" {
		u.AvatarURL = avatarURL
	}
	if u.Status == UserStatusPending {
		u.Status = UserStatusActive
	}
	u.EmailVerified = true
	u.MarkModified()
}

// VerifyEmail marks the address verified and activates a pending account
func (u *User) VerifyEmail() error {
	if u.EmailVerified && u.Status != UserStatusPending {
		return shared.NewDomainError("ALREADY_VERIFIED", "Email is already verified")
	}
	u.EmailVerified = true
	if u.Status == UserStatusPending {
		u.setStatus(UserStatusActive)
	}
	u.MarkModified()
	return nil
}

// UpdateProfile changes the editable profile fields
func (u *User) UpdateProfile(name, phone, avatarURL string) error {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return err
	}
	phone = NormalizePhone(phone)
	if phone != "" && !phoneRegex.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Phone must contain exactly 10 digits")
	}
	if len(avatarURL) > 500 {
		return shared.NewDomainError("INVALID_AVATAR", "Avatar URL cannot exceed 500 characters")
	}
	u.Name = name
	u.Phone = phone
	u.AvatarURL = avatarURL
	u.MarkModified()
	return nil
}

// ChangePassword requires the current password
func (u *User) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return ErrWrongPassword
	}
	return u.SetPassword(next)
}

// SetPassword replaces the password without checking the old one
func (u *User) SetPassword(password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.MarkModified()
	u.AddDomainEvent(NewUserPasswordChangedEvent(u))
	return nil
}

// VerifyPassword compares against the stored hash. OAuth-only accounts
// have no hash and never match.
func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// CheckCanLogin returns the reason the user may not sign in, or nil
func (u *User) CheckCanLogin() error {
	switch {
	case u.Status == UserStatusDisabled:
		return ErrAccountDisabled
	case u.IsLocked():
		return ErrAccountLocked
	case u.Status == UserStatusPending:
		return ErrEmailNotVerified
	}
	return nil
}

// RecordLoginSuccess clears failure counters and an expired lock
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
		u.LockedUntil = nil
	}
	u.MarkModified()
}

// RecordLoginFailure counts a bad password and reports whether the
// account became locked.
func (u *User) RecordLoginFailure() bool {
	if u.Status == UserStatusLocked && !u.IsLocked() {
		// the previous lock ran out, start a fresh count
		u.FailedAttempts = 0
		u.LockedUntil = nil
		u.setStatus(UserStatusActive)
	}
	u.FailedAttempts++
	u.MarkModified()
	if u.FailedAttempts >= MaxLoginAttempts {
		until := time.Now().Add(LockDuration)
		u.LockedUntil = &until
		u.setStatus(UserStatusLocked)
		return true
	}
	return false
}

// IsLocked is true while a lock is in force
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	return u.LockedUntil == nil || time.Now().Before(*u.LockedUntil)
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// SetRole changes the authorization level
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be USER or ADMIN")
	}
	u.Role = role
	u.MarkModified()
	return nil
}

// SetStatus is the admin status override
func (u *User) SetStatus(status UserStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown user status")
	}
	if status != UserStatusLocked {
		u.LockedUntil = nil
		u.FailedAttempts = 0
	}
	u.setStatus(status)
	u.MarkModified()
	return nil
}

// Enable re-activates a disabled or locked account
func (u *User) Enable() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	return u.SetStatus(UserStatusActive)
}

// Disable blocks sign-in until an admin enables the account again
func (u *User) Disable() error {
	if u.Status == UserStatusDisabled {
		return shared.NewDomainError("ALREADY_DISABLED", "User is already disabled")
	}
	return u.SetStatus(UserStatusDisabled)
}

func (u *User) setStatus(status UserStatus) {
	if u.Status == status {
		return
	}
	old := u.Status
	u.Status = status
	u.AddDomainEvent(NewUserStatusChangedEvent(u, old, status))
}

// NormalizePhone strips spaces from a phone number
func NormalizePhone(phone string) string {
	return strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
}

// ValidatePassword enforces 8-128 characters with a letter and a digit
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	if !hasLetterRegex.MatchString(password) || !hasDigitRegex.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func validateName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

// ValidateEmail checks the address format
func ValidateEmail(email string) error {
	return validateEmail(NormalizeEmail(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
