package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("creates pending local user", func(t *testing.T) {
		user, err := NewUser("Nguyen Van A", "  Buyer@Example.COM ", "Password123")

		require.NoError(t, err)
		assert.Equal(t, "buyer@example.com", user.Email)
		assert.Equal(t, UserStatusPending, user.Status)
		assert.Equal(t, RoleUser, user.Role)
		assert.Equal(t, ProviderLocal, user.Provider)
		assert.False(t, user.EmailVerified)
		assert.True(t, user.VerifyPassword("Password123"))

		events := user.GetDomainEvents()
		require.Len(t, events, 1)
		_, ok := events[0].(*UserRegisteredEvent)
		assert.True(t, ok)
	})

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		want     string
	}{
		{"empty name", "", "a@b.co", "Password123", "Name cannot be empty"},
		{"bad email", "A", "not-an-email", "Password123", "Invalid email format"},
		{"short password", "A", "a@b.co", "Pass1", "at least 8 characters"},
		{"no digit", "A", "a@b.co", "Passwordxx", "letter and one number"},
		{"no letter", "A", "a@b.co", "12345678", "letter and one number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.userName, tt.email, tt.password)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidatePassword_Length(t *testing.T) {
	long := make([]byte, 129)
	for i := range long {
		long[i] = 'a'
	}
	long[0] = '1'
	assert.Error(t, ValidatePassword(string(long)))
	assert.NoError(t, ValidatePassword(string(long[:128])))
}

func TestUser_VerifyEmail(t *testing.T) {
	user, err := NewUser("A", "a@b.co", "Password123")
	require.NoError(t, err)
	user.ClearDomainEvents()

	require.NoError(t, user.VerifyEmail())
	assert.Equal(t, UserStatusActive, user.Status)
	assert.True(t, user.EmailVerified)
	assert.Len(t, user.GetDomainEvents(), 1)

	assert.Error(t, user.VerifyEmail())
}

func TestUser_CheckCanLogin(t *testing.T) {
	user, err := NewUser("A", "a@b.co", "Password123")
	require.NoError(t, err)

	assert.True(t, errors.Is(user.CheckCanLogin(), ErrEmailNotVerified))

	require.NoError(t, user.VerifyEmail())
	assert.NoError(t, user.CheckCanLogin())

	require.NoError(t, user.Disable())
	assert.True(t, errors.Is(user.CheckCanLogin(), ErrAccountDisabled))
}

func TestUser_RecordLoginFailure(t *testing.T) {
	user, err := NewUser("A", "a@b.co", "Password123")
	require.NoError(t, err)
	require.NoError(t, user.VerifyEmail())

	for i := 1; i < MaxLoginAttempts; i++ {
		assert.False(t, user.RecordLoginFailure())
	}
	assert.True(t, user.RecordLoginFailure())
	assert.True(t, user.IsLocked())
	require.NotNil(t, user.LockedUntil)
	assert.WithinDuration(t, time.Now().Add(LockDuration), *user.LockedUntil, time.Second)
	assert.True(t, errors.Is(user.CheckCanLogin(), ErrAccountLocked))

	t.Run("expired lock allows login again", func(t *testing.T) {
		past := time.Now().Add(-time.Minute)
		user.LockedUntil = &past
		assert.False(t, user.IsLocked())
		assert.NoError(t, user.CheckCanLogin())

		user.RecordLoginSuccess()
		assert.Equal(t, UserStatusActive, user.Status)
		assert.Zero(t, user.FailedAttempts)
		assert.Nil(t, user.LockedUntil)
	})
}

func TestUser_RecordLoginFailure_AfterLockExpires(t *testing.T) {
	user, err := NewUser("A", "a@b.co", "Password123")
	require.NoError(t, err)
	require.NoError(t, user.VerifyEmail())
	for i := 0; i < MaxLoginAttempts; i++ {
		user.RecordLoginFailure()
	}
	require.True(t, user.IsLocked())

	past := time.Now().Add(-time.Minute)
	user.LockedUntil = &past
	require.NoError(t, user.CheckCanLogin())

	assert.False(t, user.RecordLoginFailure(), "one miss after the lock ran out must not relock")
	assert.Equal(t, 1, user.FailedAttempts)
	assert.Equal(t, UserStatusActive, user.Status)
	assert.Nil(t, user.LockedUntil)
	assert.False(t, user.IsLocked())

	for i := 1; i < MaxLoginAttempts-1; i++ {
		assert.False(t, user.RecordLoginFailure())
	}
	assert.True(t, user.RecordLoginFailure(), "a full new run of failures locks again")
	assert.True(t, user.IsLocked())
}

func TestUser_ChangePassword(t *testing.T) {
	user, err := NewUser("A", "a@b.co", "Password123")
	require.NoError(t, err)

	err = user.ChangePassword("wrong", "NewPassword1")
	assert.True(t, errors.Is(err, ErrWrongPassword))

	require.NoError(t, user.ChangePassword("Password123", "NewPassword1"))
	assert.True(t, user.VerifyPassword("NewPassword1"))
	assert.False(t, user.VerifyPassword("Password123"))
}

func TestUser_UpdateProfile(t *testing.T) {
	user, err := NewUser("A", "a@b.co", "Password123")
	require.NoError(t, err)
	version := user.Version

	require.NoError(t, user.UpdateProfile("Tran Thi B", "090 123 4567", "https://cdn/a.png"))
	assert.Equal(t, "0901234567", user.Phone)
	assert.Equal(t, version+1, user.Version)

	assert.Error(t, user.UpdateProfile("B", "12345", ""))
}

func TestNewOAuthUser(t *testing.T) {
	user, err := NewOAuthUser(ProviderGoogle, "g-123", "", "Shopper@Gmail.com", "https://pic")
	require.NoError(t, err)
	assert.Equal(t, "shopper", user.Name)
	assert.Equal(t, UserStatusActive, user.Status)
	assert.True(t, user.EmailVerified)
	assert.False(t, user.VerifyPassword(""))
}

func TestUser_LinkProvider(t *testing.T) {
	user, err := NewUser("A", "a@b.co", "Password123")
	require.NoError(t, err)

	user.LinkProvider(ProviderGoogle, "g-1", "https://pic")
	assert.Equal(t, UserStatusActive, user.Status)
	assert.Equal(t, ProviderLocal, user.Provider)
	assert.Equal(t, "g-1", user.ProviderID)
}

func TestUser_SetRoleAndStatus(t *testing.T) {
	user, err := NewUser("A", "a@b.co", "Password123")
	require.NoError(t, err)

	require.NoError(t, user.SetRole(RoleAdmin))
	assert.True(t, user.IsAdmin())
	assert.Error(t, user.SetRole("ROOT"))

	assert.Error(t, user.SetStatus("gone"))
	require.NoError(t, user.SetStatus(UserStatusActive))
	assert.Error(t, user.Enable())
}

func TestNewAddress(t *testing.T) {
	userID := uuid.New()
	in := AddressInput{
		Name:     "Le Van C",
		Phone:    "0912 345 678",
		Street:   "12 Nguyen Hue",
		Ward:     "Ben Nghe",
		District: "Quan 1",
		Province: "Hồ Chí Minh",
	}

	addr, err := NewAddress(userID, in)
	require.NoError(t, err)
	assert.Equal(t, "0912345678", addr.Phone)
	assert.True(t, addr.OwnedBy(userID))
	assert.False(t, addr.OwnedBy(uuid.New()))

	in.Ward = " "
	_, err = NewAddress(userID, in)
	assert.Error(t, err)
}
