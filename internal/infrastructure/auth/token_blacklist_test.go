package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()

	t.Run("blacklists by jti", func(t *testing.T) {
		bl := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, bl.AddToBlacklist(ctx, "jti-1", time.Hour))

		ok, err := bl.IsBlacklisted(ctx, "jti-1")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, _ = bl.IsBlacklisted(ctx, "jti-2")
		assert.False(t, ok)
	})

	t.Run("entries expire", func(t *testing.T) {
		bl := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, bl.AddToBlacklist(ctx, "short", time.Millisecond))
		time.Sleep(5 * time.Millisecond)
		ok, _ := bl.IsBlacklisted(ctx, "short")
		assert.False(t, ok)
	})

	t.Run("non-positive ttl is ignored", func(t *testing.T) {
		bl := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, bl.AddToBlacklist(ctx, "gone", 0))
		ok, _ := bl.IsBlacklisted(ctx, "gone")
		assert.False(t, ok)
	})

	t.Run("user invalidation cuts off older tokens", func(t *testing.T) {
		bl := auth.NewInMemoryTokenBlacklist()
		older := time.Now().Add(-time.Hour)

		ok, _ := bl.IsUserTokenInvalidated(ctx, "u1", older)
		assert.False(t, ok)

		require.NoError(t, bl.InvalidateUser(ctx, "u1", time.Hour))
		ok, _ = bl.IsUserTokenInvalidated(ctx, "u1", older)
		assert.True(t, ok)
		ok, _ = bl.IsUserTokenInvalidated(ctx, "u1", time.Now().Add(2*time.Second))
		assert.False(t, ok)
		ok, _ = bl.IsUserTokenInvalidated(ctx, "u2", older)
		assert.False(t, ok)
	})
}

func TestInMemoryVerificationTokens(t *testing.T) {
	ctx := context.Background()
	store := auth.NewInMemoryVerificationTokens()
	userID := uuid.New()

	token, err := store.Issue(ctx, userID, time.Hour)
	require.NoError(t, err)
	assert.Len(t, token, 64)

	got, err := store.Consume(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	_, err = store.Consume(ctx, token)
	assert.ErrorIs(t, err, auth.ErrVerificationTokenInvalid, "tokens are single use")

	expired, err := store.Issue(ctx, userID, -time.Second)
	require.NoError(t, err)
	_, err = store.Consume(ctx, expired)
	assert.ErrorIs(t, err, auth.ErrVerificationTokenInvalid)

	_, err = store.Consume(ctx, "unknown")
	assert.ErrorIs(t, err, auth.ErrVerificationTokenInvalid)
}
