package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/secureshop/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(maxRefresh int) *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "secureshop-test",
		MaxRefreshCount:        maxRefresh,
	})
}

func newTestSubject() TokenSubject {
	return TokenSubject{UserID: uuid.New(), Email: "an@example.com", Role: "USER"}
}

func TestNewJWTService_RefreshSecretFallsBack(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "only-secret"})
	assert.Equal(t, []byte("only-secret"), svc.refreshSecret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService(3)
	sub := newTestSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))
	assert.InDelta(t, 900, pair.ExpiresIn(), 1)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sub.UserID.String(), claims.UserID)
	assert.Equal(t, "an@example.com", claims.Email)
	assert.False(t, claims.IsAdmin())
	id, err := claims.UserUUID()
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, id)
	assert.NotEmpty(t, claims.ID)

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refresh.Role)
	assert.Zero(t, refresh.RefreshCount)
}

func TestValidate_Rejections(t *testing.T) {
	svc := newTestJWTService(3)
	pair, err := svc.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	expired := NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: -time.Minute,
		Issuer:                "secureshop-test",
	})
	stale, err := expired.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	other := NewJWTService(config.JWTConfig{Secret: "another-secret", AccessTokenExpiration: time.Minute, Issuer: "secureshop-test"})
	foreign, err := other.GenerateTokenPair(newTestSubject())
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "x", TokenType: TokenTypeAccess})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		check func() error
		want  error
	}{
		{"garbage", func() error { _, err := svc.ValidateAccessToken("not.a.jwt"); return err }, ErrInvalidToken},
		{"expired", func() error { _, err := svc.ValidateAccessToken(stale.AccessToken); return err }, ErrExpiredToken},
		{"wrong secret", func() error { _, err := svc.ValidateAccessToken(foreign.AccessToken); return err }, ErrInvalidToken},
		{"alg none", func() error { _, err := svc.ValidateAccessToken(unsigned); return err }, ErrInvalidToken},
		{"refresh used as access", func() error {
			// both secrets are equal here so only the type check can catch it
			same := NewJWTService(config.JWTConfig{Secret: "s", AccessTokenExpiration: time.Minute, RefreshTokenExpiration: time.Hour, Issuer: "i"})
			p, _ := same.GenerateTokenPair(newTestSubject())
			_, err := same.ValidateAccessToken(p.RefreshToken)
			return err
		}, ErrInvalidTokenType},
		{"access used as refresh", func() error { _, err := svc.ValidateRefreshToken(pair.AccessToken); return err }, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.check(), tt.want)
		})
	}
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService(2)
	sub := newTestSubject()

	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)

	for want := 1; want <= 2; want++ {
		claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		pair, err = svc.RefreshTokenPair(claims, sub)
		require.NoError(t, err)

		next, err := svc.ValidateRefreshToken(pair.RefreshToken)
		require.NoError(t, err)
		assert.Equal(t, want, next.RefreshCount)
	}

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	_, err = svc.RefreshTokenPair(claims, sub)
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)

	t.Run("subject must match", func(t *testing.T) {
		fresh, err := svc.GenerateTokenPair(sub)
		require.NoError(t, err)
		claims, err := svc.ValidateRefreshToken(fresh.RefreshToken)
		require.NoError(t, err)
		_, err = svc.RefreshTokenPair(claims, newTestSubject())
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("role changes apply", func(t *testing.T) {
		fresh, err := svc.GenerateTokenPair(sub)
		require.NoError(t, err)
		claims, err := svc.ValidateRefreshToken(fresh.RefreshToken)
		require.NoError(t, err)
		promoted := sub
		promoted.Role = "ADMIN"
		next, err := svc.RefreshTokenPair(claims, promoted)
		require.NoError(t, err)
		access, err := svc.ValidateAccessToken(next.AccessToken)
		require.NoError(t, err)
		assert.True(t, access.IsAdmin())
	})
}

func TestClaims_RemainingTTL(t *testing.T) {
	assert.Zero(t, (&Claims{}).RemainingTTL())
	past := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour))}}
	assert.Zero(t, past.RemainingTTL())
	future := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	assert.InDelta(t, time.Hour.Seconds(), future.RemainingTTL().Seconds(), 2)
	assert.True(t, (&Claims{}).IssuedAtTime().IsZero())
}
