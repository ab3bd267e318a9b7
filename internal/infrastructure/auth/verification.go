package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrVerificationTokenInvalid covers unknown, used and expired tokens alike
var ErrVerificationTokenInvalid = errors.New("verification token is invalid or expired")

// VerificationTokens issues single-use tokens that point at one id, such as
// the user behind an email verification link or the order behind a
// confirmation link
type VerificationTokens interface {
	Issue(ctx context.Context, id uuid.UUID, ttl time.Duration) (string, error)
	// Consume returns the id the token was issued for and burns it
	Consume(ctx context.Context, token string) (uuid.UUID, error)
}

// Key prefixes, one per link type
const (
	EmailVerificationPrefix = "verify:email:"
	OrderConfirmationPrefix = "order_confirm_token:"
)

func newVerificationToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate verification token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// hashToken is the stored form of a token; a leaked key set cannot be
// replayed as links
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// RedisVerificationTokens stores hashed tokens with a TTL and consumes them
// with GETDEL
type RedisVerificationTokens struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisVerificationTokens creates the email verification token store
func NewRedisVerificationTokens(client redis.UniversalClient) *RedisVerificationTokens {
	return NewRedisTokenStore(client, EmailVerificationPrefix)
}

// NewRedisTokenStore creates a token store whose keys start with prefix
func NewRedisTokenStore(client redis.UniversalClient, prefix string) *RedisVerificationTokens {
	return &RedisVerificationTokens{client: client, prefix: prefix}
}

func (s *RedisVerificationTokens) Issue(ctx context.Context, id uuid.UUID, ttl time.Duration) (string, error) {
	token, err := newVerificationToken()
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.prefix+hashToken(token), id.String(), ttl).Err(); err != nil {
		return "", fmt.Errorf("store verification token: %w", err)
	}
	return token, nil
}

func (s *RedisVerificationTokens) Consume(ctx context.Context, token string) (uuid.UUID, error) {
	v, err := s.client.GetDel(ctx, s.prefix+hashToken(token)).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrVerificationTokenInvalid
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("consume verification token: %w", err)
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, ErrVerificationTokenInvalid
	}
	return id, nil
}

type pendingVerification struct {
	id        uuid.UUID
	expiresAt time.Time
}

// InMemoryVerificationTokens is the single-instance twin used without Redis
type InMemoryVerificationTokens struct {
	mu     sync.Mutex
	tokens map[string]pendingVerification
}

// NewInMemoryVerificationTokens creates an empty token store
func NewInMemoryVerificationTokens() *InMemoryVerificationTokens {
	return &InMemoryVerificationTokens{tokens: make(map[string]pendingVerification)}
}

func (s *InMemoryVerificationTokens) Issue(_ context.Context, id uuid.UUID, ttl time.Duration) (string, error) {
	token, err := newVerificationToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[hashToken(token)] = pendingVerification{id: id, expiresAt: time.Now().Add(ttl)}
	return token, nil
}

func (s *InMemoryVerificationTokens) Consume(_ context.Context, token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := hashToken(token)
	p, ok := s.tokens[key]
	if !ok {
		return uuid.Nil, ErrVerificationTokenInvalid
	}
	delete(s.tokens, key)
	if time.Now().After(p.expiresAt) {
		return uuid.Nil, ErrVerificationTokenInvalid
	}
	return p.id, nil
}

var (
	_ VerificationTokens = (*RedisVerificationTokens)(nil)
	_ VerificationTokens = (*InMemoryVerificationTokens)(nil)
)
