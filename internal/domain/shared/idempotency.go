package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers keys that were already handled. It backs
// outbox event de-duplication and the Idempotency-Key header on order
// placement.
type IdempotencyStore interface {
	// MarkProcessed claims key for ttl. It returns false when the key was
	// already claimed.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed checks whether key has been claimed.
	IsProcessed(ctx context.Context, key string) (bool, error)

	// SetResult stores the outcome of a claimed key.
	SetResult(ctx context.Context, key, result string, ttl time.Duration) error

	// GetResult returns the stored outcome, if any.
	GetResult(ctx context.Context, key string) (string, bool, error)

	// Release drops a claim so the operation can be retried.
	Release(ctx context.Context, key string) error

	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a claimed key is remembered. Default 24h.
	TTL     time.Duration
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
