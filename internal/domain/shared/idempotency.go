package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers client supplied request keys so that a retried
// request replays the first outcome instead of repeating its side effects.
type IdempotencyStore interface {
	// Reserve claims key for ttl. It returns true if the key was free,
	// false if another request already holds or completed it.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Complete records the result of a reserved key
	Complete(ctx context.Context, key, result string, ttl time.Duration) error

	// Result returns the recorded result for key. done is false while the
	// key is only reserved or when it does not exist.
	Result(ctx context.Context, key string) (result string, done bool, err error)

	// Release drops a reservation so the request can be retried
	Release(ctx context.Context, key string) error

	// Close closes the store and releases resources
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is how long a completed key replays its result
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
