package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrRedisNotConfigured is returned when Redis is required but absent
var ErrRedisNotConfigured = errors.New("redis is not configured")

const defaultPingTimeout = 5 * time.Second

// IdempotencyStoreFactory picks the idempotency store for the process:
// Redis when a client is configured and reachable, memory otherwise.
type IdempotencyStoreFactory struct {
	client        *redis.Client
	logger        *zap.Logger
	allowFallback bool
	pingTimeout   time.Duration
}

// IdempotencyStoreFactoryOption configures the factory
type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether a missing or unreachable Redis
// degrades to the in-memory store. Defaults to true.
func WithInMemoryFallback(allow bool) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.allowFallback = allow
	}
}

// WithPingTimeout bounds the reachability check in CreateStore
func WithPingTimeout(d time.Duration) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		if d > 0 {
			f.pingTimeout = d
		}
	}
}

// NewIdempotencyStoreFactory creates a factory over client. A nil client
// means Redis is not configured.
func NewIdempotencyStoreFactory(client *redis.Client, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		client:        client,
		logger:        zap.NewNop(),
		allowFallback: true,
		pingTimeout:   defaultPingTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns the Redis store when the client answers a ping.
// In-memory stores do not share state across instances, so a retried
// enquiry that lands on another instance is submitted twice.
func (f *IdempotencyStoreFactory) CreateStore(ctx context.Context) (shared.IdempotencyStore, error) {
	if f.client == nil {
		if !f.allowFallback {
			return nil, ErrRedisNotConfigured
		}
		f.logger.Info("Redis not configured, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, f.pingTimeout)
	defer cancel()
	err := f.client.Ping(pingCtx).Err()
	if err == nil {
		f.logger.Info("Using Redis idempotency store")
		return NewRedisIdempotencyStore(f.client, ""), nil
	}

	if !f.allowFallback {
		return nil, fmt.Errorf("redis required for idempotency but unavailable: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency store",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}
