package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdempotencyStoreFactory_CreateStore(t *testing.T) {
	ctx := context.Background()
	unreachable := func(t *testing.T) *redis.Client {
		client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
		t.Cleanup(func() { _ = client.Close() })
		return client
	}

	t.Run("no redis client uses memory", func(t *testing.T) {
		store, err := NewIdempotencyStoreFactory(nil).CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("no redis client without fallback fails", func(t *testing.T) {
		_, err := NewIdempotencyStoreFactory(nil, WithInMemoryFallback(false)).CreateStore(ctx)
		assert.ErrorIs(t, err, ErrRedisNotConfigured)
	})

	t.Run("unreachable redis falls back to memory", func(t *testing.T) {
		factory := NewIdempotencyStoreFactory(unreachable(t), WithPingTimeout(200*time.Millisecond))
		store, err := factory.CreateStore(ctx)
		require.NoError(t, err)
		defer store.Close()
		assert.IsType(t, &InMemoryIdempotencyStore{}, store)
	})

	t.Run("unreachable redis without fallback fails", func(t *testing.T) {
		factory := NewIdempotencyStoreFactory(unreachable(t),
			WithInMemoryFallback(false),
			WithPingTimeout(200*time.Millisecond),
		)
		_, err := factory.CreateStore(ctx)
		assert.Error(t, err)
	})
}
