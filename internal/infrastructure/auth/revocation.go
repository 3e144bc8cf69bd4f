package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocation says why a verified token is no longer accepted
type Revocation int

const (
	NotRevoked Revocation = iota
	// TokenRevoked means the token itself was revoked, typically on logout
	TokenRevoked
	// SessionsRevoked means the user signed out everywhere after the token
	// was issued
	SessionsRevoked
)

// Revocations looks up revocations recorded by the auth service. This
// service only reads them.
type Revocations interface {
	Check(ctx context.Context, claims *Claims) (Revocation, error)
}

// RedisRevocations reads revocations from the auth service's Redis keys:
// <prefix>jti:<id> exists while a token is revoked, and <prefix>user:<id>
// holds the unix time of the user's last sign-out-everywhere.
type RedisRevocations struct {
	client *redis.Client
	prefix string
}

// NewRedisRevocations reads revocations through a shared client
func NewRedisRevocations(client *redis.Client) *RedisRevocations {
	return &RedisRevocations{client: client, prefix: "auth:revoked:"}
}

// Check fetches both keys in one round trip
func (r *RedisRevocations) Check(ctx context.Context, claims *Claims) (Revocation, error) {
	keys := []string{r.prefix + "user:" + claims.UserID}
	if claims.ID != "" {
		keys = append(keys, r.prefix+"jti:"+claims.ID)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return NotRevoked, fmt.Errorf("failed to read token revocations: %w", err)
	}

	if len(values) > 1 && values[1] != nil {
		return TokenRevoked, nil
	}
	cutoff, ok := values[0].(string)
	if !ok {
		return NotRevoked, nil
	}
	unix, err := strconv.ParseInt(cutoff, 10, 64)
	if err != nil {
		return NotRevoked, fmt.Errorf("malformed sign-out time %q: %w", cutoff, err)
	}
	if !claims.IssuedAtTime().After(time.Unix(unix, 0)) {
		return SessionsRevoked, nil
	}
	return NotRevoked, nil
}

var _ Revocations = (*RedisRevocations)(nil)

// MemoryRevocations keeps revocations in process memory. It stands in for
// Redis in development, where nothing writes to it unless a test does.
type MemoryRevocations struct {
	mu       sync.RWMutex
	tokens   map[string]time.Time // jti -> revocation expiry
	sessions map[string]time.Time // user id -> sign-out time
	now      func() time.Time
}

// NewMemoryRevocations creates an empty store
func NewMemoryRevocations() *MemoryRevocations {
	return &MemoryRevocations{
		tokens:   make(map[string]time.Time),
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

// RevokeToken revokes jti for ttl
func (m *MemoryRevocations) RevokeToken(jti string, ttl time.Duration) {
	m.mu.Lock()
	m.tokens[jti] = m.now().Add(ttl)
	m.mu.Unlock()
}

// RevokeSessions revokes every token issued to userID up to now
func (m *MemoryRevocations) RevokeSessions(userID string) {
	m.mu.Lock()
	m.sessions[userID] = m.now()
	m.mu.Unlock()
}

// Check implements Revocations
func (m *MemoryRevocations) Check(_ context.Context, claims *Claims) (Revocation, error) {
	if claims == nil {
		return NotRevoked, errors.New("nil claims")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if until, ok := m.tokens[claims.ID]; ok && claims.ID != "" && m.now().Before(until) {
		return TokenRevoked, nil
	}
	if cutoff, ok := m.sessions[claims.UserID]; ok && !claims.IssuedAtTime().After(cutoff) {
		return SessionsRevoked, nil
	}
	return NotRevoked, nil
}

var _ Revocations = (*MemoryRevocations)(nil)
