package cache

import (
	"context"
	"sync"
	"time"

	"github.com/catalogue/backend/internal/domain/shared"
)

// sweepInterval is how often expired keys are purged, checked on write
const sweepInterval = 5 * time.Minute

type record struct {
	result    string
	done      bool
	expiresAt time.Time
}

func (r record) expired(now time.Time) bool {
	return !now.Before(r.expiresAt)
}

// InMemoryIdempotencyStore keeps idempotency keys in process memory. Keys
// do not survive a restart and are not shared between replicas.
type InMemoryIdempotencyStore struct {
	mu        sync.Mutex
	records   map[string]record
	now       func() time.Time
	lastSweep time.Time
}

// NewInMemoryIdempotencyStore creates an empty store
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{
		records:   make(map[string]record),
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

// Reserve claims key for ttl unless an unexpired record holds it
func (s *InMemoryIdempotencyStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.maybeSweep(now)
	if r, ok := s.records[key]; ok && !r.expired(now) {
		return false, nil
	}
	s.records[key] = record{expiresAt: now.Add(ttl)}
	return true, nil
}

// Complete records result for key
func (s *InMemoryIdempotencyStore) Complete(_ context.Context, key, result string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.maybeSweep(now)
	s.records[key] = record{result: result, done: true, expiresAt: now.Add(ttl)}
	return nil
}

// Result returns the recorded result of key
func (s *InMemoryIdempotencyStore) Result(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[key]
	if !ok || !r.done || r.expired(s.now()) {
		return "", false, nil
	}
	return r.result, true, nil
}

// Release drops key
func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

// Close is a no-op; the store holds no background resources
func (s *InMemoryIdempotencyStore) Close() error {
	return nil
}

// Size counts stored keys, expired ones not yet swept included
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// maybeSweep purges expired records at most once per sweepInterval.
// Callers hold mu.
func (s *InMemoryIdempotencyStore) maybeSweep(now time.Time) {
	if now.Sub(s.lastSweep) < sweepInterval {
		return
	}
	s.lastSweep = now
	for key, r := range s.records {
		if r.expired(now) {
			delete(s.records, key)
		}
	}
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
