package enquiry

import (
	"context"
	"sync"
	"time"

	"github.com/catalogue/backend/internal/domain/cart"
	"github.com/catalogue/backend/internal/domain/catalog"
	"github.com/catalogue/backend/internal/domain/enquiry"
	"github.com/catalogue/backend/internal/domain/identity"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
	catalog.ProductRepository
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

// MockUserDirectory is a mock implementation of UserDirectory
type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserDirectory) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserDirectory) FindAll(ctx context.Context) ([]identity.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]identity.User), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Complete(ctx context.Context, key, result string, ttl time.Duration) error {
	args := m.Called(ctx, key, result, ttl)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Result(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return nil
}

// memoryEnquiries is an in-memory enquiry.Repository
type memoryEnquiries struct {
	mu        sync.Mutex
	items     []enquiry.Enquiry
	createErr error
}

func (r *memoryEnquiries) Create(_ context.Context, e *enquiry.Enquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.items = append(r.items, *e)
	return nil
}

func (r *memoryEnquiries) FindByID(_ context.Context, id uuid.UUID) (*enquiry.Enquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			e := r.items[i]
			return &e, nil
		}
	}
	return nil, shared.NotFoundf("Enquiry not found")
}

func (r *memoryEnquiries) FindAll(_ context.Context) ([]enquiry.Enquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]enquiry.Enquiry, 0, len(r.items))
	for i := len(r.items) - 1; i >= 0; i-- {
		out = append(out, r.items[i])
	}
	return out, nil
}

func (r *memoryEnquiries) UpdateStatus(_ context.Context, id uuid.UUID, status enquiry.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Status = status
			return nil
		}
	}
	return shared.NotFoundf("Enquiry not found")
}

// memoryCarts is an in-memory cart.Repository
type memoryCarts struct {
	mu       sync.Mutex
	carts    map[uuid.UUID]*cart.Cart
	clearErr error
}

func newMemoryCarts() *memoryCarts {
	return &memoryCarts{carts: make(map[uuid.UUID]*cart.Cart)}
}

func (r *memoryCarts) FindByUserID(_ context.Context, userID uuid.UUID) (*cart.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	cp := *c
	cp.Items = append([]cart.Item(nil), c.Items...)
	return &cp, nil
}

func (r *memoryCarts) AddItem(_ context.Context, userID, productID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carts[userID]
	if !ok {
		c = cart.NewCart(userID)
		r.carts[userID] = c
	}
	return c.Add(productID)
}

func (r *memoryCarts) RemoveItem(_ context.Context, userID, productID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carts[userID]; ok {
		c.Remove(productID)
	}
	return nil
}

func (r *memoryCarts) Clear(_ context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.clearErr != nil {
		return r.clearErr
	}
	if c, ok := r.carts[userID]; ok {
		c.Items = []cart.Item{}
	}
	return nil
}

// countingMetrics records created enquiries
type countingMetrics struct {
	created int
}

func (m *countingMetrics) RecordEnquiryCreated(_ context.Context, _ int) {
	m.created++
}
