package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/catalogue/backend/internal/domain/asset"
)

// MemoryStorage keeps assets in process memory. It backs the "local"
// storage provider in development and the HTTP tests.
type MemoryStorage struct {
	BaseURL string

	mu      sync.Mutex
	objects map[string][]byte
}

// NewMemoryStorage creates a new MemoryStorage serving URLs under baseURL
func NewMemoryStorage(baseURL string) *MemoryStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/assets"
	}
	return &MemoryStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

// Ensure MemoryStorage implements asset.Storage
var _ asset.Storage = (*MemoryStorage)(nil)

// Store keeps a copy of f's content under a fresh key
func (s *MemoryStorage) Store(ctx context.Context, f asset.File) (asset.Asset, error) {
	if f.Content == nil {
		return asset.Asset{}, errors.New("file content is required")
	}
	data, err := io.ReadAll(f.Content)
	if err != nil {
		return asset.Asset{}, fmt.Errorf("failed to read upload: %w", err)
	}

	key := objectKey("", f.Name)
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()

	return asset.Asset{URL: s.BaseURL + "/" + key, Ref: key}, nil
}

// Delete drops the object behind ref
func (s *MemoryStorage) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[ref]; !ok {
		return asset.ErrObjectNotFound
	}
	delete(s.objects, ref)
	return nil
}

// Get returns the stored bytes of ref
func (s *MemoryStorage) Get(ref string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[ref]
	return data, ok
}

// Len returns the number of stored objects
func (s *MemoryStorage) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}
