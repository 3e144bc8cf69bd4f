package asset

import (
	"context"
	"time"

	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Store(ctx context.Context, f asset.File) (asset.Asset, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(asset.Asset), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

type MockFailureRepository struct {
	mock.Mock
}

func (m *MockFailureRepository) Record(ctx context.Context, f *asset.CleanupFailure) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

func (m *MockFailureRepository) FindUnresolved(ctx context.Context, limit int) ([]asset.CleanupFailure, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]asset.CleanupFailure), args.Error(1)
}

func (m *MockFailureRepository) MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockFailureRepository) UpdateError(ctx context.Context, id uuid.UUID, lastError string) error {
	args := m.Called(ctx, id, lastError)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type MockCleanupMetrics struct {
	mock.Mock
}

func (m *MockCleanupMetrics) RecordAssetCleanupFailure(ctx context.Context, aggregateType string) {
	m.Called(ctx, aggregateType)
}
