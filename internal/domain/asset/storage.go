package asset

import (
	"context"
	"io"
	"time"

	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// File is an upload handed to Storage
type File struct {
	Name        string
	ContentType string
	Size        int64
	Content     io.Reader
}

// ErrObjectNotFound is returned by Storage.Delete when the ref is unknown.
// Callers releasing assets treat it as success.
var ErrObjectNotFound = shared.NewDomainError(shared.CodeNotFound, "Asset not found")

// Storage is the asset storage collaborator
type Storage interface {
	// Store uploads f and returns its public URL and deletable ref
	Store(ctx context.Context, f File) (Asset, error)
	// Delete removes the object behind ref
	Delete(ctx context.Context, ref string) error
}

// CleanupFailure records a released ref whose remote deletion failed
type CleanupFailure struct {
	ID            uuid.UUID
	Ref           string
	AggregateType string
	AggregateID   uuid.UUID
	LastError     string
	CreatedAt     time.Time
	ResolvedAt    *time.Time
}

// CleanupFailureRepository persists cleanup failures for reconciliation
type CleanupFailureRepository interface {
	Record(ctx context.Context, failure *CleanupFailure) error
	// FindUnresolved returns up to limit unresolved failures, oldest first
	FindUnresolved(ctx context.Context, limit int) ([]CleanupFailure, error)
	MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error
	// UpdateError stores the latest error of a retried failure
	UpdateError(ctx context.Context, id uuid.UUID, lastError string) error
}
