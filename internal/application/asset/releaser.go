// Package asset coordinates the asset storage collaborator: uploads that
// must complete before a record is written, and best-effort release of
// assets a record no longer references.
package asset

import (
	"context"
	"fmt"

	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/catalogue/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Releaser hands released refs to the asynchronous cleanup handler
type Releaser struct {
	publisher shared.EventPublisher
	logger    *zap.Logger
}

// NewReleaser creates a Releaser publishing on publisher
func NewReleaser(publisher shared.EventPublisher, logger *zap.Logger) *Releaser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Releaser{publisher: publisher, logger: logger}
}

// Release publishes an asset.ReleasedEvent for refs. It must be called after
// the owning record change is committed. Publishing failures are logged and
// never returned.
func (r *Releaser) Release(ctx context.Context, aggType string, aggID uuid.UUID, refs ...string) {
	event := asset.NewReleasedEvent(aggType, aggID, refs...)
	if len(event.Refs) == 0 || r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("failed to publish asset release",
			zap.String("aggregate_type", aggType),
			zap.String("aggregate_id", aggID.String()),
			zap.Strings("refs", event.Refs),
			zap.Error(err),
		)
	}
}

// Uploader stores files that a record cannot be written without
type Uploader struct {
	storage  asset.Storage
	releaser *Releaser
}

// NewUploader creates an Uploader
func NewUploader(storage asset.Storage, releaser *Releaser) *Uploader {
	return &Uploader{storage: storage, releaser: releaser}
}

// Upload stores one file. Storage failures become DEPENDENCY_FAILURE errors.
func (u *Uploader) Upload(ctx context.Context, f asset.File) (asset.Asset, error) {
	a, err := u.storage.Store(ctx, f)
	if err != nil {
		return asset.Asset{}, shared.WrapDomainError(shared.CodeDependencyFailure,
			fmt.Sprintf("Failed to upload %s", displayName(f)), err)
	}
	return a, nil
}

// UploadAll stores files in order. When one upload fails, the files already
// stored are released and the failure is returned.
func (u *Uploader) UploadAll(ctx context.Context, aggType string, aggID uuid.UUID, files []asset.File) ([]asset.Asset, error) {
	out := make([]asset.Asset, 0, len(files))
	for _, f := range files {
		a, err := u.Upload(ctx, f)
		if err != nil {
			u.Discard(ctx, aggType, aggID, out...)
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Discard releases assets that were uploaded for a record that was never
// written
func (u *Uploader) Discard(ctx context.Context, aggType string, aggID uuid.UUID, assets ...asset.Asset) {
	if u.releaser == nil {
		return
	}
	u.releaser.Release(ctx, aggType, aggID, asset.Refs(assets...)...)
}

func displayName(f asset.File) string {
	if f.Name == "" {
		return "file"
	}
	return f.Name
}
