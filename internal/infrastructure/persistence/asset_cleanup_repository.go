package persistence

import (
	"context"
	"time"

	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAssetCleanupRepository implements asset.CleanupFailureRepository
type GormAssetCleanupRepository struct {
	db *gorm.DB
}

// NewGormAssetCleanupRepository creates a new GormAssetCleanupRepository
func NewGormAssetCleanupRepository(db *gorm.DB) *GormAssetCleanupRepository {
	return &GormAssetCleanupRepository{db: db}
}

// Record stores a failed deletion
func (r *GormAssetCleanupRepository) Record(ctx context.Context, f *asset.CleanupFailure) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(&models.AssetCleanupFailureModel{
		ID:            f.ID,
		Ref:           f.Ref,
		AggregateType: f.AggregateType,
		AggregateID:   f.AggregateID,
		LastError:     f.LastError,
		CreatedAt:     f.CreatedAt,
		ResolvedAt:    f.ResolvedAt,
	}).Error
}

// FindUnresolved returns up to limit unresolved failures, oldest first
func (r *GormAssetCleanupRepository) FindUnresolved(ctx context.Context, limit int) ([]asset.CleanupFailure, error) {
	var rows []models.AssetCleanupFailureModel
	query := r.db.WithContext(ctx).Where("resolved_at IS NULL").Order("created_at")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]asset.CleanupFailure, len(rows))
	for i, row := range rows {
		out[i] = asset.CleanupFailure{
			ID:            row.ID,
			Ref:           row.Ref,
			AggregateType: row.AggregateType,
			AggregateID:   row.AggregateID,
			LastError:     row.LastError,
			CreatedAt:     row.CreatedAt,
			ResolvedAt:    row.ResolvedAt,
		}
	}
	return out, nil
}

// MarkResolved closes a failure once the object is gone
func (r *GormAssetCleanupRepository) MarkResolved(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.AssetCleanupFailureModel{}).
		Where("id = ?", id).
		Update("resolved_at", at).Error
}

// UpdateError stores the latest error of a retried failure
func (r *GormAssetCleanupRepository) UpdateError(ctx context.Context, id uuid.UUID, lastError string) error {
	return r.db.WithContext(ctx).Model(&models.AssetCleanupFailureModel{}).
		Where("id = ?", id).
		Update("last_error", lastError).Error
}

// Ensure GormAssetCleanupRepository implements asset.CleanupFailureRepository
var _ asset.CleanupFailureRepository = (*GormAssetCleanupRepository)(nil)
