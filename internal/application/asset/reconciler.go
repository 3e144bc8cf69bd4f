package asset

import (
	"context"
	"errors"
	"time"

	"github.com/catalogue/backend/internal/domain/asset"
	"go.uber.org/zap"
)

// ReconcileResult summarises one reconciliation pass
type ReconcileResult struct {
	Attempted int `json:"attempted"`
	Resolved  int `json:"resolved"`
	Failed    int `json:"failed"`
}

// Reconciler retries deletions recorded by the CleanupHandler
type Reconciler struct {
	storage  asset.Storage
	failures asset.CleanupFailureRepository
	logger   *zap.Logger
}

// NewReconciler creates a Reconciler
func NewReconciler(storage asset.Storage, failures asset.CleanupFailureRepository, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{storage: storage, failures: failures, logger: logger}
}

// Run retries up to batchSize unresolved failures
func (r *Reconciler) Run(ctx context.Context, batchSize int) (ReconcileResult, error) {
	pending, err := r.failures.FindUnresolved(ctx, batchSize)
	if err != nil {
		return ReconcileResult{}, err
	}

	var result ReconcileResult
	for _, f := range pending {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		result.Attempted++
		err := r.storage.Delete(ctx, f.Ref)
		if err != nil && !errors.Is(err, asset.ErrObjectNotFound) {
			result.Failed++
			if upErr := r.failures.UpdateError(ctx, f.ID, err.Error()); upErr != nil {
				r.logger.Error("failed to update asset cleanup failure", zap.String("ref", f.Ref), zap.Error(upErr))
			}
			continue
		}
		if err := r.failures.MarkResolved(ctx, f.ID, time.Now()); err != nil {
			return result, err
		}
		result.Resolved++
	}

	if result.Attempted > 0 {
		r.logger.Info("asset cleanup reconciled",
			zap.Int("attempted", result.Attempted),
			zap.Int("resolved", result.Resolved),
			zap.Int("failed", result.Failed),
		)
	}
	return result, nil
}
