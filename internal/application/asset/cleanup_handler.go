package asset

import (
	"context"
	"errors"
	"time"

	"github.com/catalogue/backend/internal/domain/asset"
	"github.com/catalogue/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CleanupMetrics records cleanup outcomes
type CleanupMetrics interface {
	RecordAssetCleanupFailure(ctx context.Context, aggregateType string)
}

// CleanupHandler deletes released assets from storage. Each ref is tried
// once; failures are recorded for the reconciler and never propagated back
// to the mutation that released them.
type CleanupHandler struct {
	storage  asset.Storage
	failures asset.CleanupFailureRepository
	metrics  CleanupMetrics
	logger   *zap.Logger
}

// NewCleanupHandler creates a CleanupHandler. metrics may be nil.
func NewCleanupHandler(storage asset.Storage, failures asset.CleanupFailureRepository, metrics CleanupMetrics, logger *zap.Logger) *CleanupHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CleanupHandler{storage: storage, failures: failures, metrics: metrics, logger: logger}
}

// EventTypes returns the event types this handler processes
func (h *CleanupHandler) EventTypes() []string {
	return []string{asset.EventTypeAssetsReleased}
}

// Handle deletes every ref of an asset.ReleasedEvent
func (h *CleanupHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	released, ok := event.(*asset.ReleasedEvent)
	if !ok {
		return nil
	}
	for _, ref := range released.Refs {
		err := h.storage.Delete(ctx, ref)
		if err == nil || errors.Is(err, asset.ErrObjectNotFound) {
			continue
		}
		h.logger.Warn("asset deletion failed",
			zap.String("ref", ref),
			zap.String("aggregate_type", released.AggregateType()),
			zap.String("aggregate_id", released.AggregateID().String()),
			zap.Error(err),
		)
		if h.metrics != nil {
			h.metrics.RecordAssetCleanupFailure(ctx, released.AggregateType())
		}
		record := &asset.CleanupFailure{
			Ref:           ref,
			AggregateType: released.AggregateType(),
			AggregateID:   released.AggregateID(),
			LastError:     err.Error(),
			CreatedAt:     time.Now(),
		}
		if recErr := h.failures.Record(ctx, record); recErr != nil {
			h.logger.Error("failed to record asset cleanup failure",
				zap.String("ref", ref),
				zap.Error(recErr),
			)
		}
	}
	return nil
}

// Ensure CleanupHandler implements shared.EventHandler
var _ shared.EventHandler = (*CleanupHandler)(nil)
