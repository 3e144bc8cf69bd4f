// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	appasset "github.com/catalogue/backend/internal/application/asset"
	"go.uber.org/zap"
)

// Reconciler retries recorded asset cleanup failures
type Reconciler interface {
	Run(ctx context.Context, batchSize int) (appasset.ReconcileResult, error)
}

// AssetReconcileSchedulerConfig holds configuration for the asset reconcile scheduler
type AssetReconcileSchedulerConfig struct {
	// Enabled determines if the scheduler is active
	Enabled bool

	// Interval between reconciliation passes
	Interval time.Duration

	// BatchSize caps the failures retried per pass
	BatchSize int

	// Timeout is the maximum time for one pass
	Timeout time.Duration
}

// DefaultAssetReconcileSchedulerConfig returns default configuration
func DefaultAssetReconcileSchedulerConfig() AssetReconcileSchedulerConfig {
	return AssetReconcileSchedulerConfig{
		Enabled:   true,
		Interval:  15 * time.Minute,
		BatchSize: 100,
		Timeout:   5 * time.Minute,
	}
}

// AssetReconcileScheduler periodically retries failed asset deletions
type AssetReconcileScheduler struct {
	reconciler Reconciler
	logger     *zap.Logger
	config     AssetReconcileSchedulerConfig
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.Mutex
	isRunning  bool
}

// NewAssetReconcileScheduler creates a new asset reconcile scheduler
func NewAssetReconcileScheduler(
	reconciler Reconciler,
	logger *zap.Logger,
	config AssetReconcileSchedulerConfig,
) (*AssetReconcileScheduler, error) {
	if config.Enabled && (config.Interval <= 0 || config.BatchSize <= 0) {
		return nil, fmt.Errorf("%w: interval and batch size must be positive", ErrInvalidConfig)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssetReconcileScheduler{
		reconciler: reconciler,
		logger:     logger,
		config:     config,
	}, nil
}

// Start starts the scheduler. The first pass runs after one interval.
func (s *AssetReconcileScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	if !s.config.Enabled {
		s.mu.Unlock()
		s.logger.Info("Asset reconcile scheduler is disabled")
		return nil
	}
	s.isRunning = true
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Asset reconcile scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Int("batch_size", s.config.BatchSize),
	)
	return nil
}

// Stop gracefully stops the scheduler
func (s *AssetReconcileScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Asset reconcile scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Asset reconcile scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether the loop is active
func (s *AssetReconcileScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

func (s *AssetReconcileScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Asset reconcile loop stopping")
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce executes a single reconciliation pass bounded by the configured timeout
func (s *AssetReconcileScheduler) RunOnce(ctx context.Context) appasset.ReconcileResult {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := s.reconciler.Run(ctx, s.config.BatchSize)
	if err != nil {
		s.logger.Error("Asset reconcile pass failed",
			zap.Error(err),
			zap.Int("attempted", result.Attempted),
			zap.Duration("duration", time.Since(start)),
		)
		return result
	}
	if result.Attempted > 0 {
		s.logger.Info("Asset reconcile pass completed",
			zap.Int("resolved", result.Resolved),
			zap.Int("failed", result.Failed),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return result
}
