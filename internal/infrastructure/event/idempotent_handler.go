package event

import (
	"context"

	"github.com/catalogue/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// IdempotentHandler runs its handler at most once per event. Keys are
// scoped by name so two handlers of the same event do not shadow each
// other. A failed run frees the key so a redelivery retries it.
type IdempotentHandler struct {
	name    string
	handler shared.EventHandler
	store   shared.IdempotencyStore
	config  shared.IdempotencyConfig
	logger  *zap.Logger
}

// NewIdempotentHandler wraps handler under name
func NewIdempotentHandler(
	name string,
	handler shared.EventHandler,
	store shared.IdempotencyStore,
	config shared.IdempotencyConfig,
	logger *zap.Logger,
) *IdempotentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdempotentHandler{
		name:    name,
		handler: handler,
		store:   store,
		config:  config,
		logger:  logger.With(zap.String("handler", name)),
	}
}

// EventTypes returns the event types of the wrapped handler
func (h *IdempotentHandler) EventTypes() []string {
	return h.handler.EventTypes()
}

// Handle runs the wrapped handler unless the event was already claimed.
// When the store cannot be reached the event is handled anyway.
func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.handler.Handle(ctx, event)
	}

	key := h.key(event)
	log := h.logger.With(
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
	)

	claimed, err := h.store.Reserve(ctx, key, h.config.TTL)
	switch {
	case err != nil:
		log.Warn("idempotency store unavailable, handling event unguarded", zap.Error(err))
		return h.handler.Handle(ctx, event)
	case !claimed:
		log.Debug("event already handled")
		return nil
	}

	if err := h.handler.Handle(ctx, event); err != nil {
		if relErr := h.store.Release(ctx, key); relErr != nil {
			log.Warn("failed to free event key", zap.Error(relErr))
		}
		return err
	}
	if err := h.store.Complete(ctx, key, event.EventType(), h.config.TTL); err != nil {
		log.Warn("failed to mark event handled", zap.Error(err))
	}
	return nil
}

func (h *IdempotentHandler) key(event shared.DomainEvent) string {
	return "event:" + h.name + ":" + event.EventID().String()
}

var _ shared.EventHandler = (*IdempotentHandler)(nil)
