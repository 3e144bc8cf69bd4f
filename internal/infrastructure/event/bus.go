// Package event delivers domain events to in-process handlers.
package event

import (
	"context"
	"errors"
	"sync"

	"github.com/catalogue/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrBusStopped is returned by Publish once Stop has been called
var ErrBusStopped = errors.New("event bus stopped")

// DefaultWorkers is the number of goroutines delivering events
const DefaultWorkers = 8

// queueDepth bounds deliveries waiting for a worker; Publish blocks beyond it
const queueDepth = 256

type delivery struct {
	ctx     context.Context
	handler shared.EventHandler
	event   shared.DomainEvent
}

// AsyncEventBus is an in-memory EventBus. Publish queues one delivery per
// matching handler and returns; a fixed set of workers runs them with a
// context detached from the publisher's cancellation.
type AsyncEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	workers  int
	queue    chan delivery

	mu      sync.RWMutex
	stopped bool
	pending sync.WaitGroup
	active  sync.WaitGroup
}

// BusOption configures an AsyncEventBus
type BusOption func(*AsyncEventBus)

// WithWorkers sets how many handlers may run concurrently
func WithWorkers(n int) BusOption {
	return func(b *AsyncEventBus) {
		if n > 0 {
			b.workers = n
		}
	}
}

// NewAsyncEventBus starts the workers; the bus accepts events right away
func NewAsyncEventBus(logger *zap.Logger, opts ...BusOption) *AsyncEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &AsyncEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger.Named("events"),
		workers:  DefaultWorkers,
		queue:    make(chan delivery, queueDepth),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.active.Add(b.workers)
	for range b.workers {
		go b.work()
	}
	return b
}

// Publish queues every event for its handlers. It only blocks while the
// queue is full, and gives up with ctx's error.
func (b *AsyncEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.stopped {
		return ErrBusStopped
	}

	detached := context.WithoutCancel(ctx)
	for _, event := range events {
		for _, handler := range b.registry.HandlersFor(event.EventType()) {
			b.pending.Add(1)
			select {
			case b.queue <- delivery{ctx: detached, handler: handler, event: event}:
			case <-ctx.Done():
				b.pending.Done()
				return ctx.Err()
			}
		}
	}
	return nil
}

// Subscribe routes eventTypes to handler, or the handler's own EventTypes
// when none are given
func (b *AsyncEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

func (b *AsyncEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

func (b *AsyncEventBus) Start(ctx context.Context) error {
	b.logger.Info("event bus running",
		zap.Int("workers", b.workers),
		zap.Int("subscriptions", b.registry.Len()),
	)
	return nil
}

// Stop refuses new events, lets the workers drain the queue and waits for
// them until ctx ends
func (b *AsyncEventBus) Stop(ctx context.Context) error {
	b.mu.Lock()
	if !b.stopped {
		b.stopped = true
		close(b.queue)
	}
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.active.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		b.logger.Warn("event bus stopped with deliveries outstanding", zap.Error(ctx.Err()))
		return ctx.Err()
	}
}

// Wait blocks until every queued delivery has been handled
func (b *AsyncEventBus) Wait() {
	b.pending.Wait()
}

func (b *AsyncEventBus) work() {
	defer b.active.Done()
	for d := range b.queue {
		b.deliver(d)
	}
}

func (b *AsyncEventBus) deliver(d delivery) {
	defer b.pending.Done()
	log := b.logger.With(
		zap.String("event_type", d.event.EventType()),
		zap.Stringer("event_id", d.event.EventID()),
	)
	defer func() {
		if r := recover(); r != nil {
			log.Error("handler panicked", zap.Any("panic", r))
		}
	}()

	if err := d.handler.Handle(d.ctx, d.event); err != nil {
		log.Error("handler failed", zap.Error(err))
	}
}

var _ shared.EventBus = (*AsyncEventBus)(nil)
