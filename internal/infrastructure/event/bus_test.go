package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/catalogue/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New())}
}

type testHandler struct {
	eventTypes []string
	mu         sync.Mutex
	handled    []shared.DomainEvent
	err        error
	block      chan struct{}
	panics     bool
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.block != nil {
		<-h.block
	}
	if h.panics {
		panic("boom")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestAsyncEventBus_Publish(t *testing.T) {
	bus := NewAsyncEventBus(zap.NewNop())
	released := newTestHandler("AssetsReleased")
	other := newTestHandler("Other")
	all := newTestHandler()
	bus.Subscribe(released)
	bus.Subscribe(other)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("AssetsReleased"), newTestEvent("Unrelated")))
	bus.Wait()

	assert.Len(t, released.getHandled(), 1)
	assert.Empty(t, other.getHandled())
	assert.Len(t, all.getHandled(), 2, "wildcard handler sees every event")
}

func TestAsyncEventBus_PublishDoesNotWait(t *testing.T) {
	bus := NewAsyncEventBus(zap.NewNop())
	slow := newTestHandler("AssetsReleased")
	slow.block = make(chan struct{})
	bus.Subscribe(slow)

	done := make(chan error, 1)
	go func() { done <- bus.Publish(context.Background(), newTestEvent("AssetsReleased")) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Publish blocked on a slow handler")
	}
	close(slow.block)
	bus.Wait()
	assert.Len(t, slow.getHandled(), 1)
}

func TestAsyncEventBus_HandlerSurvivesCancelledContext(t *testing.T) {
	bus := NewAsyncEventBus(zap.NewNop())
	var seen error
	var mu sync.Mutex
	h := &ctxHandler{fn: func(ctx context.Context) {
		mu.Lock()
		seen = ctx.Err()
		mu.Unlock()
	}}
	bus.Subscribe(h, "AssetsReleased")

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, bus.Publish(ctx, newTestEvent("AssetsReleased")))
	cancel()
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.NoError(t, seen)
}

func TestAsyncEventBus_FailuresAreContained(t *testing.T) {
	bus := NewAsyncEventBus(zap.NewNop())
	failing := newTestHandler("AssetsReleased")
	failing.err = errors.New("storage down")
	panicking := newTestHandler("AssetsReleased")
	panicking.panics = true
	healthy := newTestHandler("AssetsReleased")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("AssetsReleased")))
	bus.Wait()
	assert.Len(t, healthy.getHandled(), 1)
}

func TestAsyncEventBus_Unsubscribe(t *testing.T) {
	bus := NewAsyncEventBus(zap.NewNop())
	h := newTestHandler("AssetsReleased")
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("AssetsReleased")))
	bus.Wait()
	assert.Empty(t, h.getHandled())
}

func TestAsyncEventBus_Stop(t *testing.T) {
	t.Run("waits for in-flight handlers", func(t *testing.T) {
		bus := NewAsyncEventBus(zap.NewNop(), WithWorkers(1))
		require.NoError(t, bus.Start(context.Background()))
		h := newTestHandler("AssetsReleased")
		bus.Subscribe(h)

		require.NoError(t, bus.Publish(context.Background(), newTestEvent("AssetsReleased"), newTestEvent("AssetsReleased")))
		require.NoError(t, bus.Stop(context.Background()))
		assert.Len(t, h.getHandled(), 2)

		err := bus.Publish(context.Background(), newTestEvent("AssetsReleased"))
		assert.ErrorIs(t, err, ErrBusStopped)
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		bus := NewAsyncEventBus(zap.NewNop())
		h := newTestHandler("AssetsReleased")
		h.block = make(chan struct{})
		bus.Subscribe(h)
		require.NoError(t, bus.Publish(context.Background(), newTestEvent("AssetsReleased")))

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		assert.ErrorIs(t, bus.Stop(ctx), context.DeadlineExceeded)

		close(h.block)
		bus.Wait()
	})
}

type ctxHandler struct {
	fn func(ctx context.Context)
}

func (h *ctxHandler) Handle(ctx context.Context, _ shared.DomainEvent) error {
	h.fn(ctx)
	return nil
}

func (h *ctxHandler) EventTypes() []string { return nil }
