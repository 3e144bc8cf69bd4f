package event

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/catalogue/backend/internal/domain/shared"
)

// routes is an immutable snapshot of the subscriptions. The "" key holds
// handlers that receive every event.
type routes map[string][]shared.EventHandler

// HandlerRegistry maps event types to handlers. Lookups read a snapshot
// without locking; Register and Unregister copy it under a mutex.
type HandlerRegistry struct {
	mu      sync.Mutex
	current atomic.Pointer[routes]
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	r := &HandlerRegistry{}
	r.current.Store(&routes{})
	return r
}

// Register adds handler for eventTypes. Without types the handler receives
// every event.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = []string{""}
	}
	r.update(func(next routes) {
		for _, t := range eventTypes {
			next[t] = append(slices.Clip(next[t]), handler)
		}
	})
}

// Unregister removes handler from every event type
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.update(func(next routes) {
		for t, handlers := range next {
			rest := slices.DeleteFunc(slices.Clone(handlers), func(h shared.EventHandler) bool {
				return h == handler
			})
			if len(rest) == 0 {
				delete(next, t)
			} else {
				next[t] = rest
			}
		}
	})
}

// HandlersFor returns the handlers subscribed to eventType followed by the
// handlers subscribed to every event
func (r *HandlerRegistry) HandlersFor(eventType string) []shared.EventHandler {
	snapshot := *r.current.Load()
	if eventType == "" {
		return slices.Clone(snapshot[""])
	}
	return slices.Concat(snapshot[eventType], snapshot[""])
}

// Len counts the event types with at least one handler, the catch-all
// subscription included
func (r *HandlerRegistry) Len() int {
	return len(*r.current.Load())
}

func (r *HandlerRegistry) update(mutate func(routes)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make(routes, len(*r.current.Load())+1)
	for t, handlers := range *r.current.Load() {
		next[t] = handlers
	}
	mutate(next)
	r.current.Store(&next)
}
