package errors

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Handler attempts to recover from an error. It returns nil when the
// error was handled, or an error (possibly the original) when it was not.
type Handler func(ctx context.Context, err *AppError) error

// Registry holds named error handlers. It is an explicit object to be
// constructed and injected by the caller — deliberately not a
// package-level singleton, so lifecycle and test isolation stay explicit.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry creates an empty handler registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a named handler. Registering a duplicate name or a nil
// handler is a configuration error.
func (r *Registry) Register(name string, h Handler) error {
	if name == "" {
		return Configuration("handler name must not be empty")
	}
	if h == nil {
		return Configuration(fmt.Sprintf("handler %q must not be nil", name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; exists {
		return Configuration(fmt.Sprintf("handler %q already registered", name)).
			WithContext("handler", name)
	}
	r.handlers[name] = h
	return nil
}

// Deregister removes a named handler. Removing an unknown name is a no-op.
func (r *Registry) Deregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, name)
}

// Lookup returns the handler registered under name.
func (r *Registry) Lookup(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// Handle dispatches err to the named handler. An unknown name is a
// configuration error carrying the original error as cause.
func (r *Registry) Handle(ctx context.Context, name string, err *AppError) error {
	h, ok := r.Lookup(name)
	if !ok {
		return Configuration(fmt.Sprintf("no handler registered for %q", name)).
			WithContext("handler", name).
			WithCause(err)
	}
	return h(ctx, err)
}

// Names returns the registered handler names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
