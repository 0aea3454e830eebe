package fetcher

import (
	"fmt"
	"sync"
)

// Registry maps fetcher discriminator names to provider factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register binds a fetcher name to a factory. Registering the same name twice
// is an error.
func (r *Registry) Register(name string, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("fetcher %q already registered", name)
	}
	r.factories[name] = factory
	return nil
}

// Lookup resolves the factory for an event's fetcher name.
func (r *Registry) Lookup(name string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[name]
	if !ok {
		return nil, &ValidationError{Reason: fmt.Sprintf("unknown fetcher %q", name)}
	}
	return factory, nil
}
