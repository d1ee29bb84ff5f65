package instantiate

import (
	"fmt"
	"sort"
	"sync"
)

// Registry stores type descriptors keyed by exact type name. It is filled
// at startup and frozen before the first Create.
type Registry struct {
	mu     sync.RWMutex
	types  map[string]TypeDescriptor
	frozen bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]TypeDescriptor)}
}

// Register adds a descriptor.
func (r *Registry) Register(d TypeDescriptor) error {
	if err := d.validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen {
		return fmt.Errorf("%w: cannot register %s", ErrRegistryFrozen, d.Name)
	}
	if _, ok := r.types[d.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateType, d.Name)
	}
	r.types[d.Name] = d
	return nil
}

// Freeze rejects any further registration.
func (r *Registry) Freeze() {
	r.mu.Lock()
	r.frozen = true
	r.mu.Unlock()
}

// Frozen reports whether Freeze was called.
func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (TypeDescriptor, bool) {
	r.mu.RLock()
	d, ok := r.types[name]
	r.mu.RUnlock()
	return d, ok
}

// Names returns the registered type names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.types))
	for n := range r.types {
		names = append(names, n)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}
