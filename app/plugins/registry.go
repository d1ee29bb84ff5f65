package plugins

import (
	"sync"

	"github.com/kilianp07/waterlog/core/instantiate"
)

// RegisterFunc adds types to a registry.
type RegisterFunc func(r *instantiate.Registry) error

var (
	mu         sync.Mutex
	extensions []RegisterFunc
)

// Extend adds fn to the types registered by NewRegistry. Call it from an
// init function, before any registry is built.
func Extend(fn RegisterFunc) {
	mu.Lock()
	extensions = append(extensions, fn)
	mu.Unlock()
}

// NewRegistry returns a frozen registry holding the built-in types followed
// by every extension.
func NewRegistry() (*instantiate.Registry, error) {
	reg := instantiate.NewRegistry()
	if err := Builtin(reg); err != nil {
		return nil, err
	}
	mu.Lock()
	ext := append([]RegisterFunc(nil), extensions...)
	mu.Unlock()
	for _, fn := range ext {
		if err := fn(reg); err != nil {
			return nil, err
		}
	}
	reg.Freeze()
	return reg, nil
}
