package engine

// registry.go holds the named custom transform capabilities a host
// application makes available to schemas. Registration happens ahead of any
// run; a schema referencing an unregistered name fails at Runner construction
// rather than mid-run.

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps custom transform names to their implementations.
// The zero value is not usable; call NewRegistry.
type Registry struct {
	mu  sync.RWMutex
	fns map[string]TransformFunc
}

// NewRegistry creates an empty transform registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]TransformFunc)}
}

// Register adds a named transform function.
// Returns an error on an empty name, nil function, or duplicate name.
func (r *Registry) Register(name string, fn TransformFunc) error {
	if name == "" {
		return fmt.Errorf("transform name is empty")
	}
	if fn == nil {
		return fmt.Errorf("transform %q: function is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.fns[name]; exists {
		return fmt.Errorf("transform already registered: %s", name)
	}

	r.fns[name] = fn
	return nil
}

// Lookup returns the transform registered under name.
// Returns false if not found.
func (r *Registry) Lookup(name string) (TransformFunc, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fn, ok := r.fns[name]
	return fn, ok
}

// Names returns all registered transform names, sorted for consistent
// ordering.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.fns))
	for name := range r.fns {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}
