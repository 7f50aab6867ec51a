package bot

import (
	"fmt"
	"sync"
)

// Registry holds registered modules in registration order.
// Module names are unique.
type Registry struct {
	mu      sync.RWMutex
	modules []Module
	names   map[string]struct{}
}

// NewRegistry creates a new module registry.
func NewRegistry() *Registry {
	return &Registry{
		names: make(map[string]struct{}),
	}
}

// Add registers a module, failing if another module already uses its name.
func (r *Registry) Add(m Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := m.Name()
	if _, exists := r.names[name]; exists {
		return fmt.Errorf("module %q is already registered", name)
	}
	r.names[name] = struct{}{}
	r.modules = append(r.modules, m)
	return nil
}

// Register is Add for init-time registration, where a duplicate name is a
// programming error.
func (r *Registry) Register(m Module) {
	if err := r.Add(m); err != nil {
		panic(err)
	}
}

// Modules returns a snapshot of all registered modules.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Module, len(r.modules))
	copy(result, r.modules)
	return result
}

// globalRegistry collects modules registering themselves from init().
var globalRegistry = NewRegistry()

// Register adds a module to the global registry. It panics on a duplicate name.
func Register(m Module) {
	globalRegistry.Register(m)
}

// Modules returns all modules from the global registry.
func Modules() []Module {
	return globalRegistry.Modules()
}
