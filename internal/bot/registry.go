package bot

import (
	"log/slog"
	"slices"
	"sync"
)

// Registry holds registered modules in registration order, keyed by name.
type Registry struct {
	mu      sync.RWMutex
	modules []Module
}

// NewRegistry creates an empty module registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a module. A module with the same name replaces the earlier one
// in place so a module package imported twice does not start twice.
func (r *Registry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.modules {
		if existing.Name() == m.Name() {
			slog.Warn("module registered twice, replacing", "module", m.Name())
			r.modules[i] = m
			return
		}
	}
	r.modules = append(r.modules, m)
}

// Lookup returns the module with the given name.
func (r *Registry) Lookup(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.modules {
		if m.Name() == name {
			return m, true
		}
	}
	return nil, false
}

// Modules returns a snapshot of all registered modules.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.modules)
}

// Enabled returns a snapshot of the modules whose names are not in disabled.
func (r *Registry) Enabled(disabled []string) []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Module, 0, len(r.modules))
	for _, m := range r.modules {
		if slices.Contains(disabled, m.Name()) {
			slog.Info("module disabled", "module", m.Name())
			continue
		}
		result = append(result, m)
	}
	return result
}

// Global registry for module self-registration from init().
var globalRegistry = NewRegistry()

// Register adds a module to the global registry.
func Register(m Module) {
	globalRegistry.Register(m)
}

// Modules returns all modules from the global registry.
func Modules() []Module {
	return globalRegistry.Modules()
}

// EnabledModules returns the global registry's modules minus the disabled ones.
func EnabledModules(disabled []string) []Module {
	return globalRegistry.Enabled(disabled)
}

// ResetGlobalRegistry resets the global registry. Tests only.
func ResetGlobalRegistry() {
	globalRegistry = NewRegistry()
}
