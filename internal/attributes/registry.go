package attributes

import (
	"sort"
	"sync"

	"github.com/toyz/rtgen/internal/errors"
)

// Registry is a name-keyed table of directive handlers
type Registry interface {
	// Register adds a handler with its schema
	Register(schema Schema, handler Handler) error

	// Lookup returns the schema and handler for a directive name
	Lookup(name string) (Schema, Handler, bool)

	// Names returns all registered directive names, sorted
	Names() []string
}

type entry struct {
	schema  Schema
	handler Handler
}

// registry is the concrete implementation of Registry
type registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry creates an empty registry
func NewRegistry() Registry {
	return &registry{entries: make(map[string]entry)}
}

var (
	defaultRegistry     Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the shared registry holding the built-in handlers.
// It is read-only after construction so files generated in parallel can share it.
func DefaultRegistry() Registry {
	defaultRegistryOnce.Do(func() {
		r := NewRegistry()
		if err := RegisterBuiltins(r); err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Register adds a handler. Names are unique.
func (r *registry) Register(schema Schema, handler Handler) error {
	if err := validateSchema(schema); err != nil {
		return err
	}
	if handler == nil {
		return errors.Newf(errors.ConfigurationErrorCode, "attribute '%s' has no handler", schema.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[schema.Name]; exists {
		return errors.Newf(errors.ConfigurationErrorCode, "attribute '%s' is already registered", schema.Name)
	}
	r.entries[schema.Name] = entry{schema: schema, handler: handler}
	return nil
}

// Lookup returns the schema and handler registered under name
func (r *registry) Lookup(name string) (Schema, Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[name]
	return e.schema, e.handler, ok
}

// Names returns all registered names in sorted order
func (r *registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
