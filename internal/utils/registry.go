package utils

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry maps case-insensitive names, plus optional aliases, to values.
// It backs the backend table so "CSharp", "csharp" and "cs" resolve alike.
type Registry[V any] struct {
	mu      sync.RWMutex
	kind    string
	values  map[string]V
	aliases map[string]string
}

// NewRegistry creates an empty registry. kind names the entries in errors.
func NewRegistry[V any](kind string) *Registry[V] {
	return &Registry[V]{
		kind:    kind,
		values:  make(map[string]V),
		aliases: make(map[string]string),
	}
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Register adds value under name and its aliases. A name or alias already
// taken is rejected and nothing is added.
func (r *Registry[V]) Register(name string, value V, aliases ...string) error {
	key := normalizeName(name)
	if key == "" {
		return fmt.Errorf("%s name must not be empty", r.kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range append([]string{name}, aliases...) {
		if _, taken := r.resolve(normalizeName(n)); taken {
			return fmt.Errorf("%s '%s' is already registered", r.kind, n)
		}
	}
	r.values[key] = value
	for _, a := range aliases {
		r.aliases[normalizeName(a)] = key
	}
	return nil
}

// resolve expects r.mu to be held
func (r *Registry[V]) resolve(key string) (string, bool) {
	if _, ok := r.values[key]; ok {
		return key, true
	}
	target, ok := r.aliases[key]
	return target, ok
}

// Lookup finds a value by name or alias
func (r *Registry[V]) Lookup(name string) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var zero V
	key, ok := r.resolve(normalizeName(name))
	if !ok {
		return zero, false
	}
	return r.values[key], true
}

// Names returns the canonical names in sorted order, aliases excluded
func (r *Registry[V]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.values))
	for name := range r.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
