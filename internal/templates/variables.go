package templates

import "sort"

// Scope resolves template variables for one entity. Returning ok=false means
// the name belongs to a wider scope; ("", true) is a valid empty value.
type Scope interface {
	Label() string
	Resolve(name string) (string, bool)
}

// ResolveFunc resolves a variable against a typed entity
type ResolveFunc[E any] func(entity E, name string) (string, bool)

type boundScope[E any] struct {
	label   string
	entity  E
	resolve ResolveFunc[E]
}

func (s *boundScope[E]) Label() string { return s.label }

func (s *boundScope[E]) Resolve(name string) (string, bool) {
	return s.resolve(s.entity, name)
}

// Bind adapts a typed resolver function into a Scope
func Bind[E any](label string, entity E, resolve ResolveFunc[E]) Scope {
	return &boundScope[E]{label: label, entity: entity, resolve: resolve}
}

// Values is a fixed set of variables, typically the built-in defaults
type Values struct {
	Name string
	Vars map[string]string
}

// NewValues creates a Values scope
func NewValues(name string, vars map[string]string) *Values {
	if vars == nil {
		vars = make(map[string]string)
	}
	return &Values{Name: name, Vars: vars}
}

// Label returns the scope name
func (v *Values) Label() string { return v.Name }

// Resolve looks the variable up in the map
func (v *Values) Resolve(name string) (string, bool) {
	value, ok := v.Vars[name]
	return value, ok
}

// Set assigns a variable
func (v *Values) Set(name, value string) *Values {
	v.Vars[name] = value
	return v
}

// Names returns the defined variable names in sorted order
func (v *Values) Names() []string {
	names := make([]string, 0, len(v.Vars))
	for name := range v.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chain is an ordered list of scopes, narrowest first
type Chain []Scope

// NewChain builds a chain from narrowest to widest
func NewChain(scopes ...Scope) Chain {
	chain := make(Chain, 0, len(scopes))
	for _, s := range scopes {
		if s != nil {
			chain = append(chain, s)
		}
	}
	return chain
}

// Push returns a new chain with s in front. The receiver is not modified, so
// sibling renders can share a parent chain.
func (c Chain) Push(s Scope) Chain {
	chain := make(Chain, 0, len(c)+1)
	chain = append(chain, s)
	return append(chain, c...)
}

// Resolve asks each scope in order. The first one that claims the name wins.
func (c Chain) Resolve(name string) (value, label string, ok bool) {
	for _, s := range c {
		if value, ok := s.Resolve(name); ok {
			return value, s.Label(), true
		}
	}
	return "", "", false
}

// Labels lists the scope labels from narrowest to widest
func (c Chain) Labels() []string {
	labels := make([]string, len(c))
	for i, s := range c {
		labels[i] = s.Label()
	}
	return labels
}
