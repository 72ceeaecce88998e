package models

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	GetterPrefix = "get"
	SetterPrefix = "set"
)

// GetSet is a getter and optional setter promoted to one named property
type GetSet struct {
	Name   string
	Getter *Method
	Setter *Method
}

// IsProperty reports whether the pair is exposed as a language-level
// property. Getter presence is the only gate.
func (g *GetSet) IsProperty() bool {
	return g != nil && g.Getter != nil
}

// RenderedFor reports whether the generator renders the pair as a property.
// An ignored getter drops the property.
func (g *GetSet) RenderedFor(generator string) bool {
	return g.IsProperty() && !g.Getter.IsIgnoredFor(generator)
}

// Type returns the property type, always taken from the getter's argument
func (g *GetSet) Type() *TypeName {
	if g == nil || g.Getter == nil {
		return nil
	}
	args := g.Getter.Arguments()
	if len(args) != 1 {
		return nil
	}
	return args[0].Type
}

// IsGetter reports whether the method follows the getter convention:
// "get" prefix (case-sensitive), not a procedure property, exactly one
// argument, and that argument is an out-parameter.
func IsGetter(m *Method) bool {
	if m == nil || m.ProcedureProperty || !hasAccessorPrefix(m.Name, GetterPrefix) {
		return false
	}
	args := m.Arguments()
	return len(args) == 1 && args[0].IsOutParam()
}

// IsSetter reports whether the method follows the setter convention: "set"
// prefix, exactly one argument that is not an out-parameter.
func IsSetter(m *Method) bool {
	if m == nil || !hasAccessorPrefix(m.Name, SetterPrefix) {
		return false
	}
	args := m.Arguments()
	return len(args) == 1 && !args[0].IsOutParam()
}

// PropertyName strips the accessor prefix and capitalises the remainder
func PropertyName(m *Method) string {
	var rest string
	switch {
	case strings.HasPrefix(m.Name, GetterPrefix):
		rest = m.Name[len(GetterPrefix):]
	case strings.HasPrefix(m.Name, SetterPrefix):
		rest = m.Name[len(SetterPrefix):]
	default:
		rest = m.Name
	}
	return upperFirst(rest)
}

// DerivePropertiesFromMethods pairs getters and setters by the name remainder
// after the prefix, folding case. Pairs without a getter are dropped and their
// setters remain plain methods. Methods in a returned pair get their GetSet
// back-reference set. Output order follows the getters' declaration order.
func DerivePropertiesFromMethods(methods []*Method) []*GetSet {
	pairs := make(map[string]*GetSet)
	order := make(map[string]int)

	for i, m := range methods {
		var isGetter bool
		switch {
		case IsGetter(m):
			isGetter = true
		case IsSetter(m):
		default:
			continue
		}

		key := strings.ToLower(PropertyName(m))
		pair, ok := pairs[key]
		if !ok {
			pair = &GetSet{}
			pairs[key] = pair
		}
		if isGetter {
			if pair.Getter != nil {
				continue
			}
			pair.Getter = m
			pair.Name = PropertyName(m)
			order[key] = i
		} else if pair.Setter == nil {
			pair.Setter = m
		}
	}

	result := make([]*GetSet, 0, len(pairs))
	for _, pair := range pairs {
		if !pair.IsProperty() {
			continue
		}
		pair.Getter.GetSet = pair
		if pair.Setter != nil {
			pair.Setter.GetSet = pair
		}
		result = append(result, pair)
	}
	sort.Slice(result, func(i, j int) bool {
		return order[strings.ToLower(result[i].Name)] < order[strings.ToLower(result[j].Name)]
	})
	return result
}

func hasAccessorPrefix(name, prefix string) bool {
	return strings.HasPrefix(name, prefix) && len(name) > len(prefix)
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
