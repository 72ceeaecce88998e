package models

import (
	"strings"
	"unicode"
)

// VoidTypeName is the native name of the empty type. It is never a value type.
const VoidTypeName = "void"

// Namespace holds the raw namespace string of a type together with its parsed components
type Namespace struct {
	Raw        string
	Components []string
}

// ParseNamespace splits a namespace on "::" or "."
func ParseNamespace(raw string) Namespace {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Namespace{}
	}

	sep := "::"
	if !strings.Contains(raw, sep) {
		sep = "."
	}

	var components []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			components = append(components, part)
		}
	}
	return Namespace{Raw: raw, Components: components}
}

// Join returns the components joined with the given separator
func (n Namespace) Join(sep string) string {
	return strings.Join(n.Components, sep)
}

// IsEmpty reports whether the namespace has no components
func (n Namespace) IsEmpty() bool {
	return len(n.Components) == 0
}

// TypeName is one occurrence of a referenced type
type TypeName struct {
	UnmappedName       string      // native name as written in the source
	Name               string      // name after the file's type remapping table
	Namespace          Namespace   // owning namespace
	Modifiers          string      // pointer/reference modifiers: "", "*", "**", "&"
	GenericArguments   []*TypeName // explicit generic arguments, possibly empty
	IsGenericParameter bool        // the type is itself a placeholder such as T

	valueType *bool // explicit value-type override
}

// NewTypeName creates a type name whose mapped name equals its native name
func NewTypeName(namespace, name, modifiers string) *TypeName {
	return &TypeName{
		UnmappedName: name,
		Name:         name,
		Namespace:    ParseNamespace(namespace),
		Modifiers:    modifiers,
	}
}

// SetValueType overrides the derived value-type flag
func (t *TypeName) SetValueType(isValue bool) {
	t.valueType = &isValue
}

// HasValueTypeOverride reports whether the value-type flag was set explicitly
func (t *TypeName) HasValueTypeOverride() bool {
	return t.valueType != nil
}

// IsValueType reports whether the type is passed by value.
// Order: explicit override, then void is never a value type, then interface
// names are reference types, everything else is a value type.
func (t *TypeName) IsValueType() bool {
	if t.valueType != nil {
		return *t.valueType
	}
	if t.UnmappedName == VoidTypeName {
		return false
	}
	if HasInterfacePrefix(t.UnmappedName) {
		return false
	}
	return true
}

// IsInterface reports whether the type is a reference type following the
// interface naming convention
func (t *TypeName) IsInterface() bool {
	return !t.IsValueType() && HasInterfacePrefix(t.UnmappedName)
}

// NonInterfaceName strips the leading interface marker when the type is an interface
func (t *TypeName) NonInterfaceName() string {
	if t.IsInterface() && HasInterfacePrefix(t.Name) {
		return t.Name[1:]
	}
	return t.Name
}

// IsVoid reports whether the native type is void
func (t *TypeName) IsVoid() bool {
	return t.UnmappedName == VoidTypeName
}

// IsGeneric reports whether explicit generic arguments are present
func (t *TypeName) IsGeneric() bool {
	return len(t.GenericArguments) > 0
}

// PointerDepth counts the '*' characters in the modifiers
func (t *TypeName) PointerDepth() int {
	return strings.Count(t.Modifiers, "*")
}

// Clone returns a deep copy that shares no mutable state with the source
func (t *TypeName) Clone() *TypeName {
	if t == nil {
		return nil
	}

	clone := &TypeName{
		UnmappedName:       t.UnmappedName,
		Name:               t.Name,
		Modifiers:          t.Modifiers,
		IsGenericParameter: t.IsGenericParameter,
		Namespace: Namespace{
			Raw:        t.Namespace.Raw,
			Components: append([]string(nil), t.Namespace.Components...),
		},
	}
	if t.valueType != nil {
		v := *t.valueType
		clone.valueType = &v
	}
	if t.GenericArguments != nil {
		clone.GenericArguments = make([]*TypeName, len(t.GenericArguments))
		for i, arg := range t.GenericArguments {
			clone.GenericArguments[i] = arg.Clone()
		}
	}
	return clone
}

// Equal compares names, modifiers and generic arguments structurally
func (t *TypeName) Equal(other *TypeName) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t.UnmappedName != other.UnmappedName || t.Name != other.Name || t.Modifiers != other.Modifiers {
		return false
	}
	if t.Namespace.Raw != other.Namespace.Raw || t.IsGenericParameter != other.IsGenericParameter {
		return false
	}
	if len(t.GenericArguments) != len(other.GenericArguments) {
		return false
	}
	for i := range t.GenericArguments {
		if !t.GenericArguments[i].Equal(other.GenericArguments[i]) {
			return false
		}
	}
	return true
}

// String renders the type as ns::Name<Args>Modifiers for diagnostics
func (t *TypeName) String() string {
	if t == nil {
		return "<nil>"
	}

	var b strings.Builder
	if t.Namespace.Raw != "" {
		b.WriteString(t.Namespace.Join("::"))
		b.WriteString("::")
	}
	b.WriteString(t.UnmappedName)
	if len(t.GenericArguments) > 0 {
		b.WriteByte('<')
		for i, arg := range t.GenericArguments {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.String())
		}
		b.WriteByte('>')
	}
	b.WriteString(t.Modifiers)
	return b.String()
}

// HasInterfacePrefix reports whether a name follows the interface convention:
// an uppercase letter followed by another uppercase letter (IList, IString).
func HasInterfacePrefix(name string) bool {
	runes := []rune(name)
	if len(runes) < 2 {
		return false
	}
	return unicode.IsUpper(runes[0]) && unicode.IsUpper(runes[1])
}
