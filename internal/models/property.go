package models

import "strings"

// CoreType is the value kind of a declarative property
type CoreType int

const (
	CoreTypeUndefined CoreType = iota
	CoreTypeBool
	CoreTypeInt
	CoreTypeFloat
	CoreTypeString
	CoreTypeList
	CoreTypeDict
	CoreTypeRatio
	CoreTypeObject
	CoreTypeFunction
	CoreTypeProcedure
	CoreTypeBinary
	CoreTypeIterable
)

var coreTypeNames = map[CoreType]string{
	CoreTypeUndefined: "undefined",
	CoreTypeBool:      "bool",
	CoreTypeInt:       "int",
	CoreTypeFloat:     "float",
	CoreTypeString:    "string",
	CoreTypeList:      "list",
	CoreTypeDict:      "dict",
	CoreTypeRatio:     "ratio",
	CoreTypeObject:    "object",
	CoreTypeFunction:  "function",
	CoreTypeProcedure: "procedure",
	CoreTypeBinary:    "binary",
	CoreTypeIterable:  "iterable",
}

// String returns the lower-case kind name
func (c CoreType) String() string {
	if name, ok := coreTypeNames[c]; ok {
		return name
	}
	return "undefined"
}

// IsCallable reports whether properties of this kind hold a callable
func (c CoreType) IsCallable() bool {
	return c == CoreTypeFunction || c == CoreTypeProcedure
}

// ParseCoreType converts a kind name to a CoreType. Matching ignores case and
// an optional "ct" prefix so both "Int" and "ctInt" are accepted.
func ParseCoreType(name string) (CoreType, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.TrimPrefix(key, "ct")
	for kind, kindName := range coreTypeNames {
		if kindName == key {
			return kind, true
		}
	}
	return CoreTypeUndefined, false
}

// DefaultValueNull is the default assigned to callable properties
const DefaultValueNull = "nullptr"

// PropertyDefaults holds the attribute state applied to every new declarative property
type PropertyDefaults struct {
	Visible  bool
	ReadOnly bool
	IsEnum   bool
}

// DefaultPropertyDefaults returns the state a reset restores
func DefaultPropertyDefaults() PropertyDefaults {
	return PropertyDefaults{Visible: true}
}

// Property is a property declared through an attribute rather than derived
// from a getter/setter pair
type Property struct {
	Name         string
	Type         CoreType
	DefaultValue string
	Visible      bool
	IsEnum       bool
	ReadOnly     bool
	Description  string
}

// NewProperty creates a property carrying the given defaults
func NewProperty(name string, kind CoreType, defaultValue string, defaults PropertyDefaults) *Property {
	p := &Property{
		Name:         name,
		DefaultValue: defaultValue,
		Visible:      defaults.Visible,
		ReadOnly:     defaults.ReadOnly,
		IsEnum:       defaults.IsEnum,
	}
	p.SetType(kind)
	return p
}

// SetType sets the kind. Callable kinds are never visible and default to
// nullptr when no default was given.
func (p *Property) SetType(kind CoreType) {
	p.Type = kind
	if kind.IsCallable() {
		p.Visible = false
		if p.DefaultValue == "" {
			p.DefaultValue = DefaultValueNull
		}
	}
}

// PropertyClass is an open declarative property container
type PropertyClass struct {
	Name       string
	Parent     string
	Properties []*Property
}

// Add appends a property
func (c *PropertyClass) Add(p *Property) {
	c.Properties = append(c.Properties, p)
}

// Lookup finds a property by name
func (c *PropertyClass) Lookup(name string) *Property {
	for _, p := range c.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}
