package models

import "strings"

// Argument is one parameter of an overload
type Argument struct {
	Type            *TypeName
	Name            string
	IsConst         bool
	ArraySize       string    // size argument name or literal; empty when not an array
	DefaultValue    string    // default value text as written in the source
	Polymorphic     bool      // accepts any implementation of the interface
	StealsReference bool      // callee takes ownership of the reference
	AllowNull       bool      // null is an accepted value
	ElementType     *TypeName // element type hint for generic-capable types
}

// NewArgument creates an argument of the given type
func NewArgument(name string, typeName *TypeName) *Argument {
	return &Argument{Name: name, Type: typeName}
}

// IsArray reports whether the argument is array-decorated
func (a *Argument) IsArray() bool {
	return a.ArraySize != ""
}

// effectiveModifiers drops one trailing '*' from array-decorated arguments so
// the buffer pointer itself is not mistaken for an output level.
func (a *Argument) effectiveModifiers() string {
	mods := a.Type.Modifiers
	if a.IsArray() && strings.HasSuffix(mods, "*") {
		mods = mods[:len(mods)-1]
	}
	return mods
}

// IsOutParam reports whether the callee populates the argument: value types
// end in '*', reference types end in '**'.
func (a *Argument) IsOutParam() bool {
	if a.Type == nil {
		return false
	}
	mods := a.effectiveModifiers()
	if a.Type.IsValueType() {
		return strings.HasSuffix(mods, "*")
	}
	return strings.HasSuffix(mods, "**")
}

// IsOutPointer reports a return-by-pointer-to-pointer: one modifier level
// beyond IsOutParam.
func (a *Argument) IsOutPointer() bool {
	if a.Type == nil {
		return false
	}
	mods := a.effectiveModifiers()
	if a.Type.IsValueType() {
		return strings.HasSuffix(mods, "**")
	}
	return strings.HasSuffix(mods, "***")
}

// Clone returns a deep copy of the argument
func (a *Argument) Clone() *Argument {
	if a == nil {
		return nil
	}
	clone := *a
	clone.Type = a.Type.Clone()
	clone.ElementType = a.ElementType.Clone()
	return &clone
}

// CloneArguments deep-copies an argument list
func CloneArguments(args []*Argument) []*Argument {
	if args == nil {
		return nil
	}
	out := make([]*Argument, len(args))
	for i, arg := range args {
		out[i] = arg.Clone()
	}
	return out
}
