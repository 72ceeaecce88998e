package models

import "strings"

const (
	// ErrorCodeTypeName is the sentinel return type of functions that report
	// failure through the return slot and produce their result through the
	// last out-argument.
	ErrorCodeTypeName = "ErrCode"

	// InterfaceFuncMacro is the calling-convention macro used by interface methods
	InterfaceFuncMacro = "INTERFACE_FUNC"

	// StdCallConvention is what InterfaceFuncMacro normalises to
	StdCallConvention = "__stdcall"
)

// OverloadKind distinguishes the calling shapes of one method
type OverloadKind int

const (
	OverloadNative OverloadKind = iota
	OverloadWrapper
	OverloadConstructor
)

// String returns the string representation of the overload kind
func (k OverloadKind) String() string {
	switch k {
	case OverloadNative:
		return "native"
	case OverloadWrapper:
		return "wrapper"
	case OverloadConstructor:
		return "constructor"
	default:
		return "unknown"
	}
}

// Overload is one concrete argument-list shape of a method
type Overload struct {
	Arguments  []*Argument
	ReturnType *TypeName // nil means the language default
	Kind       OverloadKind
	Method     *Method
}

// ReturnsByRef reports the error-code convention: the declared return type is
// ErrCode and at least one argument is an out-parameter.
func (o *Overload) ReturnsByRef() bool {
	if o.ReturnType == nil || o.ReturnType.Name != ErrorCodeTypeName {
		return false
	}
	for _, arg := range o.Arguments {
		if arg.IsOutParam() {
			return true
		}
	}
	return false
}

// LastByRefArgument returns the last out-parameter, which is the method's
// effective return value when ReturnsByRef holds
func (o *Overload) LastByRefArgument() *Argument {
	for i := len(o.Arguments) - 1; i >= 0; i-- {
		if o.Arguments[i].IsOutParam() {
			return o.Arguments[i]
		}
	}
	return nil
}

// VisibleArguments returns the arguments a binding exposes, hiding the by-ref
// return argument when the overload returns by reference
func (o *Overload) VisibleArguments() []*Argument {
	if !o.ReturnsByRef() {
		return o.Arguments
	}
	ret := o.LastByRefArgument()
	visible := make([]*Argument, 0, len(o.Arguments)-1)
	for _, arg := range o.Arguments {
		if arg != ret {
			visible = append(visible, arg)
		}
	}
	return visible
}

// ArgumentByName finds an argument by exact name
func (o *Overload) ArgumentByName(name string) *Argument {
	for _, arg := range o.Arguments {
		if arg.Name == name {
			return arg
		}
	}
	return nil
}

// Documentation is a parsed documentation comment
type Documentation struct {
	Brief      string
	Lines      []string
	Params     map[string]string
	Returns    string
	Throws     []string
	Deprecated string
}

// Text returns the brief followed by the description lines
func (d *Documentation) Text() string {
	if d == nil {
		return ""
	}
	parts := make([]string, 0, len(d.Lines)+1)
	if d.Brief != "" {
		parts = append(parts, d.Brief)
	}
	parts = append(parts, d.Lines...)
	return strings.Join(parts, "\n")
}

// Method is a callable member of an interface or a global function
type Method struct {
	Name              string
	Modifiers         []string
	CallingConvention string
	Overloads         []*Overload // index 0 is canonical
	GetSet            *GetSet     // set when the method is half of a property pair
	Documentation     *Documentation
	IgnoredFor        map[string]bool // generator names that skip this method
	ReturnSelf        bool            // fluent-interface marker
	ProcedureProperty bool            // represents a Procedure-kind property, never a getter
}

// NewMethod creates a method with a single canonical overload
func NewMethod(name string, returnType *TypeName, args ...*Argument) *Method {
	m := &Method{Name: name}
	m.AddOverload(&Overload{Arguments: args, ReturnType: returnType})
	return m
}

// SetCallingConvention stores the convention, normalising the interface macro
func (m *Method) SetCallingConvention(convention string) {
	if convention == InterfaceFuncMacro {
		convention = StdCallConvention
	}
	m.CallingConvention = convention
}

// AddOverload appends an overload and sets its back-reference
func (m *Method) AddOverload(o *Overload) {
	o.Method = m
	m.Overloads = append(m.Overloads, o)
}

// Canonical returns overload 0, or nil for a method without overloads
func (m *Method) Canonical() *Overload {
	if len(m.Overloads) == 0 {
		return nil
	}
	return m.Overloads[0]
}

// Arguments returns the canonical overload's arguments
func (m *Method) Arguments() []*Argument {
	if o := m.Canonical(); o != nil {
		return o.Arguments
	}
	return nil
}

// IsIgnoredFor reports whether the given generator should skip the method
func (m *Method) IsIgnoredFor(generator string) bool {
	return m.IgnoredFor[generator]
}

// HasModifier reports whether the method carries a modifier such as "const"
func (m *Method) HasModifier(modifier string) bool {
	for _, mod := range m.Modifiers {
		if mod == modifier {
			return true
		}
	}
	return false
}
