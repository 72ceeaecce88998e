package models

// MethodBuilder provides a fluent interface for building methods
type MethodBuilder struct {
	method   *Method
	overload *Overload
}

// NewMethodBuilder creates a builder for a method with one canonical overload
func NewMethodBuilder(name string) *MethodBuilder {
	b := &MethodBuilder{method: &Method{Name: name}}
	b.overload = &Overload{}
	b.method.AddOverload(b.overload)
	return b
}

// Returns sets the canonical overload's return type
func (b *MethodBuilder) Returns(t *TypeName) *MethodBuilder {
	b.overload.ReturnType = t
	return b
}

// ReturnsErrCode sets the return type to the error-code sentinel
func (b *MethodBuilder) ReturnsErrCode() *MethodBuilder {
	return b.Returns(NewTypeName("", ErrorCodeTypeName, ""))
}

// WithArgument appends an argument to the canonical overload
func (b *MethodBuilder) WithArgument(name string, t *TypeName) *MethodBuilder {
	b.overload.Arguments = append(b.overload.Arguments, NewArgument(name, t))
	return b
}

// WithArguments appends prepared arguments
func (b *MethodBuilder) WithArguments(args ...*Argument) *MethodBuilder {
	b.overload.Arguments = append(b.overload.Arguments, args...)
	return b
}

// WithCallingConvention sets the calling convention
func (b *MethodBuilder) WithCallingConvention(convention string) *MethodBuilder {
	b.method.SetCallingConvention(convention)
	return b
}

// WithModifiers adds method modifiers
func (b *MethodBuilder) WithModifiers(modifiers ...string) *MethodBuilder {
	b.method.Modifiers = append(b.method.Modifiers, modifiers...)
	return b
}

// WithDocumentation attaches documentation
func (b *MethodBuilder) WithDocumentation(doc *Documentation) *MethodBuilder {
	b.method.Documentation = doc
	return b
}

// AsProcedureProperty marks the method as a procedure property
func (b *MethodBuilder) AsProcedureProperty() *MethodBuilder {
	b.method.ProcedureProperty = true
	return b
}

// AsReturnSelf marks the method as fluent
func (b *MethodBuilder) AsReturnSelf() *MethodBuilder {
	b.method.ReturnSelf = true
	return b
}

// Build returns the method
func (b *MethodBuilder) Build() *Method {
	return b.method
}
