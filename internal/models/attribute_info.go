package models

// AttributeArg is one tokenized directive argument. Named is empty for
// positional arguments. Type is set when the value was parsed as a type.
// Quoted marks a string literal, which may legitimately be empty.
type AttributeArg struct {
	Named  string
	Value  string
	Type   *TypeName
	Quoted bool
}

// IsNamed reports whether the argument was written as key: value
func (a AttributeArg) IsNamed() bool {
	return a.Named != ""
}

// RawAttribute is a directive no handler claimed
type RawAttribute struct {
	Name string
	Args []AttributeArg
}

// NextType is metadata staged for the next interface
type NextType struct {
	Templated    bool
	DefaultAlias bool
}

// NextMethod is metadata staged for the next method
type NextMethod struct {
	IgnoredFor        map[string]bool
	ReturnSelf        bool
	ProcedureProperty bool
}

// NextArgument is metadata staged for a named argument of the next method or factory
type NextArgument struct {
	ElementType     *TypeName
	ArraySize       string
	Polymorphic     bool
	StealsReference bool
	AllowNull       bool
}

// NextFactory is metadata staged for the next factory
type NextFactory struct {
	Placeholders []string
}

// Next is the staging area consumed by the next constructed entity
type Next struct {
	Type      NextType
	Method    NextMethod
	Arguments map[string]*NextArgument
	Factory   NextFactory
}

// AttributeInfo is the generation state of one file. Every table is an exact
// match dictionary keyed by the unmapped native name.
type AttributeInfo struct {
	ValueTypes         map[string]bool
	CustomIncludes     map[string]string
	PtrMappings        map[string]string
	NamespaceOverrides map[string]string
	TagNames           map[string]string
	CustomFlags        map[string][]string
	CustomOptions      map[string]map[string]string
	TypeMappings       map[string]string
	LibraryOverrides   map[string]string

	Next             Next
	PropertyDefaults PropertyDefaults
	PropertyClass    *PropertyClass   // currently open property class, nil when closed
	PropertyClasses  []*PropertyClass // every class opened in the file
	Unhandled        []RawAttribute
}

// NewAttributeInfo creates empty per-file state
func NewAttributeInfo() *AttributeInfo {
	return &AttributeInfo{
		ValueTypes:         make(map[string]bool),
		CustomIncludes:     make(map[string]string),
		PtrMappings:        make(map[string]string),
		NamespaceOverrides: make(map[string]string),
		TagNames:           make(map[string]string),
		CustomFlags:        make(map[string][]string),
		CustomOptions:      make(map[string]map[string]string),
		TypeMappings:       make(map[string]string),
		LibraryOverrides:   make(map[string]string),
		Next:               Next{Arguments: make(map[string]*NextArgument)},
		PropertyDefaults:   DefaultPropertyDefaults(),
	}
}

// NewTypeName builds a type name applying the file's remapping, namespace
// override and value-type tables
func (a *AttributeInfo) NewTypeName(namespace, name, modifiers string) *TypeName {
	if ns, ok := a.NamespaceOverrides[name]; ok {
		namespace = ns
	}
	t := NewTypeName(namespace, name, modifiers)
	if mapped, ok := a.TypeMappings[name]; ok {
		t.Name = mapped
	}
	if isValue, ok := a.ValueTypes[name]; ok {
		t.SetValueType(isValue)
	}
	return t
}

// IsValueType reports the value-type override for name, if any
func (a *AttributeInfo) IsValueType(name string) (isValue, ok bool) {
	isValue, ok = a.ValueTypes[name]
	return isValue, ok
}

// PtrName returns the smart-pointer name registered for an interface
func (a *AttributeInfo) PtrName(name string) (string, bool) {
	ptr, ok := a.PtrMappings[name]
	return ptr, ok
}

// HasFlag reports whether a custom flag is set for a type
func (a *AttributeInfo) HasFlag(typeName, flag string) bool {
	for _, f := range a.CustomFlags[typeName] {
		if f == flag {
			return true
		}
	}
	return false
}

// Option returns a custom option value for a type
func (a *AttributeInfo) Option(typeName, key string) (string, bool) {
	opts, ok := a.CustomOptions[typeName]
	if !ok {
		return "", false
	}
	v, ok := opts[key]
	return v, ok
}

// NextArgument returns the staged metadata for an argument, creating it
func (a *AttributeInfo) NextArgument(name string) *NextArgument {
	if a.Next.Arguments == nil {
		a.Next.Arguments = make(map[string]*NextArgument)
	}
	next, ok := a.Next.Arguments[name]
	if !ok {
		next = &NextArgument{}
		a.Next.Arguments[name] = next
	}
	return next
}

// TakeNextType returns and resets the staged type metadata
func (a *AttributeInfo) TakeNextType() NextType {
	next := a.Next.Type
	a.Next.Type = NextType{}
	return next
}

// TakeNextMethod returns and resets the staged method metadata
func (a *AttributeInfo) TakeNextMethod() NextMethod {
	next := a.Next.Method
	a.Next.Method = NextMethod{}
	return next
}

// TakeNextArgument returns and removes the staged metadata for one argument
func (a *AttributeInfo) TakeNextArgument(name string) (*NextArgument, bool) {
	next, ok := a.Next.Arguments[name]
	if ok {
		delete(a.Next.Arguments, name)
	}
	return next, ok
}

// TakeNextFactory returns and resets the staged factory metadata
func (a *AttributeInfo) TakeNextFactory() NextFactory {
	next := a.Next.Factory
	a.Next.Factory = NextFactory{}
	return next
}

// ResetNextArguments drops staged argument metadata nothing consumed
func (a *AttributeInfo) ResetNextArguments() {
	a.Next.Arguments = make(map[string]*NextArgument)
}

// ApplyToInterface consumes the staged type metadata
func (a *AttributeInfo) ApplyToInterface(iface *RTInterface) {
	next := a.TakeNextType()
	iface.Templated = next.Templated
	iface.DefaultAlias = next.DefaultAlias
}

// ApplyToMethod consumes the staged method and argument metadata
func (a *AttributeInfo) ApplyToMethod(m *Method) {
	next := a.TakeNextMethod()
	m.IgnoredFor = next.IgnoredFor
	m.ReturnSelf = next.ReturnSelf
	m.ProcedureProperty = next.ProcedureProperty
	for _, o := range m.Overloads {
		a.applyToArguments(o.Arguments)
	}
	a.ResetNextArguments()
}

// ApplyToFactory consumes the staged factory and argument metadata
func (a *AttributeInfo) ApplyToFactory(f *RTFactory) {
	next := a.TakeNextFactory()
	if len(next.Placeholders) > 0 {
		f.Generic = &RTGenericFactory{Placeholders: next.Placeholders}
		for _, arg := range f.Arguments {
			markPlaceholders(arg.Type, f.Generic)
		}
	}
	a.applyToArguments(f.Arguments)
	a.ResetNextArguments()
}

func (a *AttributeInfo) applyToArguments(args []*Argument) {
	for _, arg := range args {
		next, ok := a.Next.Arguments[arg.Name]
		if !ok {
			continue
		}
		if next.ElementType != nil {
			arg.ElementType = next.ElementType.Clone()
		}
		if next.ArraySize != "" {
			arg.ArraySize = next.ArraySize
		}
		arg.Polymorphic = arg.Polymorphic || next.Polymorphic
		arg.StealsReference = arg.StealsReference || next.StealsReference
		arg.AllowNull = arg.AllowNull || next.AllowNull
	}
}

func markPlaceholders(t *TypeName, g *RTGenericFactory) {
	if t == nil {
		return
	}
	if g.Has(t.UnmappedName) {
		t.IsGenericParameter = true
	}
	for _, arg := range t.GenericArguments {
		markPlaceholders(arg, g)
	}
}

// OpenPropertyClass starts a property-class context
func (a *AttributeInfo) OpenPropertyClass(name, parent string) *PropertyClass {
	pc := &PropertyClass{Name: name, Parent: parent}
	a.PropertyClass = pc
	a.PropertyClasses = append(a.PropertyClasses, pc)
	return pc
}

// ClosePropertyClass ends the open property-class context
func (a *AttributeInfo) ClosePropertyClass() {
	a.PropertyClass = nil
}

// PropertyClassByName finds a property class opened in this file
func (a *AttributeInfo) PropertyClassByName(name string) *PropertyClass {
	for _, pc := range a.PropertyClasses {
		if pc.Name == name {
			return pc
		}
	}
	return nil
}
