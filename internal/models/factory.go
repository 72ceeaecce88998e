package models

// RTFactory is a named construction function for an interface
type RTFactory struct {
	PrettyName    string
	Name          string // generated identifier
	Arguments     []*Argument
	InterfaceName string
	Documentation *Documentation
	Generic       *RTGenericFactory
}

// IsGeneric reports whether the factory declares type placeholders
func (f *RTFactory) IsGeneric() bool {
	return f.Generic != nil && len(f.Generic.Placeholders) > 0
}

// RTGenericFactory lists the placeholder names (T, U, ...) of a generic factory
type RTGenericFactory struct {
	Placeholders []string
}

// Has reports whether name is one of the placeholders
func (g *RTGenericFactory) Has(name string) bool {
	if g == nil {
		return false
	}
	for _, p := range g.Placeholders {
		if p == name {
			return true
		}
	}
	return false
}

// RTFactorySpecialization is a generic factory with concrete sample types
// substituted for its placeholders
type RTFactorySpecialization struct {
	Factory   *RTFactory
	Arguments []*Argument
	Types     []*TypeName // resolved concrete types in placeholder order
}

// Specialize clones the factory's arguments and substitutes every placeholder
// with its sample type, including inside generic arguments. Placeholders
// without a sample are left in place.
func Specialize(factory *RTFactory, samples map[string]*TypeName) *RTFactorySpecialization {
	special := &RTFactorySpecialization{
		Factory:   factory,
		Arguments: CloneArguments(factory.Arguments),
	}

	var placeholders []string
	if factory.Generic != nil {
		placeholders = factory.Generic.Placeholders
	}
	isPlaceholder := func(t *TypeName) bool {
		return t.IsGenericParameter || factory.Generic.Has(t.UnmappedName)
	}

	for _, arg := range special.Arguments {
		arg.Type = substitute(arg.Type, samples, isPlaceholder)
		arg.ElementType = substitute(arg.ElementType, samples, isPlaceholder)
	}
	for _, p := range placeholders {
		if sample, ok := samples[p]; ok {
			special.Types = append(special.Types, sample.Clone())
		} else {
			special.Types = append(special.Types, &TypeName{UnmappedName: p, Name: p, IsGenericParameter: true})
		}
	}
	return special
}

// substitute returns t with placeholders replaced. The input is already a
// private clone so it is modified in place.
func substitute(t *TypeName, samples map[string]*TypeName, isPlaceholder func(*TypeName) bool) *TypeName {
	if t == nil {
		return nil
	}
	if isPlaceholder(t) {
		if sample, ok := samples[t.UnmappedName]; ok {
			replaced := sample.Clone()
			replaced.Modifiers = t.Modifiers + sample.Modifiers
			return replaced
		}
	}
	for i, arg := range t.GenericArguments {
		t.GenericArguments[i] = substitute(arg, samples, isPlaceholder)
	}
	return t
}
