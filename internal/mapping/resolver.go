package mapping

import (
	"strings"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/models"
)

// Options modify a single resolution
type Options struct {
	NoCast     bool // keep wrapper interfaces instead of collapsing to scalars
	NoGenerics bool // omit generic argument lists
	Strict     bool // fail instead of emitting a #Name# placeholder
}

// Scope is the model context a type is resolved in
type Scope struct {
	Class           *models.RTInterface
	Method          *models.Method
	Argument        *models.Argument
	PropertyName    string
	FactoryArgument bool
}

// Kind classifies a type for strategy dispatch
type Kind int

const (
	KindValue Kind = iota
	KindVoidPointer
	KindGenericParam
	KindCastOperator
	KindWrapperClass
	KindPrimitive
	KindEnum
	KindInterface
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindVoidPointer:
		return "void_pointer"
	case KindGenericParam:
		return "generic_param"
	case KindCastOperator:
		return "cast_operator"
	case KindWrapperClass:
		return "wrapper_class"
	case KindPrimitive:
		return "primitive"
	case KindEnum:
		return "enum"
	case KindInterface:
		return "interface"
	default:
		return "unknown"
	}
}

// Strategy renders one kind of type
type Strategy func(r *Resolver, t *models.TypeName, scope Scope, opts Options) (string, error)

// Resolver maps model types to target-language type strings
type Resolver struct {
	Lang       *Language
	strategies map[Kind]Strategy
}

// NewResolver creates a resolver with the default strategy table
func NewResolver(lang *Language) *Resolver {
	return &Resolver{
		Lang: lang,
		strategies: map[Kind]Strategy{
			KindValue:        resolveValue,
			KindVoidPointer:  resolveVoidPointer,
			KindGenericParam: resolveGenericParam,
			KindCastOperator: resolveCastOperator,
			KindWrapperClass: resolveWrapperClass,
			KindPrimitive:    resolvePrimitive,
			KindEnum:         resolveEnum,
			KindInterface:    resolveInterface,
		},
	}
}

// RegisterStrategy replaces the strategy for one kind
func (r *Resolver) RegisterStrategy(kind Kind, s Strategy) {
	r.strategies[kind] = s
}

// Classify determines the dispatch kind of a type
func (r *Resolver) Classify(t *models.TypeName) Kind {
	name := t.UnmappedName
	switch {
	case t.IsVoid() && t.PointerDepth() > 0:
		return KindVoidPointer
	case t.IsGenericParameter:
		return KindGenericParam
	}
	if _, ok := r.Lang.CastTypes[name]; ok {
		return KindCastOperator
	}
	if _, ok := r.Lang.WrapperClasses[name]; ok {
		return KindWrapperClass
	}
	if _, ok := r.Lang.Primitives[name]; ok {
		return KindPrimitive
	}
	if t.Name != t.UnmappedName {
		if _, ok := r.Lang.Primitives[t.Name]; ok {
			return KindPrimitive
		}
	}
	if t.IsValueType() {
		if _, ok := r.Lang.Enums[name]; ok {
			return KindEnum
		}
		return KindValue
	}
	if t.IsInterface() {
		return KindInterface
	}
	return KindValue
}

// TargetTypeName renders t in the target language
func (r *Resolver) TargetTypeName(t *models.TypeName, scope Scope, opts Options) (string, error) {
	if t == nil {
		return r.Lang.Primitives[models.VoidTypeName], nil
	}
	strategy, ok := r.strategies[r.Classify(t)]
	if !ok {
		strategy = resolveValue
	}
	return strategy(r, t, scope, opts)
}

// MustTargetTypeName renders t, returning the placeholder text on failure
func (r *Resolver) MustTargetTypeName(t *models.TypeName, scope Scope, opts Options) string {
	opts.Strict = false
	s, _ := r.TargetTypeName(t, scope, opts)
	return s
}

func resolveCastOperator(r *Resolver, t *models.TypeName, scope Scope, opts Options) (string, error) {
	if !opts.NoCast {
		return r.Lang.CastTypes[t.UnmappedName], nil
	}
	return resolveInterface(r, t, scope, opts)
}

func resolveWrapperClass(r *Resolver, t *models.TypeName, scope Scope, opts Options) (string, error) {
	if !opts.NoCast {
		return r.withGenerics(r.Lang.WrapperClasses[t.UnmappedName], t, scope, opts)
	}
	return resolveInterface(r, t, scope, opts)
}

func resolveInterface(r *Resolver, t *models.TypeName, scope Scope, opts Options) (string, error) {
	name := t.Name
	if t.IsInterface() && models.HasInterfacePrefix(name) {
		name = name[1:]
	}
	return r.withGenerics(name, t, scope, opts)
}

func resolvePrimitive(r *Resolver, t *models.TypeName, _ Scope, _ Options) (string, error) {
	// An explicit remapping in the file wins over the profile.
	if t.Name != t.UnmappedName {
		if mapped, ok := r.Lang.Primitives[t.Name]; ok {
			return mapped, nil
		}
		return t.Name, nil
	}
	return r.Lang.Primitives[t.UnmappedName], nil
}

func resolveEnum(r *Resolver, t *models.TypeName, _ Scope, _ Options) (string, error) {
	return r.Lang.Enums[t.UnmappedName], nil
}

func resolveValue(r *Resolver, t *models.TypeName, scope Scope, opts Options) (string, error) {
	return r.withGenerics(t.Name, t, scope, opts)
}

func resolveGenericParam(_ *Resolver, t *models.TypeName, _ Scope, _ Options) (string, error) {
	return t.Name, nil
}

// resolveVoidPointer renders sample buffers of reader classes as arrays of
// the class's generic parameter chosen by the void* position.
func resolveVoidPointer(r *Resolver, _ *models.TypeName, scope Scope, _ Options) (string, error) {
	if scope.Argument == nil || scope.Class == nil || !r.isReader(scope.Class) {
		return r.Lang.OpaqueHandle, nil
	}
	params := r.classParams(scope.Class)
	if len(params) == 0 {
		return r.Lang.OpaqueHandle, nil
	}

	position := 0
	if scope.Method != nil {
		for _, arg := range scope.Method.Arguments() {
			if arg == scope.Argument {
				break
			}
			if arg.Type != nil && arg.Type.IsVoid() && arg.Type.PointerDepth() > 0 {
				position++
			}
		}
	}
	if position >= len(params) {
		position = len(params) - 1
	}
	if position > 1 {
		position = 1
	}
	return params[position] + r.Lang.ArraySuffix, nil
}

func (r *Resolver) isReader(class *models.RTInterface) bool {
	if r.Lang.IsReaderClass(class.Type.UnmappedName) {
		return true
	}
	return class.BaseType != nil && r.Lang.IsReaderClass(class.BaseType.UnmappedName)
}

// classParams returns the generic parameters the enclosing class declares.
// Readers without their own entry inherit the parameters of their base.
func (r *Resolver) classParams(class *models.RTInterface) []string {
	if class == nil || class.Type == nil {
		return nil
	}
	if params, ok := r.Lang.GenericParams(class.Type.UnmappedName); ok {
		return params
	}
	if class.BaseType != nil && r.Lang.IsReaderClass(class.BaseType.UnmappedName) {
		params, _ := r.Lang.GenericParams(class.BaseType.UnmappedName)
		return params
	}
	return nil
}

// withGenerics appends the generic argument list of t to name
func (r *Resolver) withGenerics(name string, t *models.TypeName, scope Scope, opts Options) (string, error) {
	if opts.NoGenerics {
		return name, nil
	}

	var args []string
	if t.IsGeneric() {
		inner := Options{NoCast: true, Strict: opts.Strict}
		for _, g := range t.GenericArguments {
			s, err := r.TargetTypeName(g, Scope{Class: scope.Class, Method: scope.Method}, inner)
			if err != nil {
				return "", err
			}
			args = append(args, s)
		}
	} else {
		params, ok := r.Lang.GenericParams(t.UnmappedName)
		if !ok {
			return name, nil
		}
		inferred, found, err := r.inferGenerics(t, params, scope, opts)
		if err != nil {
			return "", err
		}
		if !found {
			if opts.Strict {
				return "", errors.NewTypeMappingError(t.String(), describeScope(scope))
			}
			return "#" + name + "#", nil
		}
		args = inferred
	}

	rendered := r.Lang.JoinGenerics(name, args)
	if r.isSelfInstantiation(t, args, scope) {
		return r.Lang.UniversalObject + " /* " + rendered + " */", nil
	}
	return rendered, nil
}

// isSelfInstantiation reports a factory argument typed as the enclosing
// class's own generic instantiation
func (r *Resolver) isSelfInstantiation(t *models.TypeName, args []string, scope Scope) bool {
	if !scope.FactoryArgument || scope.Class == nil || scope.Class.Type == nil {
		return false
	}
	if t.UnmappedName != scope.Class.Type.UnmappedName {
		return false
	}
	own := r.classParams(scope.Class)
	if len(own) == 0 || len(own) != len(args) {
		return false
	}
	for i := range own {
		if own[i] != args[i] {
			return false
		}
	}
	return true
}

// inferGenerics picks generic arguments for a class that needs them but was
// referenced without any. Order: the argument's element-type hint, then the
// enclosing class's parameters matched by name suffix, by method name, or
// all of them joined.
func (r *Resolver) inferGenerics(t *models.TypeName, params []string, scope Scope, opts Options) ([]string, bool, error) {
	if scope.Argument != nil && scope.Argument.ElementType != nil {
		hint := scope.Argument.ElementType
		inner := Options{NoCast: true, Strict: opts.Strict}
		if len(params) == 1 {
			s, err := r.TargetTypeName(hint, Scope{Class: scope.Class, Method: scope.Method}, inner)
			if err != nil {
				return nil, false, err
			}
			return []string{s}, true, nil
		}
		if len(hint.GenericArguments) == len(params) {
			args := make([]string, 0, len(params))
			for _, g := range hint.GenericArguments {
				s, err := r.TargetTypeName(g, Scope{Class: scope.Class, Method: scope.Method}, inner)
				if err != nil {
					return nil, false, err
				}
				args = append(args, s)
			}
			return args, true, nil
		}
	}

	own := r.classParams(scope.Class)
	if len(own) == 0 {
		return nil, false, nil
	}

	if len(params) == 1 {
		if p, ok := matchBySuffix(own, scopeName(scope)); ok {
			return []string{p}, true, nil
		}
		if scope.Method != nil {
			if p, ok := matchBySubstring(own, scope.Method.Name); ok {
				return []string{p}, true, nil
			}
		}
	}
	return append([]string(nil), own...), true, nil
}

func scopeName(scope Scope) string {
	if scope.PropertyName != "" {
		return scope.PropertyName
	}
	if scope.Argument != nil {
		return scope.Argument.Name
	}
	return ""
}

// matchBySuffix matches the singularised name's suffix against parameter cores
func matchBySuffix(params []string, name string) (string, bool) {
	if name == "" {
		return "", false
	}
	singular := strings.ToLower(Singularize(name))
	for _, p := range params {
		if strings.HasSuffix(singular, strings.ToLower(paramCore(p))) {
			return p, true
		}
	}
	return "", false
}

// matchBySubstring finds a parameter core mentioned in the method name
func matchBySubstring(params []string, methodName string) (string, bool) {
	lower := strings.ToLower(methodName)
	for _, p := range params {
		if strings.Contains(lower, strings.ToLower(paramCore(p))) {
			return p, true
		}
	}
	return "", false
}

func describeScope(scope Scope) string {
	var parts []string
	if scope.Class != nil && scope.Class.Type != nil {
		parts = append(parts, scope.Class.Type.UnmappedName)
	}
	if scope.Method != nil {
		parts = append(parts, scope.Method.Name)
	}
	if scope.Argument != nil {
		parts = append(parts, scope.Argument.Name)
	} else if scope.PropertyName != "" {
		parts = append(parts, scope.PropertyName)
	}
	return strings.Join(parts, ".")
}
