package generator

import (
	"strconv"
	"strings"

	"github.com/toyz/rtgen/internal/mapping"
	"github.com/toyz/rtgen/internal/models"
	"github.com/toyz/rtgen/internal/templates"
)

const bodyIndent = "            "

// startIndexArgument is spliced into reader methods that take a sample buffer
var startIndexArgument = &models.Argument{
	Name:         "startIndex",
	Type:         models.NewTypeName("", "SizeT", ""),
	DefaultValue: "0",
}

type methodEntity struct {
	st       *fileState
	iface    *models.RTInterface // nil for global functions
	method   *models.Method
	overload *models.Overload
	chain    templates.Chain
}

func (g *Generator) methodChain(st *fileState, parent templates.Chain, iface *models.RTInterface, m *models.Method) templates.Chain {
	e := &methodEntity{st: st, iface: iface, method: m, overload: m.Canonical()}
	e.chain = parent.Push(templates.Bind("method "+m.Name, e, g.resolveMethod))

	if g.isReaderMethod(iface, m) {
		e.chain = e.chain.Push(templates.Bind("reader "+m.Name, e, g.resolveReaderMethod))
	}
	return e.chain
}

func (g *Generator) scope(e *methodEntity, arg *models.Argument) mapping.Scope {
	return mapping.Scope{Class: e.iface, Method: e.method, Argument: arg}
}

func (g *Generator) resolveMethod(e *methodEntity, name string) (string, bool) {
	m, o := e.method, e.overload

	switch name {
	case "Name":
		return g.lang.MethodName(m.Name), true
	case "NativeName":
		return m.Name, true
	case "EntryPoint":
		if e.iface == nil {
			return m.Name, true
		}
		return e.iface.Type.NonInterfaceName() + "_" + m.Name, true
	case "CallingConvention":
		if m.CallingConvention == "__cdecl" {
			return "Cdecl", true
		}
		return "StdCall", true
	case "Documentation":
		return g.docComment(m.Documentation, "        ", o.VisibleArguments()), true
	case "ReturnType":
		return g.returnType(e), true
	case "Arguments":
		return g.arguments(e, o.VisibleArguments()), true
	case "Body":
		return g.methodBody(e), true
	case "NativeReturnType":
		return g.nativeType(e.st, o.ReturnType, e.iface), true
	case "NativeArguments":
		var b strings.Builder
		for _, arg := range o.Arguments {
			b.WriteString(", ")
			b.WriteString(g.nativeArgument(e.st, arg, e.iface))
		}
		return b.String(), true
	case "NativeParameters":
		params := make([]string, 0, len(o.Arguments))
		for _, arg := range o.Arguments {
			params = append(params, g.nativeArgument(e.st, arg, e.iface))
		}
		return strings.Join(params, ", "), true
	case "IsProperty":
		return boolString(m.GetSet.RenderedFor(g.Name())), true
	case "OverloadCount":
		return strconv.Itoa(len(m.Overloads)), true
	}
	return "", false
}

// resolveReaderMethod shadows Arguments to add the start index that lets
// callers read into an offset of their buffer
func (g *Generator) resolveReaderMethod(e *methodEntity, name string) (string, bool) {
	if name != "Arguments" {
		return "", false
	}
	args := append(append([]*models.Argument(nil), e.overload.VisibleArguments()...), startIndexArgument)
	return g.arguments(e, args), true
}

func (g *Generator) isReaderMethod(iface *models.RTInterface, m *models.Method) bool {
	if iface == nil || m.Canonical() == nil {
		return false
	}
	reader := g.lang.IsReaderClass(iface.Name()) ||
		(iface.BaseType != nil && g.lang.IsReaderClass(iface.BaseType.UnmappedName))
	if !reader {
		return false
	}
	for _, arg := range m.Arguments() {
		if arg.Type != nil && arg.Type.IsVoid() && arg.Type.PointerDepth() > 0 {
			return true
		}
	}
	return false
}

func (g *Generator) returnType(e *methodEntity) string {
	o := e.overload
	if o.ReturnsByRef() {
		arg := o.LastByRefArgument()
		return g.typeName(e.st, arg.Type, g.scope(e, arg), mapping.Options{})
	}
	if e.method.ReturnSelf && e.iface != nil {
		return g.className(e.st, e.iface)
	}
	if o.ReturnType == nil || o.ReturnType.UnmappedName == models.ErrorCodeTypeName {
		return "void"
	}
	return g.typeName(e.st, o.ReturnType, g.scope(e, nil), mapping.Options{})
}

func (g *Generator) arguments(e *methodEntity, args []*models.Argument) string {
	chains := make([]templates.Chain, 0, len(args))
	for _, arg := range args {
		chains = append(chains, g.argumentChain(e.st, e.chain, &argumentEntity{
			st:     e.st,
			iface:  e.iface,
			method: e.method,
			arg:    arg,
			doc:    e.method.Documentation,
		}))
	}
	return g.renderEach(e.st, "argument", chains, ", ")
}

func (g *Generator) methodBody(e *methodEntity) string {
	m, o := e.method, e.overload

	var byRef *models.Argument
	if o.ReturnsByRef() {
		byRef = o.LastByRefArgument()
	}

	call := []string{"NativePointer"}
	for _, arg := range o.Arguments {
		name := g.lang.ArgumentName(arg.Name)
		switch {
		case arg == byRef:
			name = "out var " + name
		case arg.IsOutParam() && !arg.IsArray():
			name = "out " + name
		}
		call = append(call, name)
	}
	native := m.Name + "Native(" + strings.Join(call, ", ") + ")"

	var lines []string
	switch {
	case o.ReturnType != nil && o.ReturnType.UnmappedName == models.ErrorCodeTypeName:
		lines = append(lines, "CheckError("+native+");")
		if byRef != nil {
			lines = append(lines, "return "+g.lang.ArgumentName(byRef.Name)+";")
		} else if m.ReturnSelf {
			lines = append(lines, "return this;")
		}
	case o.ReturnType == nil || (o.ReturnType.IsVoid() && o.ReturnType.PointerDepth() == 0):
		lines = append(lines, native+";")
	default:
		lines = append(lines, "return "+native+";")
	}

	for i, line := range lines {
		lines[i] = bodyIndent + line
	}
	return strings.Join(lines, "\n")
}

// nativeType is the P/Invoke form of t: value types keep their primitive,
// everything else crosses the boundary as a handle
func (g *Generator) nativeType(st *fileState, t *models.TypeName, iface *models.RTInterface) string {
	switch {
	case t == nil:
		return "void"
	case t.UnmappedName == models.ErrorCodeTypeName:
		return g.lang.Primitives[models.ErrorCodeTypeName]
	case t.IsVoid():
		if t.PointerDepth() == 0 {
			return "void"
		}
		return g.lang.OpaqueHandle
	case t.IsGenericParameter:
		return g.lang.OpaqueHandle
	case t.IsValueType():
		return g.typeName(st, t, mapping.Scope{Class: iface}, mapping.Options{NoCast: true, NoGenerics: true})
	}
	return g.lang.OpaqueHandle
}

func (g *Generator) nativeArgument(st *fileState, arg *models.Argument, iface *models.RTInterface) string {
	prefix := ""
	if arg.IsOutParam() && !arg.IsArray() {
		prefix = "out "
	}
	typ := g.nativeType(st, arg.Type, iface)
	if arg.IsArray() {
		typ += g.lang.ArraySuffix
	}
	return prefix + typ + " " + g.lang.ArgumentName(arg.Name)
}

// argument scope

type argumentEntity struct {
	st      *fileState
	iface   *models.RTInterface
	method  *models.Method
	arg     *models.Argument
	doc     *models.Documentation
	factory bool
}

func (g *Generator) argumentChain(st *fileState, parent templates.Chain, e *argumentEntity) templates.Chain {
	return parent.Push(templates.Bind("argument "+e.arg.Name, e, g.resolveArgument))
}

func (g *Generator) resolveArgument(e *argumentEntity, name string) (string, bool) {
	arg := e.arg
	switch name {
	case "ArgumentName":
		return g.lang.ArgumentName(arg.Name), true
	case "NativeArgumentName":
		return arg.Name, true
	case "ArgumentType":
		scope := mapping.Scope{Class: e.iface, Method: e.method, Argument: arg, FactoryArgument: e.factory}
		typ := g.typeName(e.st, arg.Type, scope, mapping.Options{})
		if arg.IsArray() && !strings.HasSuffix(typ, g.lang.ArraySuffix) {
			typ += g.lang.ArraySuffix
		}
		return typ, true
	case "NativeArgumentType":
		return g.nativeType(e.st, arg.Type, e.iface), true
	case "Modifier":
		if arg.IsOutParam() && !arg.IsArray() {
			return "out ", true
		}
		return "", true
	case "DefaultValue":
		if arg.DefaultValue == "" {
			return "", true
		}
		return " = " + g.defaultValue(arg.DefaultValue), true
	case "ArgumentDoc":
		if e.doc == nil {
			return "", true
		}
		return e.doc.Params[arg.Name], true
	}
	return "", false
}

func (g *Generator) defaultValue(value string) string {
	if value == models.DefaultValueNull || value == "NULL" {
		return "null"
	}
	return value
}

// property scope

type propertyEntity struct {
	st    *fileState
	iface *models.RTInterface
	pair  *models.GetSet
	chain templates.Chain
}

func (g *Generator) propertyChain(st *fileState, parent templates.Chain, iface *models.RTInterface, gs *models.GetSet) templates.Chain {
	e := &propertyEntity{st: st, iface: iface, pair: gs}
	e.chain = parent.Push(templates.Bind("property "+gs.Name, e, g.resolveProperty))
	return e.chain
}

func (g *Generator) resolveProperty(e *propertyEntity, name string) (string, bool) {
	gs := e.pair
	switch name {
	case "PropertyName":
		return g.lang.PropertyName(gs.Name), true
	case "PropertyType":
		getter := gs.Getter
		arg := getter.Arguments()[0]
		scope := mapping.Scope{Class: e.iface, Method: getter, Argument: arg, PropertyName: gs.Name}
		return g.typeName(e.st, arg.Type, scope, mapping.Options{}), true
	case "GetterNative":
		return gs.Getter.Name + "Native", true
	case "SetterNative":
		if gs.Setter == nil {
			return "", true
		}
		return gs.Setter.Name + "Native", true
	case "HasSetter":
		return boolString(gs.Setter != nil), true
	case "Setter":
		if gs.Setter == nil || gs.Setter.IsIgnoredFor(g.Name()) {
			return "", true
		}
		return g.render(e.st, "property_setter", e.chain), true
	case "Documentation":
		return g.docComment(gs.Getter.Documentation, "        ", nil), true
	}
	return "", false
}
