package generator

import (
	"strings"

	"github.com/toyz/rtgen/internal/mapping"
	"github.com/toyz/rtgen/internal/models"
	"github.com/toyz/rtgen/internal/templates"
)

func (g *Generator) defaultScope(file *models.RTFile) *templates.Values {
	return templates.NewValues("defaults", map[string]string{
		"GeneratorName":    "rtgen",
		"GeneratorVersion": g.opts.Version,
		"LibraryName":      g.opts.LibraryName,
		"LibraryVersion":   g.opts.LibraryVersion,
		"LibraryClass":     g.lang.TypeName(g.opts.LibraryName) + "Native",
		"Language":         g.lang.Name,
		"UniversalObject":  g.lang.UniversalObject,
		"Documentation":    "",
	})
}

// file scope

type fileEntity struct {
	st    *fileState
	chain templates.Chain
}

func (g *Generator) fileChain(st *fileState, parent templates.Chain) templates.Chain {
	e := &fileEntity{st: st}
	e.chain = parent.Push(templates.Bind("file "+st.file.Name, e, g.resolveFile))
	return e.chain
}

func (g *Generator) resolveFile(e *fileEntity, name string) (string, bool) {
	file := e.st.file
	switch name {
	case "SourceName":
		return file.Name, true
	case "Namespace":
		return g.namespace(file), true
	case "LeadingDocs":
		return lineComments(file.LeadingDocs), true
	case "TrailingDocs":
		return lineComments(file.TrailingDocs), true
	case "Enums":
		chains := make([]templates.Chain, 0, len(file.Enums))
		for _, enum := range file.Enums {
			chains = append(chains, g.enumChain(e.st, e.chain, enum))
		}
		return g.renderEach(e.st, "enum", chains, "\n\n"), true
	case "Classes":
		chains := make([]templates.Chain, 0, len(file.Interfaces))
		for _, iface := range file.Interfaces {
			chains = append(chains, g.classChain(e.st, e.chain, iface))
		}
		return g.renderEach(e.st, "class", chains, "\n\n"), true
	case "FunctionsClass":
		if len(g.visibleMethods(file.Methods)) == 0 {
			return "", true
		}
		return strings.TrimRight(g.render(e.st, "functions", e.chain), "\r\n"), true
	case "Functions":
		methods := g.visibleMethods(file.Methods)
		chains := make([]templates.Chain, 0, len(methods))
		for _, m := range methods {
			chains = append(chains, g.methodChain(e.st, e.chain, nil, m))
		}
		return g.renderEach(e.st, "function", chains, "\n\n"), true
	}
	return "", false
}

func (g *Generator) namespace(file *models.RTFile) string {
	if g.opts.Namespace != "" {
		return g.opts.Namespace
	}
	if file.Namespace.IsEmpty() {
		return "Generated"
	}
	parts := make([]string, len(file.Namespace.Components))
	for i, c := range file.Namespace.Components {
		parts[i] = mapping.StylePascal.Apply(c)
	}
	return strings.Join(parts, ".")
}

func (g *Generator) visibleMethods(methods []*models.Method) []*models.Method {
	out := make([]*models.Method, 0, len(methods))
	for _, m := range methods {
		if !m.IsIgnoredFor(g.Name()) && m.Canonical() != nil {
			out = append(out, m)
		}
	}
	return out
}

// class scope

type classEntity struct {
	st    *fileState
	iface *models.RTInterface
	chain templates.Chain
}

func (g *Generator) classChain(st *fileState, parent templates.Chain, iface *models.RTInterface) templates.Chain {
	e := &classEntity{st: st, iface: iface}
	e.chain = parent.Push(templates.Bind("class "+iface.Name(), e, g.resolveClass))
	return e.chain
}

func (g *Generator) className(st *fileState, iface *models.RTInterface) string {
	return g.typeName(st, iface.Type, mapping.Scope{Class: iface}, mapping.Options{NoCast: true})
}

func (g *Generator) resolveClass(e *classEntity, name string) (string, bool) {
	iface := e.iface
	info := e.st.file.Attributes

	switch name {
	case "Name":
		return g.lang.TypeName(iface.Type.NonInterfaceName()), true
	case "NativeName":
		return iface.Name(), true
	case "ClassName":
		return g.className(e.st, iface), true
	case "BaseClassName":
		if iface.BaseType == nil {
			return g.lang.UniversalObject, true
		}
		return g.typeName(e.st, iface.BaseType, mapping.Scope{Class: iface}, mapping.Options{NoCast: true}), true
	case "InterfaceGuid":
		return InterfaceGUID(g.namespace(e.st.file), iface.Name()), true
	case "Documentation":
		return g.docComment(iface.Documentation, "    ", nil), true
	case "LibraryName":
		if lib, ok := info.LibraryOverrides[iface.Name()]; ok {
			return lib, true
		}
		return g.opts.LibraryName, true
	case "SmartPtr":
		if ptr, ok := info.PtrName(iface.Name()); ok {
			return ptr, true
		}
		return g.lang.TypeName(iface.Type.NonInterfaceName()) + "Ptr", true
	case "Tag":
		return info.TagNames[iface.Name()], true
	case "Flags":
		return strings.Join(info.CustomFlags[iface.Name()], ", "), true
	case "IsTemplated":
		return boolString(iface.Templated), true
	case "DefaultAlias":
		return boolString(iface.DefaultAlias), true
	case "PropertyClassName":
		if iface.PropertyClass == nil {
			return "", true
		}
		return iface.PropertyClass.Name, true
	case "DeclaredProperties":
		if iface.PropertyClass == nil {
			return "", true
		}
		chains := make([]templates.Chain, 0, len(iface.PropertyClass.Properties))
		for _, p := range iface.PropertyClass.Properties {
			chains = append(chains, e.chain.Push(templates.Bind("declared "+p.Name, p, resolveDeclaredProperty)))
		}
		return g.renderEach(e.st, "property_info", chains, "\n"), true
	case "NativeMethods":
		methods := g.visibleMethods(iface.Methods)
		chains := make([]templates.Chain, 0, len(methods))
		for _, m := range methods {
			chains = append(chains, g.methodChain(e.st, e.chain, iface, m))
		}
		return g.renderEach(e.st, "native_method", chains, "\n"), true
	case "Methods":
		methods := g.visibleMethods(iface.PlainMethods(g.Name()))
		chains := make([]templates.Chain, 0, len(methods))
		for _, m := range methods {
			chains = append(chains, g.methodChain(e.st, e.chain, iface, m))
		}
		return g.renderEach(e.st, "method", chains, "\n\n"), true
	case "Properties":
		chains := make([]templates.Chain, 0, len(iface.GetSets))
		for _, gs := range iface.GetSets {
			if !gs.RenderedFor(g.Name()) {
				continue
			}
			chains = append(chains, g.propertyChain(e.st, e.chain, iface, gs))
		}
		return g.renderEach(e.st, "property", chains, "\n\n"), true
	case "Events":
		events := iface.SortedEvents()
		chains := make([]templates.Chain, 0, len(events))
		for _, ev := range events {
			chains = append(chains, g.eventChain(e.st, e.chain, iface, ev))
		}
		return g.renderEach(e.st, "event", chains, "\n"), true
	case "FactoryImports":
		chains := make([]templates.Chain, 0, len(iface.Factories))
		for _, f := range iface.Factories {
			chains = append(chains, g.factoryChain(e.st, e.chain, iface, f, nil))
		}
		return g.renderEach(e.st, "factory_import", chains, "\n"), true
	case "Factories":
		return g.renderEach(e.st, "factory", g.factoryChains(e.st, e.chain, iface), "\n\n"), true
	case "CastOperators":
		cast, ok := g.lang.CastTypes[iface.Name()]
		if !ok {
			return "", true
		}
		scope := templates.NewValues("cast "+iface.Name(), map[string]string{"CastType": cast})
		return strings.TrimRight(g.render(e.st, "cast_operator", e.chain.Push(scope)), "\r\n"), true
	}
	return "", false
}

func resolveDeclaredProperty(p *models.Property, name string) (string, bool) {
	switch name {
	case "DeclaredName":
		return p.Name, true
	case "DeclaredKind":
		return p.Type.String(), true
	case "DeclaredDefault":
		if p.DefaultValue == "" {
			return "default", true
		}
		return p.DefaultValue, true
	case "DeclaredFlags":
		var flags []string
		if !p.Visible {
			flags = append(flags, "hidden")
		}
		if p.ReadOnly {
			flags = append(flags, "read-only")
		}
		if p.IsEnum {
			flags = append(flags, "enum")
		}
		if len(flags) == 0 {
			return "", true
		}
		return " (" + strings.Join(flags, ", ") + ")", true
	case "DeclaredDescription":
		return p.Description, true
	}
	return "", false
}

// enum scope

type enumEntity struct {
	st    *fileState
	enum  *models.Enumeration
	chain templates.Chain
}

func (g *Generator) enumChain(st *fileState, parent templates.Chain, enum *models.Enumeration) templates.Chain {
	e := &enumEntity{st: st, enum: enum}
	e.chain = parent.Push(templates.Bind("enum "+enum.Name, e, g.resolveEnum))
	return e.chain
}

func (g *Generator) resolveEnum(e *enumEntity, name string) (string, bool) {
	switch name {
	case "EnumName":
		return g.lang.TypeName(e.enum.Name), true
	case "Documentation":
		return g.docComment(e.enum.Documentation, "    ", nil), true
	case "EnumValues":
		chains := make([]templates.Chain, 0, len(e.enum.Values))
		for i := range e.enum.Values {
			value := e.enum.Values[i]
			chains = append(chains, e.chain.Push(templates.Bind("value "+value.Name, value, g.resolveEnumValue)))
		}
		return g.renderEach(e.st, "enum_value", chains, "\n"), true
	}
	return "", false
}

func (g *Generator) resolveEnumValue(v models.EnumValue, name string) (string, bool) {
	switch name {
	case "ValueName":
		return g.lang.EnumValueName(v.Name), true
	case "Value":
		return v.Value, true
	case "ValueAssignment":
		if v.Value == "" {
			return "", true
		}
		return " = " + v.Value, true
	case "Documentation":
		return g.docComment(v.Documentation, "        ", nil), true
	}
	return "", false
}

// event scope

type eventEntity struct {
	st    *fileState
	iface *models.RTInterface
	event *models.Event
}

func (g *Generator) eventChain(st *fileState, parent templates.Chain, iface *models.RTInterface, ev *models.Event) templates.Chain {
	e := &eventEntity{st: st, iface: iface, event: ev}
	return parent.Push(templates.Bind("event "+ev.Name, e, g.resolveEvent))
}

func (g *Generator) resolveEvent(e *eventEntity, name string) (string, bool) {
	switch name {
	case "EventName":
		return g.lang.PropertyName(e.event.Name), true
	case "EventArgsType":
		if e.event.ArgsType == nil {
			return "EventArgs", true
		}
		return g.typeName(e.st, e.event.ArgsType, mapping.Scope{Class: e.iface}, mapping.Options{NoCast: true}), true
	case "EventSenderType":
		if e.event.SenderType == nil {
			return g.lang.UniversalObject, true
		}
		return g.typeName(e.st, e.event.SenderType, mapping.Scope{Class: e.iface}, mapping.Options{NoCast: true}), true
	case "Documentation":
		return g.docComment(e.event.Documentation, "        ", nil), true
	}
	return "", false
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
