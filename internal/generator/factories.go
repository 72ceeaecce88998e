package generator

import (
	"strings"

	"github.com/toyz/rtgen/internal/attributes"
	"github.com/toyz/rtgen/internal/mapping"
	"github.com/toyz/rtgen/internal/models"
	"github.com/toyz/rtgen/internal/templates"
)

type factoryEntity struct {
	st      *fileState
	iface   *models.RTInterface
	factory *models.RTFactory
	args    []*models.Argument
	special *models.RTFactorySpecialization // nil for the open generic form
	chain   templates.Chain
}

// factoryChain binds one factory. A nil specialization renders the declared arguments.
func (g *Generator) factoryChain(st *fileState, parent templates.Chain, iface *models.RTInterface, f *models.RTFactory, special *models.RTFactorySpecialization) templates.Chain {
	e := &factoryEntity{st: st, iface: iface, factory: f, args: f.Arguments, special: special}
	label := "factory " + f.Name
	if special != nil {
		e.args = special.Arguments
		label += " " + e.suffix(g)
	}
	e.chain = parent.Push(templates.Bind(label, e, g.resolveFactory))
	return e.chain
}

// factoryChains expands generic factories into one chain per configured
// sample set. Without samples the open generic form is rendered.
func (g *Generator) factoryChains(st *fileState, parent templates.Chain, iface *models.RTInterface) []templates.Chain {
	chains := make([]templates.Chain, 0, len(iface.Factories))
	for _, f := range iface.Factories {
		specs := g.specializations(st, f)
		if len(specs) == 0 {
			chains = append(chains, g.factoryChain(st, parent, iface, f, nil))
			continue
		}
		for _, special := range specs {
			chains = append(chains, g.factoryChain(st, parent, iface, f, special))
		}
	}
	return chains
}

func (g *Generator) specializations(st *fileState, f *models.RTFactory) []*models.RTFactorySpecialization {
	if !f.IsGeneric() || len(g.opts.FactorySamples) == 0 {
		return nil
	}

	count := -1
	for _, p := range f.Generic.Placeholders {
		samples, ok := g.factorySamples(p)
		if !ok {
			return nil
		}
		if count < 0 || len(samples) < count {
			count = len(samples)
		}
	}

	specs := make([]*models.RTFactorySpecialization, 0, count)
	for i := 0; i < count; i++ {
		samples := make(map[string]*models.TypeName, len(f.Generic.Placeholders))
		for _, p := range f.Generic.Placeholders {
			list, _ := g.factorySamples(p)
			t, err := attributes.ParseType(list[i], st.file.Attributes)
			if err != nil {
				st.fail(err)
				return nil
			}
			samples[p] = t
		}
		specs = append(specs, models.Specialize(f, samples))
	}
	return specs
}

// factorySamples looks a placeholder up exactly, then case-insensitively;
// config loaders lower-case map keys.
func (g *Generator) factorySamples(placeholder string) ([]string, bool) {
	if samples, ok := g.opts.FactorySamples[placeholder]; ok {
		return samples, true
	}
	for name, samples := range g.opts.FactorySamples {
		if strings.EqualFold(name, placeholder) {
			return samples, true
		}
	}
	return nil, false
}

func (e *factoryEntity) suffix(g *Generator) string {
	if e.special == nil {
		return ""
	}
	var b strings.Builder
	for _, t := range e.special.Types {
		b.WriteString(g.lang.TypeName(t.NonInterfaceName()))
	}
	return b.String()
}

func (g *Generator) resolveFactory(e *factoryEntity, name string) (string, bool) {
	f := e.factory
	switch name {
	case "FactoryName":
		pretty := f.PrettyName
		if pretty == "" {
			pretty = f.Name
		}
		return g.lang.MethodName(pretty) + e.suffix(g), true
	case "NativeFactoryName":
		return f.Name, true
	case "GenericParameters":
		if !f.IsGeneric() || e.special != nil {
			return "", true
		}
		return g.lang.JoinGenerics("", f.Generic.Placeholders), true
	case "FactoryArguments":
		chains := make([]templates.Chain, 0, len(e.args))
		for _, arg := range e.args {
			chains = append(chains, g.argumentChain(e.st, e.chain, &argumentEntity{
				st:      e.st,
				iface:   e.iface,
				arg:     arg,
				doc:     f.Documentation,
				factory: true,
			}))
		}
		return g.renderEach(e.st, "argument", chains, ", "), true
	case "FactoryCallArguments":
		var b strings.Builder
		for _, arg := range e.args {
			b.WriteString(", ")
			if arg.IsOutParam() && !arg.IsArray() {
				b.WriteString("out ")
			}
			b.WriteString(g.lang.ArgumentName(arg.Name))
		}
		return b.String(), true
	case "NativeFactoryArguments":
		var b strings.Builder
		for _, arg := range e.args {
			b.WriteString(", ")
			b.WriteString(g.nativeArgument(e.st, arg, e.iface))
		}
		return b.String(), true
	case "FactoryReturnType":
		return g.typeName(e.st, e.iface.Type, mapping.Scope{Class: e.iface}, mapping.Options{NoCast: true}), true
	case "Documentation":
		return g.docComment(f.Documentation, "        ", e.args), true
	}
	return "", false
}
