package manifest

import (
	"strings"

	"github.com/toyz/rtgen/internal/attributes"
	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/models"
)

// Logger receives warnings about directives no handler claimed
type Logger interface {
	Warn(format string, args ...interface{})
}

// Builder turns manifests into file models. Directives are handed to an
// attribute context in source order, each before the entity it decorates.
type Builder struct {
	registry attributes.Registry
	logger   Logger
}

// NewBuilder creates a builder over the built-in directive handlers.
// logger may be nil.
func NewBuilder(logger Logger) *Builder {
	return NewBuilderWithRegistry(attributes.DefaultRegistry(), logger)
}

// NewBuilderWithRegistry creates a builder with a custom handler table
func NewBuilderWithRegistry(registry attributes.Registry, logger Logger) *Builder {
	return &Builder{registry: registry, logger: logger}
}

// LoadFile reads, decodes and builds a manifest
func (b *Builder) LoadFile(path string) (*models.RTFile, error) {
	m, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return b.Build(path, m)
}

// fileBuild holds the state of one Build call
type fileBuild struct {
	path string
	file *models.RTFile
	ctx  *attributes.Context
	log  Logger
}

// Build converts a decoded manifest. path only appears in error locations.
func (b *Builder) Build(path string, m *Manifest) (*models.RTFile, error) {
	file := models.NewRTFile(m.Name, m.Namespace)
	file.LeadingDocs = m.LeadingDocs
	file.TrailingDocs = m.TrailingDocs

	fb := &fileBuild{
		path: path,
		file: file,
		ctx:  attributes.NewContextWithRegistry(file.Attributes, b.registry),
		log:  b.logger,
	}

	if err := fb.directives(m.Directives); err != nil {
		return nil, err
	}

	for name, expr := range m.Aliases {
		t, err := fb.parseType(expr)
		if err != nil {
			return nil, err
		}
		file.Aliases[name] = t
	}

	for _, e := range m.Enums {
		file.Enums = append(file.Enums, fb.enum(e))
	}

	for _, decl := range m.Interfaces {
		iface, err := fb.iface(decl)
		if err != nil {
			return nil, err
		}
		file.Interfaces = append(file.Interfaces, iface)
	}

	for _, decl := range m.Functions {
		fn, err := fb.method(decl)
		if err != nil {
			return nil, err
		}
		file.Methods = append(file.Methods, fn)
	}

	for _, decl := range m.Factories {
		f, err := fb.factory(decl, decl.Interface)
		if err != nil {
			return nil, err
		}
		file.Factories = append(file.Factories, f)
	}

	file.Finalize()
	return file, nil
}

func (fb *fileBuild) location(line int) errors.SourceLocation {
	return errors.SourceLocation{File: fb.path, Line: line}
}

func (fb *fileBuild) directives(list []Directive) error {
	for _, d := range list {
		loc := fb.location(d.Line)
		name, args, err := attributes.ParseDirective(d.Text, fb.file.Attributes)
		if err != nil {
			var base *errors.BaseError
			if errors.As(err, &base) {
				base.WithLocation(loc)
			}
			return err
		}

		fb.ctx.Location = loc
		handled, err := fb.ctx.HandleAttribute(name, args)
		if err != nil {
			return err
		}
		if !handled && fb.log != nil {
			fb.log.Warn("%s: unknown directive '%s' kept for custom generators", loc.String(), name)
		}
	}
	fb.ctx.Location = errors.SourceLocation{}
	return nil
}

func (fb *fileBuild) parseType(expr string) (*models.TypeName, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errors.NewManifestError(fb.path, "missing type")
	}
	t, err := attributes.ParseType(expr, fb.file.Attributes)
	if err != nil {
		return nil, errors.WrapManifestError(fb.path, err)
	}
	return t, nil
}

func (fb *fileBuild) optionalType(expr string) (*models.TypeName, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	return fb.parseType(expr)
}

func (fb *fileBuild) arguments(decls []Argument, owner string) ([]*models.Argument, error) {
	args := make([]*models.Argument, 0, len(decls))
	for _, decl := range decls {
		if decl.Name == "" {
			return nil, errors.NewManifestError(fb.path, "argument of '"+owner+"' has no name")
		}
		t, err := fb.parseType(decl.Type)
		if err != nil {
			return nil, err
		}
		arg := models.NewArgument(decl.Name, t)
		arg.DefaultValue = decl.Default
		arg.IsConst = decl.Const
		args = append(args, arg)
	}
	return args, nil
}

func (fb *fileBuild) returnType(expr string) (*models.TypeName, error) {
	if expr == "" {
		expr = models.ErrorCodeTypeName
	}
	return fb.parseType(expr)
}

func (fb *fileBuild) method(decl Method) (*models.Method, error) {
	if decl.Name == "" {
		return nil, errors.NewManifestError(fb.path, "method without a name")
	}
	if err := fb.directives(decl.Directives); err != nil {
		return nil, err
	}

	ret, err := fb.returnType(decl.Returns)
	if err != nil {
		return nil, err
	}
	args, err := fb.arguments(decl.Args, decl.Name)
	if err != nil {
		return nil, err
	}

	m := models.NewMethod(decl.Name, ret, args...)
	m.SetCallingConvention(decl.CallingConvention)
	if m.CallingConvention == "" {
		m.CallingConvention = models.StdCallConvention
	}
	m.Modifiers = decl.Modifiers
	m.Documentation = doc(decl.Doc)

	for _, o := range decl.Overloads {
		kind, err := overloadKind(fb.path, o.Kind)
		if err != nil {
			return nil, err
		}
		ret, err := fb.returnType(o.Returns)
		if err != nil {
			return nil, err
		}
		args, err := fb.arguments(o.Args, decl.Name)
		if err != nil {
			return nil, err
		}
		m.AddOverload(&models.Overload{Arguments: args, ReturnType: ret, Kind: kind})
	}

	fb.file.Attributes.ApplyToMethod(m)
	return m, nil
}

func overloadKind(path, kind string) (models.OverloadKind, error) {
	switch kind {
	case "", "wrapper":
		return models.OverloadWrapper, nil
	case "native":
		return models.OverloadNative, nil
	case "constructor":
		return models.OverloadConstructor, nil
	}
	return 0, errors.NewManifestError(path, "unknown overload kind '"+kind+"'")
}

func (fb *fileBuild) iface(decl Interface) (*models.RTInterface, error) {
	if err := fb.directives(decl.Directives); err != nil {
		return nil, err
	}

	typ, err := fb.parseType(decl.Name)
	if err != nil {
		return nil, err
	}
	base, err := fb.optionalType(decl.Base)
	if err != nil {
		return nil, err
	}

	iface := models.NewRTInterface(typ, base)
	iface.Documentation = doc(decl.Doc)
	fb.file.Attributes.ApplyToInterface(iface)

	pcName := decl.PropertyClass
	if pcName == "" {
		pcName = typ.NonInterfaceName()
	}
	iface.PropertyClass = fb.file.Attributes.PropertyClassByName(pcName)

	for _, md := range decl.Methods {
		m, err := fb.method(md)
		if err != nil {
			return nil, err
		}
		iface.AddMethod(m)
	}

	for _, ed := range decl.Events {
		sender, err := fb.optionalType(ed.Sender)
		if err != nil {
			return nil, err
		}
		args, err := fb.optionalType(ed.Args)
		if err != nil {
			return nil, err
		}
		iface.AddEvent(&models.Event{Name: ed.Name, SenderType: sender, ArgsType: args, Documentation: doc(ed.Doc)})
	}

	for _, fd := range decl.Factories {
		f, err := fb.factory(fd, iface.Name())
		if err != nil {
			return nil, err
		}
		iface.Factories = append(iface.Factories, f)
	}
	return iface, nil
}

func (fb *fileBuild) factory(decl Factory, interfaceName string) (*models.RTFactory, error) {
	if decl.Name == "" {
		return nil, errors.NewManifestError(fb.path, "factory without a name")
	}
	if interfaceName == "" {
		return nil, errors.NewManifestError(fb.path, "factory '"+decl.Name+"' does not name the interface it builds")
	}
	if err := fb.directives(decl.Directives); err != nil {
		return nil, err
	}

	args, err := fb.arguments(decl.Args, decl.Name)
	if err != nil {
		return nil, err
	}
	f := &models.RTFactory{
		Name:          decl.Name,
		PrettyName:    decl.PrettyName,
		InterfaceName: interfaceName,
		Arguments:     args,
		Documentation: doc(decl.Doc),
	}
	fb.file.Attributes.ApplyToFactory(f)
	return f, nil
}

func (fb *fileBuild) enum(decl Enum) *models.Enumeration {
	e := &models.Enumeration{Name: decl.Name, Documentation: doc(decl.Doc)}
	for _, v := range decl.Values {
		e.Values = append(e.Values, models.EnumValue{Name: v.Name, Value: v.Value, Documentation: doc(v.Doc)})
	}
	return e
}

func doc(d *Doc) *models.Documentation {
	if d == nil {
		return nil
	}
	return &models.Documentation{
		Brief:      d.Brief,
		Lines:      d.Lines,
		Params:     d.Params,
		Returns:    d.Returns,
		Throws:     d.Throws,
		Deprecated: d.Deprecated,
	}
}
