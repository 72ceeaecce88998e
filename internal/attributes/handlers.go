package attributes

import (
	"fmt"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/models"
)

const defaultAliasKey = "defaultAlias"

// Property-default vocabulary
const (
	settingVisible  = "visible"
	settingReadOnly = "readOnly"
	settingEnum     = "enum"
)

type builtin struct {
	schema  Schema
	handler Handler
}

func builtins() []builtin {
	return []builtin{
		{
			Schema{
				Name:          "templated",
				Description:   "Marks the next type as templated, or maps interfaces to explicit smart-pointer names",
				Usage:         "templated() or templated(IFace: Ptr, ..., [defaultAlias])",
				MaxPositional: 1,
				TrailingBool:  true,
				NamedKeys:     map[string]ParameterType{defaultAliasKey: BoolType},
				AnyNamed:      true,
				Examples:      []string{"templated()", "templated(IList: ListPtr, false)", "templated(IDict: DictPtr, defaultAlias: false)"},
			},
			handleTemplated,
		},
		{
			Schema{
				Name:          "valueType",
				Description:   "Declares a value type",
				Usage:         "valueType(Name)",
				MinPositional: 1,
				MaxPositional: 1,
			},
			handleValueTypes,
		},
		{
			Schema{
				Name:          "valueTypes",
				Description:   "Declares several value types",
				Usage:         "valueTypes(Name, ...)",
				MinPositional: 1,
				MaxPositional: Unlimited,
			},
			handleValueTypes,
		},
		{
			Schema{
				Name:          "propertyDefaults",
				Description:   "Resets or sets the defaults applied to declared properties",
				Usage:         "propertyDefaults() or propertyDefaults(visible | readOnly | enum, ...)",
				MaxPositional: 3,
				NamedKeys: map[string]ParameterType{
					settingVisible:  BoolType,
					settingReadOnly: BoolType,
					settingEnum:     BoolType,
				},
			},
			handlePropertyDefaults,
		},
		{
			Schema{
				Name:          "propertyClass",
				Description:   "Opens a property class",
				Usage:         "propertyClass(Name[, Parent])",
				MinPositional: 1,
				MaxPositional: 2,
			},
			handlePropertyClass,
		},
		{
			Schema{
				Name:        "endPropertyClass",
				Description: "Closes the open property class",
				Usage:       "endPropertyClass()",
			},
			handleEndPropertyClass,
		},
		{
			Schema{
				Name:          "property",
				Description:   "Adds a declarative property to the open property class",
				Usage:         "property(name, kind[, default])",
				MinPositional: 2,
				MaxPositional: 3,
			},
			handleProperty,
		},
		tableEntry("include", "include(Type, header)", "Adds a custom include for a type",
			func(info *models.AttributeInfo) map[string]string { return info.CustomIncludes }),
		tableEntry("smartPtr", "smartPtr(IFace, Ptr)", "Overrides the smart-pointer name of an interface",
			func(info *models.AttributeInfo) map[string]string { return info.PtrMappings }),
		tableEntry("namespace", "namespace(Type, ns)", "Overrides the namespace of a type",
			func(info *models.AttributeInfo) map[string]string { return info.NamespaceOverrides }),
		tableEntry("tag", "tag(Type, tag)", "Sets a custom tag name for a type",
			func(info *models.AttributeInfo) map[string]string { return info.TagNames }),
		tableEntry("mapType", "mapType(native, target)", "Remaps a native type name",
			func(info *models.AttributeInfo) map[string]string { return info.TypeMappings }),
		tableEntry("library", "library(Type, lib)", "Overrides the library a type belongs to",
			func(info *models.AttributeInfo) map[string]string { return info.LibraryOverrides }),
		{
			Schema{
				Name:          "flags",
				Description:   "Sets custom flags on a type",
				Usage:         "flags(Type, flag, ...)",
				MinPositional: 2,
				MaxPositional: Unlimited,
			},
			handleFlags,
		},
		{
			Schema{
				Name:          "options",
				Description:   "Sets custom options on a type",
				Usage:         "options(Type, key: value, ...)",
				MinPositional: 1,
				MaxPositional: 1,
				AnyNamed:      true,
				MinNamed:      1,
			},
			handleOptions,
		},
		{
			Schema{
				Name:          "ignore",
				Description:   "Skips the next method for the named generators",
				Usage:         "ignore(generator, ...)",
				MinPositional: 1,
				MaxPositional: Unlimited,
			},
			handleIgnore,
		},
		{
			Schema{
				Name:        "returnSelf",
				Description: "Marks the next method as fluent",
				Usage:       "returnSelf()",
			},
			func(ctx *Context, _ []Arg) error {
				ctx.Info.Next.Method.ReturnSelf = true
				return nil
			},
		},
		{
			Schema{
				Name:        "procedureProperty",
				Description: "Marks the next method as a procedure-kind property accessor",
				Usage:       "procedureProperty()",
			},
			func(ctx *Context, _ []Arg) error {
				ctx.Info.Next.Method.ProcedureProperty = true
				return nil
			},
		},
		{
			Schema{
				Name:          "elementType",
				Description:   "Sets the element type of a generic-capable argument",
				Usage:         "elementType(arg, Type)",
				MinPositional: 2,
				MaxPositional: 2,
			},
			func(ctx *Context, args []Arg) error {
				ctx.Info.NextArgument(args[0].Value).ElementType = ctx.typeArg(args[1])
				return nil
			},
		},
		{
			Schema{
				Name:          "arrayArg",
				Description:   "Marks an argument as an array sized by another argument or a literal",
				Usage:         "arrayArg(arg, size)",
				MinPositional: 2,
				MaxPositional: 2,
			},
			func(ctx *Context, args []Arg) error {
				ctx.Info.NextArgument(args[0].Value).ArraySize = args[1].Value
				return nil
			},
		},
		argumentFlagEntry("polymorphic", "Marks arguments as accepting any implementation",
			func(n *models.NextArgument) { n.Polymorphic = true }),
		argumentFlagEntry("stealRef", "Marks arguments whose reference is taken over by the callee",
			func(n *models.NextArgument) { n.StealsReference = true }),
		argumentFlagEntry("allowNull", "Marks arguments that accept null",
			func(n *models.NextArgument) { n.AllowNull = true }),
		{
			Schema{
				Name:          "genericFactory",
				Description:   "Declares the type placeholders of the next factory",
				Usage:         "genericFactory(T, ...)",
				MinPositional: 1,
				MaxPositional: Unlimited,
			},
			func(ctx *Context, args []Arg) error {
				ctx.Info.Next.Factory.Placeholders = values(args)
				return nil
			},
		},
	}
}

// RegisterBuiltins adds every built-in handler to r
func RegisterBuiltins(r Registry) error {
	for _, b := range builtins() {
		if err := r.Register(b.schema, b.handler); err != nil {
			return err
		}
	}
	return nil
}

// tableEntry builds a two-argument handler writing table[arg0] = arg1
func tableEntry(name, usage, description string, table func(*models.AttributeInfo) map[string]string) builtin {
	return builtin{
		Schema{
			Name:          name,
			Description:   description,
			Usage:         usage,
			MinPositional: 2,
			MaxPositional: 2,
		},
		func(ctx *Context, args []Arg) error {
			table(ctx.Info)[args[0].Value] = args[1].Value
			return nil
		},
	}
}

// argumentFlagEntry builds a handler setting a flag on each named argument
func argumentFlagEntry(name, description string, set func(*models.NextArgument)) builtin {
	return builtin{
		Schema{
			Name:          name,
			Description:   description,
			Usage:         fmt.Sprintf("%s(arg, ...)", name),
			MinPositional: 1,
			MaxPositional: Unlimited,
		},
		func(ctx *Context, args []Arg) error {
			for _, arg := range args {
				set(ctx.Info.NextArgument(arg.Value))
			}
			return nil
		},
	}
}

func handleTemplated(ctx *Context, args []Arg) error {
	if len(args) == 0 {
		ctx.Info.Next.Type.Templated = true
		return nil
	}

	defaultAlias := true
	positional, named := splitArgs(args)
	if len(positional) == 1 {
		defaultAlias, _ = parseBool(positional[0].Value)
	}
	for _, arg := range named {
		if arg.Named == defaultAliasKey {
			defaultAlias, _ = parseBool(arg.Value)
			continue
		}
		ctx.Info.PtrMappings[arg.Named] = arg.Value
	}
	ctx.Info.Next.Type.DefaultAlias = defaultAlias
	return nil
}

func handleValueTypes(ctx *Context, args []Arg) error {
	for _, arg := range args {
		ctx.Info.ValueTypes[arg.Value] = true
	}
	return nil
}

func handlePropertyDefaults(ctx *Context, args []Arg) error {
	defaults := models.DefaultPropertyDefaults()
	for _, arg := range args {
		key, enabled := arg.Value, true
		if arg.IsNamed() {
			key = arg.Named
			enabled, _ = parseBool(arg.Value)
		}
		switch key {
		case settingVisible:
			defaults.Visible = enabled
		case settingReadOnly:
			defaults.ReadOnly = enabled
		case settingEnum:
			defaults.IsEnum = enabled
		default:
			return errors.NewAttributeError("propertyDefaults",
				"propertyDefaults() or propertyDefaults(visible | readOnly | enum, ...)",
				fmt.Sprintf("unknown setting '%s'", key))
		}
	}
	ctx.Info.PropertyDefaults = defaults
	return nil
}

func handlePropertyClass(ctx *Context, args []Arg) error {
	var parent string
	if len(args) > 1 {
		parent = args[1].Value
	}
	ctx.Info.OpenPropertyClass(args[0].Value, parent)
	return nil
}

func handleEndPropertyClass(ctx *Context, _ []Arg) error {
	ctx.Info.ClosePropertyClass()
	return nil
}

func handleProperty(ctx *Context, args []Arg) error {
	pc := ctx.Info.PropertyClass
	if pc == nil {
		return nil
	}

	kind, ok := models.ParseCoreType(args[1].Value)
	if !ok {
		return errors.NewAttributeError("property", "property(name, kind[, default])",
			fmt.Sprintf("unknown property kind '%s'", args[1].Value))
	}

	var defaultValue string
	if len(args) > 2 {
		defaultValue = args[2].Value
	}
	pc.Add(models.NewProperty(args[0].Value, kind, defaultValue, ctx.Info.PropertyDefaults))
	return nil
}

func handleFlags(ctx *Context, args []Arg) error {
	typeName := args[0].Value
	ctx.Info.CustomFlags[typeName] = append(ctx.Info.CustomFlags[typeName], values(args[1:])...)
	return nil
}

func handleOptions(ctx *Context, args []Arg) error {
	positional, named := splitArgs(args)
	typeName := positional[0].Value

	opts, ok := ctx.Info.CustomOptions[typeName]
	if !ok {
		opts = make(map[string]string, len(named))
		ctx.Info.CustomOptions[typeName] = opts
	}
	for _, arg := range named {
		opts[arg.Named] = arg.Value
	}
	return nil
}

func handleIgnore(ctx *Context, args []Arg) error {
	if ctx.Info.Next.Method.IgnoredFor == nil {
		ctx.Info.Next.Method.IgnoredFor = make(map[string]bool, len(args))
	}
	for _, arg := range args {
		ctx.Info.Next.Method.IgnoredFor[arg.Value] = true
	}
	return nil
}
