package attributes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/models"
)

func newContext() *Context {
	return NewContext(models.NewAttributeInfo())
}

func TestHandleAttribute_Unknown(t *testing.T) {
	ctx := newContext()

	handled, err := ctx.HandleAttribute("frobnicate", []Arg{Positional("x"), Named("mode", "fast")})
	require.NoError(t, err)
	assert.False(t, handled)

	require.Len(t, ctx.Info.Unhandled, 1)
	assert.Equal(t, "frobnicate", ctx.Info.Unhandled[0].Name)
	assert.Equal(t, "fast", ctx.Info.Unhandled[0].Args[1].Value)
	assert.Len(t, ctx.Unhandled("frobnicate"), 1)
	assert.Empty(t, ctx.Unhandled("other"))
}

func TestHandleAttribute_Templated(t *testing.T) {
	t.Run("zero arguments sets the flag", func(t *testing.T) {
		ctx := newContext()
		handled, err := ctx.HandleAttribute("templated", nil)
		require.NoError(t, err)
		assert.True(t, handled)
		assert.True(t, ctx.Info.Next.Type.Templated)
		assert.Empty(t, ctx.Info.PtrMappings)
	})

	t.Run("mappings with trailing boolean", func(t *testing.T) {
		ctx := newContext()
		_, err := ctx.HandleAttribute("templated", []Arg{Named("IList", "ListPtr"), Named("IDict", "DictPtr"), Positional("false")})
		require.NoError(t, err)
		assert.False(t, ctx.Info.Next.Type.Templated)
		assert.False(t, ctx.Info.Next.Type.DefaultAlias)
		assert.Equal(t, "ListPtr", ctx.Info.PtrMappings["IList"])
		assert.Equal(t, "DictPtr", ctx.Info.PtrMappings["IDict"])
	})

	t.Run("named default alias", func(t *testing.T) {
		ctx := newContext()
		_, err := ctx.HandleAttribute("templated", []Arg{Named("IList", "ListPtr"), Named("defaultAlias", "true")})
		require.NoError(t, err)
		assert.True(t, ctx.Info.Next.Type.DefaultAlias)
		assert.NotContains(t, ctx.Info.PtrMappings, "defaultAlias")
	})

	t.Run("trailing argument must be boolean", func(t *testing.T) {
		ctx := newContext()
		_, err := ctx.HandleAttribute("templated", []Arg{Named("IList", "ListPtr"), Positional("maybe")})
		require.Error(t, err)
		assert.Equal(t, errors.AttributeErrorCode, errors.CodeOf(err))
	})
}

func TestHandleAttribute_ValueTypes(t *testing.T) {
	ctx := newContext()

	_, err := ctx.HandleAttribute("valueType", []Arg{Positional("IntfID")})
	require.NoError(t, err)
	_, err = ctx.HandleAttribute("valueTypes", []Arg{Positional("Complex"), Positional("Ratio")})
	require.NoError(t, err)

	assert.True(t, ctx.Info.ValueTypes["IntfID"])
	assert.True(t, ctx.Info.ValueTypes["Complex"])
	assert.True(t, ctx.Info.ValueTypes["Ratio"])
	assert.NotContains(t, ctx.Info.ValueTypes, "Intf")
}

func TestHandleAttribute_ArityErrors(t *testing.T) {
	tests := []struct {
		name      string
		attribute string
		args      []Arg
		contains  string
	}{
		{"valueType without name", "valueType", nil, "valueType(Name)"},
		{"valueType with two names", "valueType", []Arg{Positional("A"), Positional("B")}, "at most 1"},
		{"property with one argument", "property", []Arg{Positional("Rate")}, "property(name, kind[, default])"},
		{"returnSelf with argument", "returnSelf", []Arg{Positional("x")}, "takes no positional arguments"},
		{"unknown named key", "valueTypes", []Arg{Positional("A"), Named("kind", "x")}, "unexpected named argument 'kind'"},
		{"options without named", "options", []Arg{Positional("IFoo")}, "at least 1 named"},
		{"empty unquoted positional", "property", []Arg{Positional("Rate"), Positional("")}, "must not be empty"},
		{"bad property default setting", "propertyDefaults", []Arg{Positional("hidden")}, "unknown setting 'hidden'"},
		{"non-boolean named setting", "propertyDefaults", []Arg{Named("visible", "sometimes")}, "must be a boolean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := newContext()
			handled, err := ctx.HandleAttribute(tt.attribute, tt.args)
			assert.True(t, handled)
			require.Error(t, err)

			var attrErr *errors.AttributeError
			require.True(t, errors.As(err, &attrErr))
			assert.Equal(t, tt.attribute, attrErr.Attribute)
			assert.Contains(t, err.Error(), tt.attribute)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestHandleAttribute_ErrorLocation(t *testing.T) {
	ctx := newContext()
	ctx.Location = errors.SourceLocation{File: "list.rtgen.yaml", Line: 12}

	_, err := ctx.HandleAttribute("valueType", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list.rtgen.yaml:12")
}

func TestHandleAttribute_PropertyClass(t *testing.T) {
	ctx := newContext()

	t.Run("property outside a class is ignored", func(t *testing.T) {
		handled, err := ctx.HandleAttribute("property", []Arg{Positional("Rate"), Positional("float")})
		require.NoError(t, err)
		assert.True(t, handled)
		assert.Empty(t, ctx.Info.PropertyClasses)
	})

	t.Run("unknown kind outside a class is ignored", func(t *testing.T) {
		handled, err := ctx.HandleAttribute("property", []Arg{Positional("Rate"), Positional("matrix")})
		require.NoError(t, err)
		assert.True(t, handled)
		assert.Empty(t, ctx.Info.PropertyClasses)
	})

	_, err := ctx.HandleAttribute("propertyClass", []Arg{Positional("Channel"), Positional("Component")})
	require.NoError(t, err)
	_, err = ctx.HandleAttribute("propertyDefaults", []Arg{Positional("readOnly")})
	require.NoError(t, err)
	_, err = ctx.HandleAttribute("property", []Arg{Positional("Rate"), Positional("float"), Positional("1000.0")})
	require.NoError(t, err)
	_, err = ctx.HandleAttribute("propertyDefaults", nil)
	require.NoError(t, err)
	_, err = ctx.HandleAttribute("property", []Arg{Positional("OnTrigger"), Positional("procedure")})
	require.NoError(t, err)
	_, err = ctx.HandleAttribute("endPropertyClass", nil)
	require.NoError(t, err)
	_, err = ctx.HandleAttribute("property", []Arg{Positional("Late"), Positional("int")})
	require.NoError(t, err)

	t.Run("unknown kind inside a class fails", func(t *testing.T) {
		scoped := newContext()
		_, err := scoped.HandleAttribute("propertyClass", []Arg{Positional("Device")})
		require.NoError(t, err)
		_, err = scoped.HandleAttribute("property", []Arg{Positional("Rate"), Positional("matrix")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown property kind 'matrix'")
	})

	pc := ctx.Info.PropertyClassByName("Channel")
	require.NotNil(t, pc)
	assert.Equal(t, "Component", pc.Parent)
	require.Len(t, pc.Properties, 2)

	rate := pc.Lookup("Rate")
	assert.Equal(t, models.CoreTypeFloat, rate.Type)
	assert.True(t, rate.ReadOnly)
	assert.True(t, rate.Visible)
	assert.Equal(t, "1000.0", rate.DefaultValue)

	trigger := pc.Lookup("OnTrigger")
	assert.False(t, trigger.ReadOnly)
	assert.False(t, trigger.Visible)
	assert.Equal(t, models.DefaultValueNull, trigger.DefaultValue)

	assert.Nil(t, ctx.Info.PropertyClass)
}

func TestHandleAttribute_Tables(t *testing.T) {
	ctx := newContext()

	directives := []struct {
		name string
		args []Arg
	}{
		{"include", []Arg{Positional("IList"), Positional("coretypes/list.h")}},
		{"smartPtr", []Arg{Positional("IList"), Positional("ListPtr")}},
		{"namespace", []Arg{Positional("IList"), Positional("daq::core")}},
		{"tag", []Arg{Positional("IList"), Positional("List")}},
		{"mapType", []Arg{Positional("SizeT"), Positional("nuint")}},
		{"library", []Arg{Positional("IList"), Positional("CoreTypes")}},
		{"flags", []Arg{Positional("IList"), Positional("sealed"), Positional("noCopy")}},
		{"options", []Arg{Positional("IList"), Named("wrapper", "ListObject"), Named("iterable", "true")}},
	}
	for _, d := range directives {
		handled, err := ctx.HandleAttribute(d.name, d.args)
		require.NoError(t, err, d.name)
		require.True(t, handled, d.name)
	}

	info := ctx.Info
	assert.Equal(t, "coretypes/list.h", info.CustomIncludes["IList"])
	assert.Equal(t, "ListPtr", info.PtrMappings["IList"])
	assert.Equal(t, "daq::core", info.NamespaceOverrides["IList"])
	assert.Equal(t, "List", info.TagNames["IList"])
	assert.Equal(t, "nuint", info.TypeMappings["SizeT"])
	assert.Equal(t, "CoreTypes", info.LibraryOverrides["IList"])
	assert.True(t, info.HasFlag("IList", "noCopy"))
	v, ok := info.Option("IList", "wrapper")
	assert.True(t, ok)
	assert.Equal(t, "ListObject", v)

	assert.Equal(t, "nuint", info.NewTypeName("", "SizeT", "").Name)
}

func TestHandleAttribute_NextStaging(t *testing.T) {
	ctx := newContext()

	for _, d := range []struct {
		name string
		args []Arg
	}{
		{"ignore", []Arg{Positional("csharp"), Positional("python")}},
		{"returnSelf", nil},
		{"procedureProperty", nil},
		{"elementType", []Arg{Positional("items"), Positional("IString")}},
		{"arrayArg", []Arg{Positional("items"), Positional("count")}},
		{"polymorphic", []Arg{Positional("items")}},
		{"stealRef", []Arg{Positional("items"), Positional("owner")}},
		{"allowNull", []Arg{Positional("owner")}},
		{"genericFactory", []Arg{Positional("T"), Positional("U")}},
	} {
		_, err := ctx.HandleAttribute(d.name, d.args)
		require.NoError(t, err, d.name)
	}

	next := ctx.Info.Next
	assert.True(t, next.Method.IgnoredFor["csharp"])
	assert.True(t, next.Method.IgnoredFor["python"])
	assert.True(t, next.Method.ReturnSelf)
	assert.True(t, next.Method.ProcedureProperty)

	items := next.Arguments["items"]
	require.NotNil(t, items)
	assert.Equal(t, "IString", items.ElementType.UnmappedName)
	assert.Equal(t, "count", items.ArraySize)
	assert.True(t, items.Polymorphic)
	assert.True(t, items.StealsReference)
	assert.True(t, next.Arguments["owner"].AllowNull)
	assert.Equal(t, []string{"T", "U"}, next.Factory.Placeholders)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	err := r.Register(Schema{Name: "custom", Usage: "custom(x)", MinPositional: 1, MaxPositional: 1},
		func(ctx *Context, args []Arg) error {
			ctx.Info.TagNames["custom"] = args[0].Value
			return nil
		})
	require.NoError(t, err)

	err = r.Register(Schema{Name: "custom", Usage: "custom(x)"}, func(*Context, []Arg) error { return nil })
	assert.Error(t, err, "duplicate names are rejected")

	err = r.Register(Schema{Name: "broken", Usage: "broken()", MinPositional: 2, MaxPositional: 1}, func(*Context, []Arg) error { return nil })
	assert.Error(t, err)

	err = r.Register(Schema{Name: "nohandler", Usage: "nohandler()"}, nil)
	assert.Error(t, err)

	assert.Equal(t, []string{"custom"}, r.Names())

	ctx := NewContextWithRegistry(nil, r)
	handled, err := ctx.HandleAttribute("custom", []Arg{Positional("value")})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Equal(t, "value", ctx.Info.TagNames["custom"])

	handled, err = ctx.HandleAttribute("valueType", []Arg{Positional("X")})
	require.NoError(t, err)
	assert.False(t, handled, "built-ins are absent from a custom registry")
}

func TestDefaultRegistry(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())

	names := DefaultRegistry().Names()
	for _, name := range []string{"templated", "valueType", "valueTypes", "propertyDefaults", "property", "genericFactory"} {
		assert.Contains(t, names, name)
	}
}
