package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNamespace(t *testing.T) {
	tests := []struct {
		raw      string
		expected []string
	}{
		{"", nil},
		{"daq", []string{"daq"}},
		{"daq::core", []string{"daq", "core"}},
		{"Daq.Core.Objects", []string{"Daq", "Core", "Objects"}},
		{" daq :: core ", []string{"daq", "core"}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ns := ParseNamespace(tt.raw)
			assert.Equal(t, tt.expected, ns.Components)
		})
	}
}

func TestTypeName_IsValueType(t *testing.T) {
	tests := []struct {
		name     string
		typeName *TypeName
		expected bool
	}{
		{"void is never a value type", NewTypeName("", "void", "*"), false},
		{"interface convention is a reference type", NewTypeName("daq", "IString", "*"), false},
		{"plain primitive", NewTypeName("", "Int", ""), true},
		{"lower-case primitive", NewTypeName("", "double", ""), true},
		{"single uppercase letter", NewTypeName("", "T", ""), true},
		{"struct-like name", NewTypeName("daq", "SizeT", ""), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.typeName.IsValueType())
		})
	}

	t.Run("override wins", func(t *testing.T) {
		tn := NewTypeName("daq", "IGuid", "")
		assert.False(t, tn.IsValueType())
		tn.SetValueType(true)
		assert.True(t, tn.IsValueType())
		assert.True(t, tn.HasValueTypeOverride())
		assert.False(t, tn.IsInterface())
	})
}

func TestTypeName_NonInterfaceName(t *testing.T) {
	assert.Equal(t, "String", NewTypeName("", "IString", "*").NonInterfaceName())
	assert.Equal(t, "Int", NewTypeName("", "Int", "").NonInterfaceName())

	overridden := NewTypeName("", "IGuid", "")
	overridden.SetValueType(true)
	assert.Equal(t, "IGuid", overridden.NonInterfaceName())
}

func TestTypeName_CloneIsIndependent(t *testing.T) {
	source := NewTypeName("daq::core", "IDict", "*")
	key := NewTypeName("daq", "IString", "*")
	value := NewTypeName("daq", "IList", "*")
	value.GenericArguments = []*TypeName{NewTypeName("daq", "IInteger", "*")}
	source.GenericArguments = []*TypeName{key, value}
	source.SetValueType(false)

	clone := source.Clone()
	require.True(t, clone.Equal(source))

	clone.Name = "Changed"
	clone.Modifiers = "**"
	clone.Namespace.Components[0] = "other"
	clone.GenericArguments[0].Name = "Changed"
	clone.GenericArguments[1].GenericArguments[0].UnmappedName = "IFloat"
	clone.GenericArguments = append(clone.GenericArguments, NewTypeName("", "X", ""))
	clone.SetValueType(true)

	assert.Equal(t, "IDict", source.Name)
	assert.Equal(t, "*", source.Modifiers)
	assert.Equal(t, []string{"daq", "core"}, source.Namespace.Components)
	assert.Equal(t, "IString", source.GenericArguments[0].Name)
	assert.Equal(t, "IInteger", source.GenericArguments[1].GenericArguments[0].UnmappedName)
	assert.Len(t, source.GenericArguments, 2)
	assert.False(t, source.IsValueType())
}

func TestTypeName_String(t *testing.T) {
	tn := NewTypeName("daq", "IList", "**")
	tn.GenericArguments = []*TypeName{NewTypeName("", "IString", "")}
	assert.Equal(t, "daq::IList<IString>**", tn.String())

	var nilType *TypeName
	assert.Equal(t, "<nil>", nilType.String())
}

func TestArgument_IsOutParam(t *testing.T) {
	tests := []struct {
		name   string
		arg    *Argument
		out    bool
		outPtr bool
	}{
		{"value type pointer", NewArgument("value", NewTypeName("", "Int", "*")), true, false},
		{"value type by value", NewArgument("value", NewTypeName("", "Int", "")), false, false},
		{"reference type double pointer", NewArgument("obj", NewTypeName("", "IString", "**")), true, false},
		{"reference type single pointer", NewArgument("obj", NewTypeName("", "IString", "*")), false, false},
		{"reference type triple pointer", NewArgument("obj", NewTypeName("", "IString", "***")), true, true},
		{"value type double pointer", NewArgument("value", NewTypeName("", "Int", "**")), true, true},
		{"array of values", &Argument{Name: "values", Type: NewTypeName("", "Int", "*"), ArraySize: "count"}, false, false},
		{"array of value out pointers", &Argument{Name: "values", Type: NewTypeName("", "Int", "**"), ArraySize: "count"}, true, false},
		{"array of objects", &Argument{Name: "objs", Type: NewTypeName("", "IBaseObject", "**"), ArraySize: "count"}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.out, tt.arg.IsOutParam())
			assert.Equal(t, tt.outPtr, tt.arg.IsOutPointer())
		})
	}
}
