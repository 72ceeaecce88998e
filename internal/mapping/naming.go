package mapping

import (
	"strings"

	"github.com/iancoleman/strcase"
)

// Style is an identifier case style
type Style string

const (
	StylePreserve       Style = "preserve"
	StylePascal         Style = "pascal"
	StyleCamel          Style = "camel"
	StyleSnake          Style = "snake"
	StyleScreamingSnake Style = "screaming_snake"
	StyleKebab          Style = "kebab"
)

// Valid reports whether the style is known. The empty style means preserve.
func (s Style) Valid() bool {
	switch s {
	case "", StylePreserve, StylePascal, StyleCamel, StyleSnake, StyleScreamingSnake, StyleKebab:
		return true
	}
	return false
}

// Apply converts name to the style
func (s Style) Apply(name string) string {
	switch s {
	case StylePascal:
		return strcase.ToCamel(name)
	case StyleCamel:
		return strcase.ToLowerCamel(name)
	case StyleSnake:
		return strcase.ToSnake(name)
	case StyleScreamingSnake:
		return strcase.ToScreamingSnake(name)
	case StyleKebab:
		return strcase.ToKebab(name)
	default:
		return name
	}
}

// Escape prefixes reserved words with the language's escape marker
func (l *Language) Escape(name string) string {
	if l.IsKeyword(name) {
		if l.KeywordEscape == "" {
			return name + "_"
		}
		return l.KeywordEscape + name
	}
	return name
}

// TypeName applies the type naming style
func (l *Language) TypeName(name string) string {
	return l.Naming.Type.Apply(name)
}

// MethodName applies the method naming style
func (l *Language) MethodName(name string) string {
	return l.Escape(l.Naming.Method.Apply(name))
}

// PropertyName applies the property naming style
func (l *Language) PropertyName(name string) string {
	return l.Escape(l.Naming.Property.Apply(name))
}

// ArgumentName applies the argument naming style and escapes keywords
func (l *Language) ArgumentName(name string) string {
	return l.Escape(l.Naming.Argument.Apply(name))
}

// EnumValueName applies the enum value naming style
func (l *Language) EnumValueName(name string) string {
	return l.Escape(l.Naming.EnumValue.Apply(name))
}

// Singularize returns an English singular form for matching purposes
func Singularize(word string) string {
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "ies") && len(word) > 3:
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(lower, "sses"), strings.HasSuffix(lower, "xes"),
		strings.HasSuffix(lower, "ches"), strings.HasSuffix(lower, "shes"):
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "ss"), strings.HasSuffix(lower, "us"), strings.HasSuffix(lower, "is"):
		return word
	case strings.HasSuffix(lower, "s") && len(word) > 1:
		return word[:len(word)-1]
	}
	return word
}

// paramCore strips the conventional T prefix and Type suffix from a generic
// parameter name: TValueType -> Value, TKey -> Key.
func paramCore(param string) string {
	core := param
	if len(core) > 1 && core[0] == 'T' && core[1] >= 'A' && core[1] <= 'Z' {
		core = core[1:]
	}
	if trimmed := strings.TrimSuffix(core, "Type"); trimmed != "" {
		core = trimmed
	}
	return core
}
