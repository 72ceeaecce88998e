package mapping

import (
	"embed"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/toyz/rtgen/internal/errors"
)

//go:embed profiles/*.toml
var profiles embed.FS

// DefaultLanguage is the profile used when none is configured
const DefaultLanguage = "csharp"

// GenericSyntax describes how generic argument lists are written
type GenericSyntax struct {
	Open      string `toml:"open"`
	Close     string `toml:"close"`
	Separator string `toml:"separator"`
}

// NamingStyles selects the case style per identifier category
type NamingStyles struct {
	Type      Style `toml:"type"`
	Method    Style `toml:"method"`
	Property  Style `toml:"property"`
	Argument  Style `toml:"argument"`
	EnumValue Style `toml:"enum_value"`
}

// Language is a target-language profile
type Language struct {
	Name            string              `toml:"name"`
	Extension       string              `toml:"extension"`
	UniversalObject string              `toml:"universal_object"`
	OpaqueHandle    string              `toml:"opaque_handle"`
	ArraySuffix     string              `toml:"array_suffix"`
	KeywordEscape   string              `toml:"keyword_escape"`
	ReaderClasses   []string            `toml:"reader_classes"`
	Keywords        []string            `toml:"keywords"`
	Generics        GenericSyntax       `toml:"generics"`
	Naming          NamingStyles        `toml:"naming"`
	Primitives      map[string]string   `toml:"primitives"`
	CastTypes       map[string]string   `toml:"cast_types"`
	WrapperClasses  map[string]string   `toml:"wrapper_classes"`
	Enums           map[string]string   `toml:"enums"`
	GenericClasses  map[string][]string `toml:"generic_classes"`

	keywords map[string]bool
	readers  map[string]bool
}

// LoadLanguage resolves a language by built-in name or TOML profile path
func LoadLanguage(nameOrPath string) (*Language, error) {
	if nameOrPath == "" {
		nameOrPath = DefaultLanguage
	}
	if strings.HasSuffix(nameOrPath, ".toml") {
		data, err := os.ReadFile(nameOrPath)
		if err != nil {
			return nil, errors.WrapFileSystemError("read", nameOrPath, err)
		}
		return ParseLanguage(filepath.Base(nameOrPath), data)
	}
	return BuiltinLanguage(nameOrPath)
}

// BuiltinLanguage loads an embedded profile
func BuiltinLanguage(name string) (*Language, error) {
	data, err := profiles.ReadFile("profiles/" + name + ".toml")
	if err != nil {
		return nil, errors.ConfigurationError("language", "unknown language '"+name+"'").
			WithSuggestion("Use a built-in language such as 'csharp' or a path to a .toml profile")
	}
	return ParseLanguage(name, data)
}

// BuiltinLanguages lists the embedded profile names
func BuiltinLanguages() []string {
	entries, err := profiles.ReadDir("profiles")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	return names
}

// ParseLanguage decodes and validates a TOML profile
func ParseLanguage(source string, data []byte) (*Language, error) {
	var lang Language
	if _, err := toml.Decode(string(data), &lang); err != nil {
		return nil, errors.WrapConfigurationError(source, "parse", err)
	}
	if err := lang.init(); err != nil {
		return nil, err
	}
	return &lang, nil
}

func (l *Language) init() error {
	if l.Name == "" {
		return errors.ConfigurationError("name", "language profile has no name")
	}
	if l.UniversalObject == "" {
		return errors.ConfigurationError("universal_object", "language profile '"+l.Name+"' must name a universal object type")
	}
	if l.Generics.Open == "" || l.Generics.Close == "" {
		l.Generics = GenericSyntax{Open: "<", Close: ">", Separator: ", "}
	}
	if l.Generics.Separator == "" {
		l.Generics.Separator = ", "
	}
	if l.OpaqueHandle == "" {
		l.OpaqueHandle = l.UniversalObject
	}
	if l.ArraySuffix == "" {
		l.ArraySuffix = "[]"
	}

	for _, style := range []Style{l.Naming.Type, l.Naming.Method, l.Naming.Property, l.Naming.Argument, l.Naming.EnumValue} {
		if !style.Valid() {
			return errors.ConfigurationError("naming", "unknown naming style '"+string(style)+"'").
				WithSuggestion("Use one of: pascal, camel, snake, screaming_snake, kebab, preserve")
		}
	}

	l.keywords = make(map[string]bool, len(l.Keywords))
	for _, k := range l.Keywords {
		l.keywords[k] = true
	}
	l.readers = make(map[string]bool, len(l.ReaderClasses))
	for _, r := range l.ReaderClasses {
		l.readers[r] = true
	}
	return nil
}

// IsKeyword reports whether name is reserved in the language
func (l *Language) IsKeyword(name string) bool {
	return l.keywords[name]
}

// IsReaderClass reports whether the native class belongs to the reader family
func (l *Language) IsReaderClass(name string) bool {
	return l.readers[name]
}

// GenericParams returns the declared generic parameters of a native class
func (l *Language) GenericParams(name string) ([]string, bool) {
	params, ok := l.GenericClasses[name]
	return params, ok && len(params) > 0
}

// JoinGenerics renders a generic argument list
func (l *Language) JoinGenerics(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + l.Generics.Open + strings.Join(args, l.Generics.Separator) + l.Generics.Close
}
