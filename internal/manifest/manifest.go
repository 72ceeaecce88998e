// Package manifest loads model descriptions of one source unit from YAML or
// TOML and builds the RTFile the generators consume.
package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/toyz/rtgen/internal/errors"
)

// Format is the serialization of a manifest
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Suffixes lists the file name endings recognised as manifests
var Suffixes = []string{".rtgen.yaml", ".rtgen.yml", ".rtgen.toml"}

// FormatOf picks the format from a file extension
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	}
	return "", false
}

// BaseName strips the manifest suffix from a path
func BaseName(path string) string {
	base := filepath.Base(path)
	for _, suffix := range Suffixes {
		if strings.HasSuffix(base, suffix) {
			return strings.TrimSuffix(base, suffix)
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Directive is one attribute directive as written, e.g. "valueTypes(SampleType)".
// Line is known for YAML sources only.
type Directive struct {
	Text string
	Line int
}

// UnmarshalYAML keeps the line the directive was written on
func (d *Directive) UnmarshalYAML(node *yaml.Node) error {
	d.Line = node.Line
	return node.Decode(&d.Text)
}

// UnmarshalText decodes TOML string values
func (d *Directive) UnmarshalText(text []byte) error {
	d.Text = string(text)
	return nil
}

// Doc is a documentation comment
type Doc struct {
	Brief      string            `yaml:"brief" toml:"brief"`
	Lines      []string          `yaml:"lines" toml:"lines"`
	Params     map[string]string `yaml:"params" toml:"params"`
	Returns    string            `yaml:"returns" toml:"returns"`
	Throws     []string          `yaml:"throws" toml:"throws"`
	Deprecated string            `yaml:"deprecated" toml:"deprecated"`
}

// Argument describes one method or factory argument
type Argument struct {
	Name    string `yaml:"name" toml:"name"`
	Type    string `yaml:"type" toml:"type"`
	Default string `yaml:"default" toml:"default"`
	Const   bool   `yaml:"const" toml:"const"`
}

// Overload is an additional argument-list shape of a method
type Overload struct {
	Kind    string     `yaml:"kind" toml:"kind"`
	Returns string     `yaml:"returns" toml:"returns"`
	Args    []Argument `yaml:"args" toml:"args"`
}

// Method describes an interface method or a global function. An empty
// Returns means ErrCode.
type Method struct {
	Name              string      `yaml:"name" toml:"name"`
	Returns           string      `yaml:"returns" toml:"returns"`
	CallingConvention string      `yaml:"calling_convention" toml:"calling_convention"`
	Modifiers         []string    `yaml:"modifiers" toml:"modifiers"`
	Directives        []Directive `yaml:"directives" toml:"directives"`
	Args              []Argument  `yaml:"args" toml:"args"`
	Overloads         []Overload  `yaml:"overloads" toml:"overloads"`
	Doc               *Doc        `yaml:"doc" toml:"doc"`
}

// Event describes an interface event
type Event struct {
	Name   string `yaml:"name" toml:"name"`
	Sender string `yaml:"sender" toml:"sender"`
	Args   string `yaml:"args" toml:"args"`
	Doc    *Doc   `yaml:"doc" toml:"doc"`
}

// Factory describes a construction function. Interface may be empty for
// factories declared inside an interface.
type Factory struct {
	Name       string      `yaml:"name" toml:"name"`
	PrettyName string      `yaml:"pretty_name" toml:"pretty_name"`
	Interface  string      `yaml:"interface" toml:"interface"`
	Directives []Directive `yaml:"directives" toml:"directives"`
	Args       []Argument  `yaml:"args" toml:"args"`
	Doc        *Doc        `yaml:"doc" toml:"doc"`
}

// Interface describes an interface declaration
type Interface struct {
	Name          string      `yaml:"name" toml:"name"`
	Base          string      `yaml:"base" toml:"base"`
	PropertyClass string      `yaml:"property_class" toml:"property_class"`
	Directives    []Directive `yaml:"directives" toml:"directives"`
	Methods       []Method    `yaml:"methods" toml:"methods"`
	Events        []Event     `yaml:"events" toml:"events"`
	Factories     []Factory   `yaml:"factories" toml:"factories"`
	Doc           *Doc        `yaml:"doc" toml:"doc"`
}

// EnumValue is one enumerator
type EnumValue struct {
	Name  string `yaml:"name" toml:"name"`
	Value string `yaml:"value" toml:"value"`
	Doc   *Doc   `yaml:"doc" toml:"doc"`
}

// Enum describes an enumeration
type Enum struct {
	Name   string      `yaml:"name" toml:"name"`
	Values []EnumValue `yaml:"values" toml:"values"`
	Doc    *Doc        `yaml:"doc" toml:"doc"`
}

// Manifest is the description of one source unit. File-level directives
// are handled before any entity is built.
type Manifest struct {
	Name         string            `yaml:"name" toml:"name"`
	Namespace    string            `yaml:"namespace" toml:"namespace"`
	LeadingDocs  []string          `yaml:"leading_docs" toml:"leading_docs"`
	TrailingDocs []string          `yaml:"trailing_docs" toml:"trailing_docs"`
	Directives   []Directive       `yaml:"directives" toml:"directives"`
	Aliases      map[string]string `yaml:"aliases" toml:"aliases"`
	Enums        []Enum            `yaml:"enums" toml:"enums"`
	Interfaces   []Interface       `yaml:"interfaces" toml:"interfaces"`
	Functions    []Method          `yaml:"functions" toml:"functions"`
	Factories    []Factory         `yaml:"factories" toml:"factories"`
}

// Decode parses manifest data. Unknown keys are rejected.
func Decode(path string, data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			return nil, errors.WrapManifestError(path, err)
		}
	case FormatTOML:
		md, err := toml.Decode(string(data), &m)
		if err != nil {
			return nil, errors.WrapManifestError(path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, errors.NewManifestError(path, "unknown keys: "+strings.Join(keys, ", "))
		}
	default:
		return nil, errors.NewManifestError(path, "unsupported manifest format '"+string(format)+"'")
	}

	if m.Name == "" {
		m.Name = BaseName(path)
	}
	return &m, nil
}

// ReadFile reads and decodes a manifest, picking the format from the extension
func ReadFile(path string) (*Manifest, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, errors.NewManifestError(path, "unrecognised manifest extension").
			WithSuggestion("Use .rtgen.yaml or .rtgen.toml")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return Decode(path, data, format)
}
