package errors

import (
	"fmt"
	"strings"
)

// AttributeError reports a directive whose arguments do not match the
// handler's expected shape. It aborts generation of the current file.
type AttributeError struct {
	*BaseError
	Attribute string // directive name
	Usage     string // expected shape, e.g. "valueType(Name)"
	Reason    string // what was wrong
}

// NewAttributeError creates an attribute error citing the directive and its expected shape
func NewAttributeError(attribute, usage, reason string) *AttributeError {
	message := fmt.Sprintf("attribute '%s': %s (expected %s)", attribute, reason, usage)
	err := &AttributeError{
		BaseError: New(AttributeErrorCode, message),
		Attribute: attribute,
		Usage:     usage,
		Reason:    reason,
	}
	err.WithContext("attribute", attribute)
	err.WithSuggestion(fmt.Sprintf("Use the form %s", usage))
	return err
}

// ManifestError reports a malformed model description.
type ManifestError struct {
	*BaseError
	Path string
}

// NewManifestError creates a manifest error for the given file
func NewManifestError(path, message string) *ManifestError {
	err := &ManifestError{
		BaseError: New(ManifestErrorCode, message),
		Path:      path,
	}
	err.WithLocation(SourceLocation{File: path})
	return err
}

// TypeMappingError represents a type that has no mapping in the target
// language. Only raised when strict generic resolution is enabled.
type TypeMappingError struct {
	*BaseError
	TypeName string
	Where    string
}

// NewTypeMappingError creates a type mapping error
func NewTypeMappingError(typeName, context string) *TypeMappingError {
	message := fmt.Sprintf("no generic mapping for type '%s'", typeName)
	if context != "" {
		message = fmt.Sprintf("%s in %s", message, context)
	}
	err := &TypeMappingError{
		BaseError: New(TypeMappingErrorCode, message),
		TypeName:  typeName,
		Where:     context,
	}
	err.WithSuggestion("Add an elementType(...) attribute to the argument or register the class as generic in the language profile")
	return err
}

// GenerationError represents an error during code generation
type GenerationError struct {
	*BaseError
	GenerationType string // e.g. "file", "class", "method"
	TargetFile     string
	Stage          string
}

// NewGenerationError creates a new generation error
func NewGenerationError(message string) *GenerationError {
	return &GenerationError{
		BaseError: New(GenerationErrorCode, message),
	}
}

// FormatWithHints renders an error followed by any suggestions, one per line.
func FormatWithHints(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(err.Error())
	for _, hint := range AllHints(err) {
		b.WriteString("\n  hint: ")
		b.WriteString(hint)
	}
	return b.String()
}
