package errors

import (
	"fmt"
	"sort"
	"strings"

	crdb "github.com/cockroachdb/errors"
)

// RtError is implemented by every error the generator raises on purpose
type RtError interface {
	error
	ErrorCode() ErrorCode
	Location() SourceLocation
	Fields() []Field
	Suggestions() []string
	Unwrap() error
}

// ErrorCode classifies a failure for reporting and exit handling
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota
	AttributeErrorCode
	ManifestErrorCode
	TemplateErrorCode
	TypeMappingErrorCode
	GenerationErrorCode
	FileSystemErrorCode
	ConfigurationErrorCode
)

var codeNames = map[ErrorCode][2]string{
	UnknownErrorCode:       {"UnknownError", "Unknown Error"},
	AttributeErrorCode:     {"AttributeError", "Attribute Error"},
	ManifestErrorCode:      {"ManifestError", "Manifest Error"},
	TemplateErrorCode:      {"TemplateError", "Template Error"},
	TypeMappingErrorCode:   {"TypeMappingError", "Type Mapping Error"},
	GenerationErrorCode:    {"GenerationError", "Code Generation Error"},
	FileSystemErrorCode:    {"FileSystemError", "File System Error"},
	ConfigurationErrorCode: {"ConfigurationError", "Configuration Error"},
}

func (c ErrorCode) String() string {
	if n, ok := codeNames[c]; ok {
		return n[0]
	}
	return codeNames[UnknownErrorCode][0]
}

// Title is the heading used when the error is printed for a person
func (c ErrorCode) Title() string {
	if n, ok := codeNames[c]; ok {
		return n[1]
	}
	return codeNames[UnknownErrorCode][1]
}

// SourceLocation points into a manifest or template. Line and Column are
// 1-based; zero means unknown.
type SourceLocation struct {
	File   string
	Line   int
	Column int
}

func (s SourceLocation) String() string {
	switch {
	case s.File == "":
		return "unknown location"
	case s.Line == 0:
		return s.File
	case s.Column == 0:
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	}
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// IsEmpty reports whether no file is known
func (s SourceLocation) IsEmpty() bool {
	return s.File == ""
}

func (s SourceLocation) before(o SourceLocation) bool {
	if s.File != o.File {
		return s.File < o.File
	}
	if s.Line != o.Line {
		return s.Line < o.Line
	}
	return s.Column < o.Column
}

// Field is one piece of context attached to an error
type Field struct {
	Key   string
	Value any
}

// BaseError carries a code, an optional location and cause, context fields
// in the order they were added, and hints for the user.
type BaseError struct {
	Code    ErrorCode
	Message string
	Loc     SourceLocation
	Cause   error

	fields []Field
	hints  []string
}

func (e *BaseError) Error() string {
	var b strings.Builder
	if !e.Loc.IsEmpty() {
		b.WriteString(e.Loc.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *BaseError) ErrorCode() ErrorCode     { return e.Code }
func (e *BaseError) Location() SourceLocation { return e.Loc }
func (e *BaseError) Fields() []Field          { return e.fields }
func (e *BaseError) Suggestions() []string    { return e.hints }
func (e *BaseError) Unwrap() error            { return e.Cause }

// Context returns the fields as a map
func (e *BaseError) Context() map[string]any {
	ctx := make(map[string]any, len(e.fields))
	for _, f := range e.fields {
		ctx[f.Key] = f.Value
	}
	return ctx
}

// WithLocation sets where the error occurred
func (e *BaseError) WithLocation(loc SourceLocation) *BaseError {
	e.Loc = loc
	return e
}

// WithContext sets a field, replacing an earlier value for the same key
func (e *BaseError) WithContext(key string, value any) *BaseError {
	for i := range e.fields {
		if e.fields[i].Key == key {
			e.fields[i].Value = value
			return e
		}
	}
	e.fields = append(e.fields, Field{Key: key, Value: value})
	return e
}

// WithSuggestion appends a hint
func (e *BaseError) WithSuggestion(suggestion string) *BaseError {
	e.hints = append(e.hints, suggestion)
	return e
}

// New creates an error with no cause
func New(code ErrorCode, message string) *BaseError {
	return &BaseError{Code: code, Message: message}
}

// Newf is New with a format string
func Newf(code ErrorCode, format string, args ...any) *BaseError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates an error around cause. The cause keeps a stack trace so
// verbose diagnostics can point at the failing call.
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	e := New(code, message)
	if cause != nil {
		e.Cause = crdb.WithStackDepth(cause, 1)
	}
	return e
}

// Wrapf is Wrap with a format string
func Wrapf(code ErrorCode, cause error, format string, args ...any) *BaseError {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// CodeOf returns the code of the first RtError in the chain
func CodeOf(err error) ErrorCode {
	var rt RtError
	if crdb.As(err, &rt) {
		return rt.ErrorCode()
	}
	return UnknownErrorCode
}

// AllHints collects suggestions from every RtError in the chain plus hints
// attached with WithHint, without duplicates.
func AllHints(err error) []string {
	seen := make(map[string]bool)
	var hints []string
	add := func(h string) {
		if h != "" && !seen[h] {
			seen[h] = true
			hints = append(hints, h)
		}
	}
	for e := err; e != nil; e = crdb.UnwrapOnce(e) {
		if rt, ok := e.(RtError); ok {
			for _, h := range rt.Suggestions() {
				add(h)
			}
		}
	}
	for _, h := range crdb.GetAllHints(err) {
		add(h)
	}
	return hints
}

// MultipleErrors gathers independent failures, one per manifest, so a run
// can report all of them at once.
type MultipleErrors struct {
	Errors []RtError
}

// NewMultipleErrors creates an empty collection
func NewMultipleErrors() *MultipleErrors {
	return &MultipleErrors{}
}

// Add records err. Errors without a code are classified as generation
// failures; nil is ignored.
func (e *MultipleErrors) Add(err error) {
	if err == nil {
		return
	}
	var rt RtError
	if !crdb.As(err, &rt) {
		rt = Wrap(GenerationErrorCode, "generation failed", err)
	}
	e.Errors = append(e.Errors, rt)
}

// Count returns the number of errors
func (e *MultipleErrors) Count() int {
	return len(e.Errors)
}

// CountCode returns how many collected errors carry code
func (e *MultipleErrors) CountCode(code ErrorCode) int {
	n := 0
	for _, err := range e.Errors {
		if err.ErrorCode() == code {
			n++
		}
	}
	return n
}

func (e *MultipleErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}
	lines := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		lines[i] = fmt.Sprintf("  %d. %s", i+1, err.Error())
	}
	return fmt.Sprintf("multiple errors (%d total):\n%s", len(e.Errors), strings.Join(lines, "\n"))
}

func (e *MultipleErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// ErrOrNil returns nil for an empty collection. Otherwise the errors are
// ordered by file, line and column so output is stable across runs.
func (e *MultipleErrors) ErrOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	sort.SliceStable(e.Errors, func(i, j int) bool {
		return e.Errors[i].Location().before(e.Errors[j].Location())
	})
	return e
}

// Inspection helpers re-exported so callers only import this package.
var (
	Is       = crdb.Is
	As       = crdb.As
	WithHint = crdb.WithHint
	Errorf   = crdb.Errorf
)
