package utils

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// FieldError is a single rejected setting
type FieldError struct {
	Field   string
	Value   any
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Rule inspects a value and returns a message when it is rejected
type Rule[T any] func(T) string

// Problems collects every rejected field so they can be reported at once
type Problems struct {
	errs []FieldError
}

// Check runs rules against value in order and records the first failure
func Check[T any](p *Problems, field string, value T, rules ...Rule[T]) bool {
	for _, rule := range rules {
		if msg := rule(value); msg != "" {
			p.errs = append(p.errs, FieldError{Field: field, Value: value, Message: msg})
			return false
		}
	}
	return true
}

// CheckEach runs rules against every element, naming failures field[i]
func CheckEach[T any](p *Problems, field string, values []T, rules ...Rule[T]) bool {
	ok := true
	for i, v := range values {
		ok = Check(p, fmt.Sprintf("%s[%d]", field, i), v, rules...) && ok
	}
	return ok
}

// Addf records a problem that no single rule expresses
func (p *Problems) Addf(field, format string, args ...any) {
	p.errs = append(p.errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Fields returns the recorded problems in the order they were found
func (p *Problems) Fields() []FieldError {
	return p.errs
}

// Empty reports whether nothing was rejected
func (p *Problems) Empty() bool {
	return len(p.errs) == 0
}

func (p *Problems) String() string {
	msgs := make([]string, len(p.errs))
	for i, e := range p.errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Required rejects blank strings
func Required(value string) string {
	if strings.TrimSpace(value) == "" {
		return "is required"
	}
	return ""
}

// Pattern rejects strings that do not match expr
func Pattern(expr string) Rule[string] {
	re := regexp.MustCompile(expr)
	return func(value string) string {
		if !re.MatchString(value) {
			return fmt.Sprintf("%q does not match %s", value, expr)
		}
		return ""
	}
}

// OneOf rejects values outside allowed
func OneOf[T comparable](allowed ...T) Rule[T] {
	return func(value T) string {
		for _, a := range allowed {
			if value == a {
				return ""
			}
		}
		return fmt.Sprintf("%v is not one of %v", value, allowed)
	}
}

// Min rejects integers below n
func Min(n int) Rule[int] {
	return func(value int) string {
		if value < n {
			return fmt.Sprintf("must be at least %d, got %d", n, value)
		}
		return ""
	}
}

// Semver accepts versions such as 3.1.0 or v3.1.0-rc.1. Empty passes.
func Semver(value string) string {
	if value == "" {
		return ""
	}
	v := value
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Sprintf("%q is not a semantic version", value)
	}
	return ""
}

// Satisfies wraps a predicate; message is reported when it returns false
func Satisfies[T any](message string, pred func(T) bool) Rule[T] {
	return func(value T) string {
		if !pred(value) {
			return message
		}
		return ""
	}
}
