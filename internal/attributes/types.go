package attributes

import (
	"strconv"
	"strings"

	"github.com/toyz/rtgen/internal/models"
)

// Arg is one tokenized directive argument
type Arg = models.AttributeArg

// Positional creates a positional argument
func Positional(value string) Arg {
	return Arg{Value: value}
}

// Quoted creates a positional string literal argument
func Quoted(value string) Arg {
	return Arg{Value: value, Quoted: true}
}

// Named creates a key: value argument
func Named(key, value string) Arg {
	return Arg{Named: key, Value: value}
}

// Handler mutates the generation state for one directive. Arguments have
// already been checked against the handler's schema.
type Handler func(ctx *Context, args []Arg) error

// ParameterType describes the expected shape of a named argument value
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	default:
		return "unknown"
	}
}

// splitArgs separates positional and named arguments keeping their order
func splitArgs(args []Arg) (positional []Arg, named []Arg) {
	for _, arg := range args {
		if arg.IsNamed() {
			named = append(named, arg)
		} else {
			positional = append(positional, arg)
		}
	}
	return positional, named
}

// parseBool accepts true/false in any case plus 1/0
func parseBool(value string) (bool, bool) {
	b, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(value)))
	if err != nil {
		return false, false
	}
	return b, true
}

// values returns the raw values of the given arguments
func values(args []Arg) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg.Value
	}
	return out
}
