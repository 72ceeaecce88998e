package attributes

import (
	"fmt"

	"github.com/toyz/rtgen/internal/errors"
)

// Unlimited marks a schema without an upper positional bound
const Unlimited = -1

// Schema describes the argument shape a handler accepts
type Schema struct {
	Name        string
	Description string
	Usage       string // expected shape quoted in errors, e.g. "valueType(Name)"

	MinPositional int
	MaxPositional int // Unlimited for no bound

	NamedKeys    map[string]ParameterType // allowed named keys
	AnyNamed     bool                     // accept arbitrary named keys as strings
	MinNamed     int                      // minimum number of named arguments
	TrailingBool bool                     // the last positional argument, when present, must be a boolean

	Examples []string
}

// Validate checks args against the schema. Violations are AttributeErrors
// citing the attribute and its usage.
func (s Schema) Validate(args []Arg) error {
	positional, named := splitArgs(args)

	if len(positional) < s.MinPositional {
		return s.fail(fmt.Sprintf("expects at least %d positional argument(s), got %d", s.MinPositional, len(positional)))
	}
	if s.MaxPositional != Unlimited && len(positional) > s.MaxPositional {
		if s.MaxPositional == 0 {
			return s.fail(fmt.Sprintf("takes no positional arguments, got %d", len(positional)))
		}
		return s.fail(fmt.Sprintf("expects at most %d positional argument(s), got %d", s.MaxPositional, len(positional)))
	}

	for _, arg := range positional {
		if arg.Value == "" && !arg.Quoted {
			return s.fail("positional arguments must not be empty")
		}
	}

	if s.TrailingBool && len(positional) > 0 {
		last := positional[len(positional)-1]
		if _, ok := parseBool(last.Value); !ok {
			return s.fail(fmt.Sprintf("trailing argument '%s' must be a boolean", last.Value))
		}
	}

	if len(named) < s.MinNamed {
		return s.fail(fmt.Sprintf("expects at least %d named argument(s), got %d", s.MinNamed, len(named)))
	}

	seen := make(map[string]bool, len(named))
	for _, arg := range named {
		if seen[arg.Named] {
			return s.fail(fmt.Sprintf("duplicate named argument '%s'", arg.Named))
		}
		seen[arg.Named] = true

		paramType, known := s.NamedKeys[arg.Named]
		if !known {
			if s.AnyNamed {
				continue
			}
			return s.fail(fmt.Sprintf("unexpected named argument '%s'", arg.Named))
		}
		if paramType == BoolType {
			if _, ok := parseBool(arg.Value); !ok {
				return s.fail(fmt.Sprintf("named argument '%s' must be a boolean, got '%s'", arg.Named, arg.Value))
			}
		}
	}

	return nil
}

func (s Schema) fail(reason string) error {
	return errors.NewAttributeError(s.Name, s.Usage, reason)
}

// validateSchema checks a schema is internally consistent before registration
func validateSchema(s Schema) error {
	if s.Name == "" {
		return errors.New(errors.ConfigurationErrorCode, "attribute name cannot be empty")
	}
	if s.Usage == "" {
		return errors.Newf(errors.ConfigurationErrorCode, "attribute '%s' has no usage string", s.Name)
	}
	if s.MinPositional < 0 {
		return errors.Newf(errors.ConfigurationErrorCode, "attribute '%s' has a negative minimum", s.Name)
	}
	if s.MaxPositional != Unlimited && s.MaxPositional < s.MinPositional {
		return errors.Newf(errors.ConfigurationErrorCode,
			"attribute '%s' maximum %d is below minimum %d", s.Name, s.MaxPositional, s.MinPositional)
	}
	for key := range s.NamedKeys {
		if key == "" {
			return errors.Newf(errors.ConfigurationErrorCode, "attribute '%s' has an empty named key", s.Name)
		}
	}
	return nil
}
