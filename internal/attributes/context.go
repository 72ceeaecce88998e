package attributes

import (
	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/models"
)

// Context is the generation state of one file during the parse phase. Each
// file gets its own context; nothing here is shared between files.
type Context struct {
	Info     *models.AttributeInfo
	Location errors.SourceLocation // position of the directive being handled, if known

	registry Registry
}

// NewContext creates a context over info using the built-in handlers
func NewContext(info *models.AttributeInfo) *Context {
	return NewContextWithRegistry(info, DefaultRegistry())
}

// NewContextWithRegistry creates a context with a custom handler table
func NewContextWithRegistry(info *models.AttributeInfo, r Registry) *Context {
	if info == nil {
		info = models.NewAttributeInfo()
	}
	return &Context{Info: info, registry: r}
}

// HandleAttribute dispatches one directive. Unknown names are recorded in
// Info.Unhandled and reported as not handled. A malformed directive returns
// an AttributeError and the file must not be generated.
func (c *Context) HandleAttribute(name string, args []Arg) (bool, error) {
	schema, handler, ok := c.registry.Lookup(name)
	if !ok {
		c.Info.Unhandled = append(c.Info.Unhandled, models.RawAttribute{
			Name: name,
			Args: append([]Arg(nil), args...),
		})
		return false, nil
	}

	if err := schema.Validate(args); err != nil {
		return true, c.locate(err)
	}
	if err := handler(c, args); err != nil {
		return true, c.locate(err)
	}
	return true, nil
}

// Unhandled returns the raw directives recorded under name
func (c *Context) Unhandled(name string) []models.RawAttribute {
	var out []models.RawAttribute
	for _, raw := range c.Info.Unhandled {
		if raw.Name == name {
			out = append(out, raw)
		}
	}
	return out
}

func (c *Context) locate(err error) error {
	if c.Location.IsEmpty() {
		return err
	}
	var attrErr *errors.AttributeError
	if errors.As(err, &attrErr) {
		attrErr.WithLocation(c.Location)
	}
	return err
}

// typeArg returns the parsed type of an argument, or builds one from its value
func (c *Context) typeArg(arg Arg) *models.TypeName {
	if arg.Type != nil {
		return arg.Type.Clone()
	}
	return c.Info.NewTypeName("", arg.Value, "")
}
