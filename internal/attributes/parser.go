package attributes

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/models"
)

// Directive is the root of one attribute directive: name(arg, key: value)
type Directive struct {
	Name string      `parser:"@Ident"`
	Args []*Argument `parser:"( '(' ( @@ ( ',' @@ )* )? ')' )?"`
}

// Argument is one positional or named directive argument
type Argument struct {
	Key   string `parser:"( @Ident ':' )?"`
	Value *Value `parser:"@@"`
}

// Value is a string, a number or a type expression
type Value struct {
	String *string   `parser:"  @String"`
	Number *string   `parser:"| @Number"`
	Type   *TypeExpr `parser:"| @@"`
}

// TypeExpr is a possibly namespaced, generic and decorated type reference
// such as daq::IList<IString>**
type TypeExpr struct {
	Path      []string    `parser:"@Ident ( '::' @Ident )*"`
	Generics  []*TypeExpr `parser:"( '<' @@ ( ',' @@ )* '>' )?"`
	Modifiers []string    `parser:"@( '*' | '&' )*"`
}

var directiveLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Number", Pattern: `-?[0-9]+(\.[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Scope", Pattern: `::`},
	{Name: "Punct", Pattern: `[(),:<>*&]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var (
	directiveParser = participle.MustBuild[Directive](
		participle.Lexer(directiveLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	typeParser = participle.MustBuild[TypeExpr](
		participle.Lexer(directiveLexer),
		participle.Elide("Whitespace"),
		participle.UseLookahead(2),
	)
)

// ParseDirective tokenizes directive text into a name and arguments. Type
// arguments carry a parsed TypeName built against info's tables when info
// is not nil.
func ParseDirective(text string, info *models.AttributeInfo) (string, []Arg, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil, errors.New(errors.AttributeErrorCode, "empty directive")
	}

	ast, err := directiveParser.ParseString("", text)
	if err != nil {
		return "", nil, errors.Wrapf(errors.AttributeErrorCode, err, "malformed directive '%s'", text).
			WithSuggestion("Directives have the form name(arg, key: value)")
	}

	args := make([]Arg, 0, len(ast.Args))
	for _, a := range ast.Args {
		arg := Arg{Named: a.Key}
		switch {
		case a.Value.String != nil:
			arg.Value = *a.Value.String
			arg.Quoted = true
		case a.Value.Number != nil:
			arg.Value = *a.Value.Number
		case a.Value.Type != nil:
			arg.Value = a.Value.Type.String()
			if a.Value.Type.IsDecorated() {
				arg.Type = a.Value.Type.TypeName(info)
			}
		}
		args = append(args, arg)
	}
	return ast.Name, args, nil
}

// ParseType parses a type expression into a TypeName applying info's tables
func ParseType(text string, info *models.AttributeInfo) (*models.TypeName, error) {
	expr, err := typeParser.ParseString("", strings.TrimSpace(text))
	if err != nil {
		return nil, errors.Wrapf(errors.ManifestErrorCode, err, "malformed type '%s'", text)
	}
	return expr.TypeName(info), nil
}

// IsDecorated reports whether the expression is more than a bare identifier
func (t *TypeExpr) IsDecorated() bool {
	return len(t.Path) > 1 || len(t.Generics) > 0 || len(t.Modifiers) > 0
}

// Name returns the last path element
func (t *TypeExpr) Name() string {
	return t.Path[len(t.Path)-1]
}

// Namespace returns the path without the name
func (t *TypeExpr) Namespace() string {
	return strings.Join(t.Path[:len(t.Path)-1], "::")
}

// String renders the expression back to source form
func (t *TypeExpr) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(t.Path, "::"))
	if len(t.Generics) > 0 {
		b.WriteByte('<')
		for i, g := range t.Generics {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(g.String())
		}
		b.WriteByte('>')
	}
	b.WriteString(strings.Join(t.Modifiers, ""))
	return b.String()
}

// TypeName converts the expression into the model type
func (t *TypeExpr) TypeName(info *models.AttributeInfo) *models.TypeName {
	modifiers := strings.Join(t.Modifiers, "")
	var tn *models.TypeName
	if info != nil {
		tn = info.NewTypeName(t.Namespace(), t.Name(), modifiers)
	} else {
		tn = models.NewTypeName(t.Namespace(), t.Name(), modifiers)
	}
	for _, g := range t.Generics {
		tn.GenericArguments = append(tn.GenericArguments, g.TypeName(info))
	}
	return tn
}
