package templates

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/toyz/rtgen/internal/errors"
)

// placeholderPattern matches $Identifier$ tokens
var placeholderPattern = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)\$`)

// Logger receives unresolved-variable warnings
type Logger interface {
	Warn(format string, args ...interface{})
}

type warnKey struct {
	template string
	line     int
	variable string
}

// warnScope remembers the unresolved-variable warnings already reported for
// one output file
type warnScope struct {
	file string

	mu   sync.Mutex
	seen map[warnKey]struct{}
}

type warnScopeKey struct{}

// WithWarningScope returns a context under which each unresolved variable is
// reported once per template line. file names the output in warnings. Every
// call starts a fresh scope, so regenerating a file reports its problems again.
func WithWarningScope(ctx context.Context, file string) context.Context {
	return context.WithValue(ctx, warnScopeKey{}, &warnScope{
		file: file,
		seen: make(map[warnKey]struct{}),
	})
}

// Renderer substitutes $Identifier$ placeholders in templates loaded from a
// Source. A renderer may be shared by concurrent file generations.
type Renderer struct {
	source Source
	logger Logger
}

// NewRenderer creates a renderer. A nil logger discards warnings.
func NewRenderer(source Source, logger Logger) *Renderer {
	return &Renderer{source: source, logger: logger}
}

// Source returns the template source
func (r *Renderer) Source() Source {
	return r.source
}

// Render loads the named template and writes it to w with every placeholder
// resolved against chain.
func (r *Renderer) Render(ctx context.Context, name string, chain Chain, w io.Writer) error {
	text, err := r.source.LoadTemplate(name)
	if err != nil {
		return err
	}
	return r.RenderText(ctx, name, text, chain, w)
}

// RenderString renders the named template into a string. Scope resolvers use
// it to expand sub-templates per method, argument or enum value.
func (r *Renderer) RenderString(ctx context.Context, name string, chain Chain) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(ctx, name, chain, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderText renders template text that did not come from the source.
// name only identifies the template in warnings.
func (r *Renderer) RenderText(ctx context.Context, name, text string, chain Chain, w io.Writer) error {
	scope, _ := ctx.Value(warnScopeKey{}).(*warnScope)
	reader := bufio.NewReader(strings.NewReader(text))
	out := bufio.NewWriter(w)

	lineNo := 0
	for {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.TemplateErrorCode, "rendering of '"+name+"' cancelled", err)
		}

		line, readErr := reader.ReadString('\n')
		if line != "" {
			lineNo++
			if strings.TrimSpace(line) != "" {
				line = r.substitute(scope, name, lineNo, line, chain)
			}
			if _, err := out.WriteString(line); err != nil {
				return errors.WrapTemplateError(name, "write", err)
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return errors.WrapTemplateError(name, "read", readErr)
		}
	}

	if err := out.Flush(); err != nil {
		return errors.WrapTemplateError(name, "write", err)
	}
	return nil
}

func (r *Renderer) substitute(scope *warnScope, name string, lineNo int, line string, chain Chain) string {
	return placeholderPattern.ReplaceAllStringFunc(line, func(token string) string {
		variable := token[1 : len(token)-1]
		if value, _, ok := chain.Resolve(variable); ok {
			return value
		}
		r.warnUnresolved(scope, name, lineNo, variable, chain)
		return ""
	})
}

// warnUnresolved reports a variable no scope resolved. Without a warning
// scope every occurrence is reported.
func (r *Renderer) warnUnresolved(scope *warnScope, name string, lineNo int, variable string, chain Chain) {
	if r.logger == nil {
		return
	}

	searched := strings.Join(chain.Labels(), " > ")
	if scope == nil {
		r.logger.Warn("%s:%d: unresolved variable $%s$ (searched %s)", name, lineNo, variable, searched)
		return
	}

	key := warnKey{template: name, line: lineNo, variable: variable}
	scope.mu.Lock()
	_, seen := scope.seen[key]
	if !seen {
		scope.seen[key] = struct{}{}
	}
	scope.mu.Unlock()
	if seen {
		return
	}

	r.logger.Warn("%s:%d: unresolved variable $%s$ (searched %s) in %s",
		name, lineNo, variable, searched, scope.file)
}

// Variables lists the distinct placeholder names in text, in first-seen order
func Variables(text string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
