package generator

import (
	"bytes"
	"context"
	"embed"
	"strings"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/mapping"
	"github.com/toyz/rtgen/internal/models"
	"github.com/toyz/rtgen/internal/templates"
)

//go:embed templates/csharp/*.template
var defaultTemplates embed.FS

// GeneratedMarker opens every generated file; clean and check look for it
const GeneratedMarker = "// <auto-generated>"

// Options configures a Generator
type Options struct {
	Language       *mapping.Language // defaults to the built-in C# profile
	TemplateDirs   []string          // override directories, searched before the embedded set
	Namespace      string            // overrides the file's namespace
	LibraryName    string
	LibraryVersion string
	Version        string // generator version stamped into headers
	StrictGenerics bool
	// FactorySamples lists sample types per generic factory placeholder,
	// e.g. T: [IString, IInteger]. Each index yields one specialization.
	FactorySamples map[string][]string
}

// GeneratedFile is the rendered output for one RTFile
type GeneratedFile struct {
	FileName string
	Content  []byte
}

// Generator renders RTFile models into C# bindings
type Generator struct {
	opts     Options
	lang     *mapping.Language
	resolver *mapping.Resolver
	renderer *templates.Renderer
}

// NewGenerator creates a generator. Warnings go to logger, which may be nil.
func NewGenerator(opts Options, logger templates.Logger) (*Generator, error) {
	lang := opts.Language
	if lang == nil {
		var err error
		lang, err = mapping.BuiltinLanguage(mapping.DefaultLanguage)
		if err != nil {
			return nil, err
		}
	}
	if opts.LibraryName == "" {
		opts.LibraryName = "opendaq"
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	sources := make([]templates.Source, 0, 2)
	if len(opts.TemplateDirs) > 0 {
		dirs := templates.NewDirSource(opts.TemplateDirs...)
		if verbose, ok := logger.(templates.VerboseLogger); ok {
			dirs.WithLogger(verbose)
		}
		sources = append(sources, dirs)
	}
	sources = append(sources, templates.NewFSSource(defaultTemplates, "templates/csharp"))

	return &Generator{
		opts:     opts,
		lang:     lang,
		resolver: mapping.NewResolver(lang),
		renderer: templates.NewRenderer(templates.NewLayeredSource(sources...), logger),
	}, nil
}

// Name identifies the generator in ignore(...) directives
func (g *Generator) Name() string {
	return g.lang.Name
}

// Language returns the target language profile
func (g *Generator) Language() *mapping.Language {
	return g.lang
}

// Resolver returns the type resolver, so callers can register strategies
func (g *Generator) Resolver() *mapping.Resolver {
	return g.resolver
}

// FileName returns the output file name for an RTFile
func (g *Generator) FileName(file *models.RTFile) string {
	return g.lang.TypeName(file.Name) + g.lang.Extension
}

// Generate renders one file. The result is only returned when every template
// rendered; strict generic failures and missing templates abort the file.
func (g *Generator) Generate(ctx context.Context, file *models.RTFile) (*GeneratedFile, error) {
	if file == nil {
		return nil, errors.NewGenerationError("file model cannot be nil")
	}

	ctx = templates.WithWarningScope(ctx, g.FileName(file))
	st := &fileState{ctx: ctx, file: file}
	chain := g.fileChain(st, templates.NewChain(g.defaultScope(file)))

	var buf bytes.Buffer
	if err := g.renderer.Render(ctx, "file", chain, &buf); err != nil {
		return nil, errors.WrapGenerateError("file", file.Name, err)
	}
	if st.err != nil {
		return nil, errors.WrapGenerateError("file", file.Name, st.err)
	}

	return &GeneratedFile{
		FileName: g.FileName(file),
		Content:  buf.Bytes(),
	}, nil
}

// fileState carries the first error raised while resolving variables. Scope
// resolvers cannot return errors, so nested failures are recorded here.
type fileState struct {
	ctx  context.Context
	file *models.RTFile
	err  error
}

func (st *fileState) fail(err error) {
	if st.err == nil && err != nil {
		st.err = err
	}
}

// render expands a sub-template, recording failures on the state
func (g *Generator) render(st *fileState, name string, chain templates.Chain) string {
	if st.err != nil {
		return ""
	}
	out, err := g.renderer.RenderString(st.ctx, name, chain)
	if err != nil {
		st.fail(err)
		return ""
	}
	return out
}

// renderEach renders the template once per chain and joins the results with
// sep after trimming each item's trailing line break
func (g *Generator) renderEach(st *fileState, name string, chains []templates.Chain, sep string) string {
	items := make([]string, 0, len(chains))
	for _, chain := range chains {
		items = append(items, strings.TrimRight(g.render(st, name, chain), "\r\n"))
	}
	return strings.Join(items, sep)
}

// typeName resolves t, honouring strict mode
func (g *Generator) typeName(st *fileState, t *models.TypeName, scope mapping.Scope, opts mapping.Options) string {
	opts.Strict = g.opts.StrictGenerics
	s, err := g.resolver.TargetTypeName(t, scope, opts)
	if err != nil {
		st.fail(err)
		return ""
	}
	return s
}
