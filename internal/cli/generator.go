package cli

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/toyz/rtgen/internal/config"
	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/manifest"
	"github.com/toyz/rtgen/internal/utils"
	"github.com/toyz/rtgen/internal/utils/fileops"
)

// Output is one rendered binding file
type Output struct {
	Manifest string // manifest it was generated from
	Path     string // destination under the output directory
	Content  []byte
}

// GenerationSummary describes a generate run
type GenerationSummary struct {
	Manifests    int
	Written      []string
	Unchanged    []string
	Failed       int
	Duration     time.Duration
	OutputDir    string
	BackendName  string
	WorkersUsed  int
	WarningCount int
}

// Generator coordinates scanning, model building, rendering and output
type Generator struct {
	settings    *config.Config
	diagnostics *utils.DiagnosticSystem
	scanner     *ManifestScanner
	builder     *manifest.Builder
	backend     Backend
	output      *fileops.Store
}

// NewGenerator creates a CLI generator. diagnostics may be nil, in which case
// one is created at the configured level.
func NewGenerator(settings *config.Config, diagnostics *utils.DiagnosticSystem, version string) (*Generator, error) {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(settings.DiagnosticLevel())
	}

	backend, err := newBackend(settings, version, diagnostics)
	if err != nil {
		return nil, err
	}

	return &Generator{
		settings:    settings,
		diagnostics: diagnostics,
		scanner:     NewManifestScanner(settings.OutputDir),
		builder:     manifest.NewBuilder(diagnostics),
		backend:     backend,
		output:      fileops.NewStore(settings.OutputDir),
	}, nil
}

// Render builds and renders every manifest under inputs without touching the
// output directory. Files that fail are reported together; the outputs of the
// others are still returned.
func (g *Generator) Render(ctx context.Context, inputs []string) ([]Output, error) {
	paths, err := g.scanner.Scan(inputs)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.New(errors.ManifestErrorCode, "no manifests found").
			WithContext("inputs", inputs).
			WithSuggestion("Manifests must end in " + strings.Join(manifest.Suffixes, ", "))
	}

	g.diagnostics.Info("Found %d manifests", len(paths))
	g.diagnostics.Nested(func() {
		for _, p := range paths {
			g.diagnostics.List("%s", p)
		}
	})

	outputs := make([]*Output, len(paths))
	failures := errors.NewMultipleErrors()
	var mu sync.Mutex

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(g.settings.Workers)

	for i, path := range paths {
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := g.renderOne(gctx, path)
			if err != nil {
				g.diagnostics.Error("%s: %v", path, err)
				mu.Lock()
				failures.Add(err)
				mu.Unlock()
				return nil
			}
			outputs[i] = out
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	rendered := make([]Output, 0, len(outputs))
	owners := make(map[string]string, len(outputs))
	for _, out := range outputs {
		if out == nil {
			continue
		}
		if owner, taken := owners[out.Path]; taken {
			failures.Add(errors.Newf(errors.GenerationErrorCode,
				"%s and %s both generate %s", owner, out.Manifest, out.Path).
				WithSuggestion("Give one of the manifests a different name"))
			continue
		}
		owners[out.Path] = out.Manifest
		rendered = append(rendered, *out)
	}
	return rendered, failures.ErrOrNil()
}

func (g *Generator) renderOne(ctx context.Context, path string) (*Output, error) {
	g.diagnostics.Verbose("Loading %s", path)
	file, err := g.builder.LoadFile(path)
	if err != nil {
		return nil, err
	}

	generated, err := g.backend.Generate(ctx, file)
	if err != nil {
		return nil, err
	}
	target, err := g.output.Path(generated.FileName)
	if err != nil {
		return nil, err
	}
	return &Output{
		Manifest: path,
		Path:     target,
		Content:  generated.Content,
	}, nil
}

// Run renders every manifest and writes the results. Unchanged files are not
// rewritten; a failed file leaves its previous output in place.
func (g *Generator) Run(ctx context.Context, inputs []string) (*GenerationSummary, error) {
	start := time.Now()
	summary := &GenerationSummary{
		OutputDir:   g.settings.OutputDir,
		BackendName: g.backend.Name(),
		WorkersUsed: g.settings.Workers,
	}

	g.diagnostics.Section("Generating " + g.backend.Name() + " bindings")
	outputs, renderErr := g.Render(ctx, inputs)

	var multi *errors.MultipleErrors
	switch {
	case renderErr == nil:
	case errors.As(renderErr, &multi):
		summary.Failed = multi.Count()
	default:
		return nil, renderErr
	}
	summary.Manifests = len(outputs) + summary.Failed

	for _, out := range outputs {
		written, err := g.output.WriteIfChanged(out.Path, out.Content)
		if err != nil {
			return summary, err
		}
		if written {
			g.diagnostics.Success("Wrote %s", out.Path)
			summary.Written = append(summary.Written, out.Path)
		} else {
			g.diagnostics.Verbose("Unchanged %s", out.Path)
			summary.Unchanged = append(summary.Unchanged, out.Path)
		}
	}

	summary.Duration = time.Since(start)
	summary.WarningCount = g.diagnostics.WarningCount()
	g.reportSummary(summary)
	return summary, renderErr
}

func (g *Generator) reportSummary(s *GenerationSummary) {
	g.diagnostics.Summary("Generation Summary",
		utils.Stat{Name: "Backend", Value: s.BackendName},
		utils.Stat{Name: "Manifests", Value: s.Manifests},
		utils.Stat{Name: "Written", Value: len(s.Written)},
		utils.Stat{Name: "Unchanged", Value: len(s.Unchanged)},
		utils.Stat{Name: "Failed", Value: s.Failed},
		utils.Stat{Name: "Warnings", Value: s.WarningCount},
		utils.Stat{Name: "Workers", Value: s.WorkersUsed},
		utils.Stat{Name: "Output", Value: s.OutputDir},
		utils.Stat{Name: "Duration", Value: s.Duration.Round(time.Millisecond)},
	)
}
