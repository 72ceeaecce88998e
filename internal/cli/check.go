package cli

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/toyz/rtgen/internal/utils/fileops"
)

// Drift kinds reported by Check
const (
	DriftMissing = "missing" // no file on disk
	DriftStale   = "stale"   // content differs
	DriftOrphan  = "orphan"  // generated file with no manifest
)

// Drift is one output that does not match what would be generated
type Drift struct {
	Path string
	Kind string
}

// Check renders every manifest in memory and compares the result with the
// output directory. It returns the drifted files in path order.
func (g *Generator) Check(ctx context.Context, inputs []string) ([]Drift, error) {
	outputs, err := g.Render(ctx, inputs)
	if err != nil {
		return nil, err
	}

	expected := make(map[string]bool, len(outputs))
	var drift []Drift
	for _, out := range outputs {
		expected[filepath.Clean(out.Path)] = true
		status, err := g.output.Compare(out.Path, out.Content)
		if err != nil {
			return nil, err
		}
		switch status {
		case fileops.Missing:
			drift = append(drift, Drift{Path: out.Path, Kind: DriftMissing})
		case fileops.Stale:
			drift = append(drift, Drift{Path: out.Path, Kind: DriftStale})
		}
	}

	orphans, err := g.generatedFiles()
	if err != nil {
		return nil, err
	}
	for _, path := range orphans {
		if !expected[filepath.Clean(path)] {
			drift = append(drift, Drift{Path: path, Kind: DriftOrphan})
		}
	}

	sort.Slice(drift, func(i, j int) bool { return drift[i].Path < drift[j].Path })
	for _, d := range drift {
		g.diagnostics.Warn("%s: %s", d.Path, d.Kind)
	}
	if len(drift) == 0 {
		g.diagnostics.Success("Generated bindings are up to date")
	}
	return drift, nil
}

// generatedFiles lists marker-bearing files already in the output directory
func (g *Generator) generatedFiles() ([]string, error) {
	return NewCleaner(g.backend.Language().Extension).Find([]string{g.settings.OutputDir})
}
