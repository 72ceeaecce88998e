package cli

import (
	"bufio"
	"os"
	"strings"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/generator"
	"github.com/toyz/rtgen/internal/utils"
)

// Cleaner removes generated binding files
type Cleaner struct {
	walker *utils.Walker
}

// NewCleaner creates a cleaner for files with the given extension. Only files
// that start with the generated-file marker are removed.
func NewCleaner(extension string) *Cleaner {
	return &Cleaner{
		walker: utils.NewWalker(utils.MatchSuffix(extension), utils.MatchFunc(hasMarker)),
	}
}

// Clean removes generated files under dirs and returns their paths
func (c *Cleaner) Clean(dirs []string) ([]string, error) {
	files, err := c.Find(dirs)
	if err != nil {
		return nil, err
	}
	removed, err := utils.RemoveFiles(files)
	if err != nil {
		return removed, errors.WrapFileSystemError("clean", strings.Join(dirs, ", "), err)
	}
	return removed, nil
}

// Find lists generated files under dirs without removing them. Missing
// directories are skipped.
func (c *Cleaner) Find(dirs []string) ([]string, error) {
	files, err := c.walker.Files(dirs...)
	if err != nil {
		return nil, errors.WrapFileSystemError("scan", strings.Join(dirs, ", "), err)
	}
	return files, nil
}

func hasMarker(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.HasPrefix(line, generator.GeneratedMarker)
}

// Clean removes the generated files from the configured output directory
func (g *Generator) Clean() ([]string, error) {
	removed, err := NewCleaner(g.backend.Language().Extension).Clean([]string{g.settings.OutputDir})
	for _, path := range removed {
		g.diagnostics.List("removed %s", path)
	}
	return removed, err
}
