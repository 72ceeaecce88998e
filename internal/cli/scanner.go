package cli

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/manifest"
	"github.com/toyz/rtgen/internal/utils"
)

// ManifestScanner finds manifest files under the command-line inputs
type ManifestScanner struct {
	walker *utils.Walker
}

// NewManifestScanner creates a scanner. Directories in skip, usually the
// output directory, are never searched.
func NewManifestScanner(skip ...string) *ManifestScanner {
	return &ManifestScanner{
		walker: utils.NewWalker(utils.MatchSuffix(manifest.Suffixes...), utils.SkipPaths(skip...)),
	}
}

// Scan resolves inputs to manifest paths. Files are taken as given,
// directories are searched recursively and a trailing "/..." is accepted the
// way the go tool spells it. No inputs means the current directory.
func (s *ManifestScanner) Scan(inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		inputs = []string{"."}
	}

	seen := make(map[string]bool)
	var found []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			found = append(found, path)
		}
	}

	for _, input := range inputs {
		root := strings.TrimSuffix(input, "/...")
		if root == "" {
			root = "."
		}
		root = filepath.Clean(root)

		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.WrapFileSystemError("scan", root, err).
				WithSuggestion("Check that the input path exists")
		}

		if !info.IsDir() {
			add(root)
			continue
		}

		files, err := s.walker.Files(root)
		if err != nil {
			return nil, errors.WrapFileSystemError("scan", root, err)
		}
		for _, f := range files {
			add(f)
		}
	}

	sort.Strings(found)
	return found, nil
}
