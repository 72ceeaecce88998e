package utils

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// skipped by every walk, along with dot-directories
var ignoredDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	"testdata":     true,
	"bin":          true,
	"obj":          true,
}

// Walker lists files and directories below a set of roots
type Walker struct {
	matchers  []func(path string) bool
	skipPaths map[string]bool
}

// WalkOption configures a Walker
type WalkOption func(*Walker)

// MatchSuffix keeps files whose name ends in one of suffixes
func MatchSuffix(suffixes ...string) WalkOption {
	return MatchFunc(func(path string) bool {
		name := filepath.Base(path)
		for _, s := range suffixes {
			if strings.HasSuffix(name, s) {
				return true
			}
		}
		return false
	})
}

// MatchFunc keeps files accepted by fn. Multiple matchers must all agree.
func MatchFunc(fn func(path string) bool) WalkOption {
	return func(w *Walker) {
		w.matchers = append(w.matchers, fn)
	}
}

// SkipPaths prunes the given directories, typically the output directory
func SkipPaths(paths ...string) WalkOption {
	return func(w *Walker) {
		for _, p := range paths {
			if p != "" {
				w.skipPaths[filepath.Clean(p)] = true
			}
		}
	}
}

// NewWalker creates a walker; with no matchers every file is kept
func NewWalker(opts ...WalkOption) *Walker {
	w := &Walker{skipPaths: make(map[string]bool)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Prune reports whether a directory below a root is left out of the walk
func (w *Walker) Prune(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") && name != "." && name != ".." {
		return true
	}
	return ignoredDirs[name] || w.skipPaths[filepath.Clean(path)]
}

func (w *Walker) matches(path string) bool {
	for _, m := range w.matchers {
		if !m(path) {
			return false
		}
	}
	return true
}

// Files returns matching files below roots, deduplicated and sorted.
// Missing roots and unreadable subdirectories are skipped.
func (w *Walker) Files(roots ...string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string

	for _, root := range roots {
		err := w.walk(root, func(path string, entry fs.DirEntry) {
			if !entry.IsDir() && !seen[path] && w.matches(path) {
				seen[path] = true
				files = append(files, path)
			}
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// Dirs returns root and every directory below it that is not pruned
func (w *Walker) Dirs(root string) ([]string, error) {
	var dirs []string
	err := w.walk(root, func(path string, entry fs.DirEntry) {
		if entry.IsDir() {
			dirs = append(dirs, path)
		}
	})
	return dirs, err
}

func (w *Walker) walk(root string, visit func(string, fs.DirEntry)) error {
	root = filepath.Clean(root)
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if entry != nil && entry.IsDir() && path != root {
				return filepath.SkipDir
			}
			return err
		}
		if entry.IsDir() && path != root && w.Prune(path) {
			return filepath.SkipDir
		}
		visit(path, entry)
		return nil
	})
}

// RemoveFiles deletes files in order and returns those removed before any
// failure.
func RemoveFiles(files []string) ([]string, error) {
	removed := make([]string, 0, len(files))
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return removed, err
		}
		removed = append(removed, f)
	}
	return removed, nil
}
