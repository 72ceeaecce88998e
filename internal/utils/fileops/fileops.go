package fileops

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/toyz/rtgen/internal/errors"
)

// Status compares an output file on disk with freshly rendered content
type Status int

const (
	Missing Status = iota
	Stale
	Current
)

func (s Status) String() string {
	switch s {
	case Missing:
		return "missing"
	case Stale:
		return "stale"
	}
	return "current"
}

// Store owns an output directory. Every path it hands out stays inside it.
type Store struct {
	root string
	perm os.FileMode
}

// NewStore creates a store rooted at root; the directory is created lazily
func NewStore(root string) *Store {
	return &Store{root: filepath.Clean(root), perm: 0644}
}

// Path resolves a generated file name against the root. Absolute names and
// names that climb out of the root are rejected.
func (s *Store) Path(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New(errors.FileSystemErrorCode, "output file name cannot be empty")
	}
	if filepath.IsAbs(name) {
		return "", errors.Newf(errors.FileSystemErrorCode, "output file name must be relative: %s", name).
			WithContext("path", name)
	}
	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.FileSystemErrorCode, "output file escapes %s: %s", s.root, name).
			WithContext("path", name).
			WithSuggestion("Generated file names must stay inside the output directory")
	}
	return filepath.Join(s.root, clean), nil
}

// Compare reports whether path holds exactly content
func (s *Store) Compare(path string, content []byte) (Status, error) {
	existing, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Missing, nil
	}
	if err != nil {
		return Missing, errors.WrapFileSystemError("read", path, err)
	}
	if !bytes.Equal(existing, content) {
		return Stale, nil
	}
	return Current, nil
}

// WriteIfChanged atomically replaces path with content unless it is already
// current. It reports whether anything was written.
func (s *Store) WriteIfChanged(path string, content []byte) (bool, error) {
	status, err := s.Compare(path, content)
	if err != nil {
		return false, err
	}
	if status == Current {
		return false, nil
	}
	if err := WriteFileAtomic(path, content, s.perm); err != nil {
		return false, err
	}
	return true, nil
}

// IsDir reports whether path exists and is a directory
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
