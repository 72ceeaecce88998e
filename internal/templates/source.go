package templates

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"

	crdb "github.com/cockroachdb/errors"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/utils"
)

// TemplateExtension is appended to logical template names on lookup
const TemplateExtension = ".template"

// ErrTemplateNotFound is the cause of every lookup miss
var ErrTemplateNotFound = crdb.New("template not found")

// Source loads template text by logical name
type Source interface {
	LoadTemplate(name string) (string, error)
}

// IsNotFound reports whether err is a template lookup miss
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

func notFound(name string) error {
	return errors.Wrap(errors.TemplateErrorCode, "template '"+name+"' not found", ErrTemplateNotFound).
		WithContext("template", name)
}

// VerboseLogger receives detail that is only shown in verbose mode
type VerboseLogger interface {
	Verbose(format string, args ...interface{})
}

// DirSource loads templates from override directories, first match wins.
// Cached entries are dropped when the file changes on disk.
type DirSource struct {
	dirs   []string
	cache  *utils.Cache[string, string]
	put    func(name, text, path string) error
	logger VerboseLogger
}

// NewDirSource creates a directory source
func NewDirSource(dirs ...string) *DirSource {
	s := &DirSource{dirs: dirs, cache: utils.NewCache[string, string]()}
	s.put = s.cache.PutFile
	return s
}

// WithLogger sets where cache misses worth mentioning are reported
func (s *DirSource) WithLogger(logger VerboseLogger) *DirSource {
	s.logger = logger
	return s
}

// LoadTemplate implements Source
func (s *DirSource) LoadTemplate(name string) (string, error) {
	if text, ok := s.cache.Get(name); ok {
		return text, nil
	}

	for _, dir := range s.dirs {
		p := filepath.Join(dir, name+TemplateExtension)
		data, err := os.ReadFile(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", errors.WrapFileSystemError("read", p, err)
		}

		text := string(data)
		if err := s.put(name, text, p); err != nil && s.logger != nil {
			s.logger.Verbose("template %s not cached: %v", p, err)
		}
		return text, nil
	}
	return "", notFound(name)
}

// FSSource loads templates from an fs.FS, usually an embedded default set
type FSSource struct {
	fsys  fs.FS
	root  string
	cache *utils.Cache[string, string]
}

// NewFSSource creates a source rooted at root inside fsys
func NewFSSource(fsys fs.FS, root string) *FSSource {
	return &FSSource{
		fsys:  fsys,
		root:  root,
		cache: utils.NewCache[string, string](),
	}
}

// LoadTemplate implements Source
func (s *FSSource) LoadTemplate(name string) (string, error) {
	return s.cache.GetOrLoad(name, func() (string, error) {
		p := path.Join(s.root, name+TemplateExtension)
		data, err := fs.ReadFile(s.fsys, p)
		if crdb.Is(err, fs.ErrNotExist) {
			return "", notFound(name)
		}
		if err != nil {
			return "", errors.WrapFileSystemError("read", p, err)
		}
		return string(data), nil
	})
}

// Names lists the logical template names available in the source
func (s *FSSource) Names() ([]string, error) {
	matches, err := fs.Glob(s.fsys, path.Join(s.root, "*"+TemplateExtension))
	if err != nil {
		return nil, err
	}
	names := make([]string, len(matches))
	for i, m := range matches {
		base := path.Base(m)
		names[i] = base[:len(base)-len(TemplateExtension)]
	}
	return names, nil
}

// LayeredSource consults sources in order. A miss falls through; any other
// error stops the lookup.
type LayeredSource []Source

// NewLayeredSource creates a layered source, highest priority first
func NewLayeredSource(sources ...Source) LayeredSource {
	layered := make(LayeredSource, 0, len(sources))
	for _, s := range sources {
		if s != nil {
			layered = append(layered, s)
		}
	}
	return layered
}

// LoadTemplate implements Source
func (l LayeredSource) LoadTemplate(name string) (string, error) {
	for _, s := range l {
		text, err := s.LoadTemplate(name)
		if err == nil {
			return text, nil
		}
		if !IsNotFound(err) {
			return "", err
		}
	}
	return "", notFound(name)
}

// StaticSource serves templates from memory
type StaticSource map[string]string

// LoadTemplate implements Source
func (s StaticSource) LoadTemplate(name string) (string, error) {
	if text, ok := s[name]; ok {
		return text, nil
	}
	return "", notFound(name)
}
