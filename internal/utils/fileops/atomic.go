package fileops

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/toyz/rtgen/internal/errors"
)

// replaced in tests to simulate a failing swap
var renameFile = os.Rename

// AtomicWriter buffers output and swaps it into place on Commit. The target
// is never left half written: either the old content or the new survives.
type AtomicWriter struct {
	path      string
	perm      os.FileMode
	buf       bytes.Buffer
	committed bool
}

// NewAtomicWriter creates a writer for path
func NewAtomicWriter(path string, perm os.FileMode) *AtomicWriter {
	return &AtomicWriter{path: path, perm: perm}
}

// Path returns the target path
func (w *AtomicWriter) Path() string {
	return w.path
}

// Write appends to the buffer
func (w *AtomicWriter) Write(p []byte) (int, error) {
	if w.committed {
		return 0, errors.Newf(errors.FileSystemErrorCode, "write to committed file '%s'", w.path)
	}
	return w.buf.Write(p)
}

// Bytes returns the buffered content
func (w *AtomicWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// Discard drops the buffered content
func (w *AtomicWriter) Discard() {
	w.buf.Reset()
}

// Commit writes the buffer to a temp file next to the target and renames it
// over the target.
func (w *AtomicWriter) Commit() error {
	if w.committed {
		return nil
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.WrapFileSystemError("create directory for", w.path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(w.path)+".tmp-*")
	if err != nil {
		return errors.WrapFileSystemError("create temp file for", w.path, err)
	}
	tmpName := tmp.Name()

	fail := func(op string, err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return errors.WrapFileSystemError(op, w.path, err)
	}

	if _, err := tmp.Write(w.buf.Bytes()); err != nil {
		return fail("write", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("sync", err)
	}
	if err := tmp.Chmod(w.perm); err != nil {
		return fail("chmod", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapFileSystemError("close", w.path, err)
	}
	if err := renameFile(tmpName, w.path); err != nil {
		_ = os.Remove(tmpName)
		return errors.WrapFileSystemError("replace", w.path, err)
	}

	w.committed = true
	return nil
}

// WriteFileAtomic writes content to path through an AtomicWriter
func WriteFileAtomic(path string, content []byte, perm os.FileMode) error {
	w := NewAtomicWriter(path, perm)
	if _, err := w.Write(content); err != nil {
		return err
	}
	return w.Commit()
}
