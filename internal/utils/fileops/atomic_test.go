package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/rtgen/internal/errors"
)

func TestAtomicWriter_Commit(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "List.cs")

	w := NewAtomicWriter(target, 0644)
	fmt.Fprint(w, "public interface IList {}\n")
	require.NoError(t, w.Commit())

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "public interface IList {}\n", string(data))

	require.NoError(t, w.Commit(), "second commit is a no-op")
	_, err = w.Write([]byte("more"))
	assert.Error(t, err)

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files remain")
}

func TestAtomicWriter_FailedSwapKeepsPreviousOutput(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "List.cs")
	require.NoError(t, os.WriteFile(target, []byte("previous"), 0644))

	renameFile = func(string, string) error { return fmt.Errorf("disk full") }
	t.Cleanup(func() { renameFile = os.Rename })

	w := NewAtomicWriter(target, 0644)
	fmt.Fprint(w, "half written")
	err := w.Commit()
	require.Error(t, err)
	assert.Equal(t, errors.FileSystemErrorCode, errors.CodeOf(err))
	assert.Contains(t, err.Error(), "disk full")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "the temp file is removed on failure")
}

func TestStore_WriteIfChanged(t *testing.T) {
	store := NewStore(t.TempDir())
	target, err := store.Path("Dict.cs")
	require.NoError(t, err)

	status, err := store.Compare(target, []byte("v1"))
	require.NoError(t, err)
	assert.Equal(t, Missing, status)

	changed, err := store.WriteIfChanged(target, []byte("v1"))
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = store.WriteIfChanged(target, []byte("v1"))
	require.NoError(t, err)
	assert.False(t, changed)

	status, err = store.Compare(target, []byte("v2"))
	require.NoError(t, err)
	assert.Equal(t, Stale, status)

	changed, err = store.WriteIfChanged(target, []byte("v2"))
	require.NoError(t, err)
	assert.True(t, changed)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(content))
}

func TestStore_Path(t *testing.T) {
	root := t.TempDir()
	store := NewStore(root)

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{name: "Channel.cs", want: filepath.Join(root, "Channel.cs")},
		{name: "core//./List.cs", want: filepath.Join(root, "core", "List.cs")},
		{name: "core/../Signal.cs", want: filepath.Join(root, "Signal.cs")},
		{name: "..a.cs", want: filepath.Join(root, "..a.cs")},
		{name: "", wantErr: true},
		{name: "../Escape.cs", wantErr: true},
		{name: "core/../../Escape.cs", wantErr: true},
		{name: filepath.Join(root, "Abs.cs"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.Path(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.FileSystemErrorCode, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.cs")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(file))
	assert.False(t, IsDir(filepath.Join(dir, "missing")))
	assert.Equal(t, "stale", Stale.String())
}
