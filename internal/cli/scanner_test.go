package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/rtgen/internal/errors"
)

func TestManifestScanner_Scan(t *testing.T) {
	// root/
	//   core/channel.rtgen.yaml
	//   core/types.rtgen.toml
	//   core/readme.md
	//   core/sub/device.rtgen.yml
	//   .hidden/skip.rtgen.yaml
	//   vendor/skip.rtgen.yaml
	root := t.TempDir()
	files := []string{
		"core/channel.rtgen.yaml",
		"core/types.rtgen.toml",
		"core/readme.md",
		"core/sub/device.rtgen.yml",
		".hidden/skip.rtgen.yaml",
		"vendor/skip.rtgen.yaml",
	}
	for _, f := range files {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0644))
	}
	at := func(rel string) string { return filepath.Join(root, rel) }

	scanner := NewManifestScanner()

	t.Run("directory is searched recursively", func(t *testing.T) {
		found, err := scanner.Scan([]string{root})
		require.NoError(t, err)
		assert.Equal(t, []string{
			at("core/channel.rtgen.yaml"),
			at("core/sub/device.rtgen.yml"),
			at("core/types.rtgen.toml"),
		}, found)
	})

	t.Run("go style pattern", func(t *testing.T) {
		found, err := scanner.Scan([]string{at("core/sub") + "/..."})
		require.NoError(t, err)
		assert.Equal(t, []string{at("core/sub/device.rtgen.yml")}, found)
	})

	t.Run("explicit file and overlapping inputs", func(t *testing.T) {
		found, err := scanner.Scan([]string{at("core/channel.rtgen.yaml"), at("core")})
		require.NoError(t, err)
		assert.Len(t, found, 3, "duplicates are dropped")
	})

	t.Run("explicit file is taken even without a manifest suffix", func(t *testing.T) {
		found, err := scanner.Scan([]string{at("core/readme.md")})
		require.NoError(t, err)
		assert.Equal(t, []string{at("core/readme.md")}, found)
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := scanner.Scan([]string{at("nope")})
		require.Error(t, err)
		assert.Equal(t, errors.FileSystemErrorCode, errors.CodeOf(err))
	})
}

func TestManifestScanner_SkipsOutputDir(t *testing.T) {
	root := t.TempDir()
	for _, f := range []string{"a.rtgen.yaml", "generated/copy.rtgen.yaml"} {
		path := filepath.Join(root, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("name: x\n"), 0644))
	}

	found, err := NewManifestScanner(filepath.Join(root, "generated")).Scan([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.rtgen.yaml")}, found)
}
