package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/utils"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "generated", cfg.OutputDir)
	assert.Equal(t, "csharp", cfg.Language)
	assert.Equal(t, "opendaq", cfg.LibraryName)
	assert.Equal(t, 4, cfg.Workers)
	assert.False(t, cfg.StrictGenerics)
	assert.Empty(t, cfg.File)
	assert.Equal(t, utils.DiagnosticInfo, cfg.DiagnosticLevel())
}

func TestLoad_SearchedFile(t *testing.T) {
	dir := t.TempDir()
	overrides := filepath.Join(dir, "overrides")
	require.NoError(t, os.Mkdir(overrides, 0755))
	path := writeConfig(t, dir, "rtgen.yaml", `
output_dir: bindings
namespace: Daq.Core
library_version: 3.1.0
strict_generics: true
workers: 2
template_dirs:
  - `+overrides+`
factory_samples:
  T:
    - IString
    - IInteger
`)

	cfg, err := Load(New(), "", dir)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.File)
	assert.Equal(t, "bindings", cfg.OutputDir)
	assert.Equal(t, "Daq.Core", cfg.Namespace)
	assert.Equal(t, "3.1.0", cfg.LibraryVersion)
	assert.True(t, cfg.StrictGenerics)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, []string{overrides}, cfg.TemplateDirs)
	// keys come back lower-cased; the generator matches placeholders case-insensitively
	assert.Equal(t, map[string][]string{"t": {"IString", "IInteger"}}, cfg.FactorySamples)
}

func TestLoad_TOMLFile(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "custom.toml", "output_dir = \"out\"\nverbose = true\n")

	cfg, err := Load(New(), path, "")
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, utils.DiagnosticVerbose, cfg.DiagnosticLevel())
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "rtgen.yaml", "output_dir: from-file\n")
	t.Setenv("RTGEN_OUTPUT_DIR", "from-env")

	cfg, err := Load(New(), "", dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.OutputDir)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "nope.yaml"), "")
	require.Error(t, err)
	assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "rtgen.yaml", "workers: 0\nlibrary_version: banana\n")

	_, err := Load(New(), "", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workers")
	assert.Contains(t, err.Error(), "library_version")
}

func TestValidate(t *testing.T) {
	profile := writeConfig(t, t.TempDir(), "python.toml", "name = \"python\"\n")

	valid := func() Config {
		return Config{
			OutputDir:   "out",
			Language:    "csharp",
			LibraryName: "opendaq",
			Workers:     1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "profile path", mutate: func(c *Config) { c.Language = profile }},
		{name: "missing profile", mutate: func(c *Config) { c.Language = profile + ".old.toml" }, wantErr: "profile file does not exist"},
		{name: "unknown language", mutate: func(c *Config) { c.Language = "cobol" }, wantErr: "language"},
		{name: "empty output", mutate: func(c *Config) { c.OutputDir = "" }, wantErr: "output_dir"},
		{name: "bad library name", mutate: func(c *Config) { c.LibraryName = "open daq" }, wantErr: "library_name"},
		{name: "v prefix accepted", mutate: func(c *Config) { c.LibraryVersion = "v3.1.0" }},
		{name: "bad extension", mutate: func(c *Config) { c.Extension = "cs" }, wantErr: "extension"},
		{name: "bad namespace", mutate: func(c *Config) { c.Namespace = "Daq..Core" }, wantErr: "namespace"},
		{name: "template dir", mutate: func(c *Config) { c.TemplateDirs = []string{filepath.Dir(profile)} }},
		{name: "missing template dir", mutate: func(c *Config) { c.TemplateDirs = []string{""} }, wantErr: "template_dirs[0]"},
		{
			name:    "verbose and quiet",
			mutate:  func(c *Config) { c.Verbose, c.Quiet = true, true },
			wantErr: "mutually exclusive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, errors.ConfigurationErrorCode, errors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDiagnosticLevel_Quiet(t *testing.T) {
	cfg := Config{Quiet: true}
	assert.Equal(t, utils.DiagnosticError, cfg.DiagnosticLevel())
}
