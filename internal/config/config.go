// Package config loads rtgen settings from a config file, RTGEN_* environment
// variables and command-line flags, in increasing order of precedence.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/mapping"
	"github.com/toyz/rtgen/internal/utils"
)

// EnvPrefix is the prefix of environment overrides, e.g. RTGEN_OUTPUT_DIR
const EnvPrefix = "RTGEN"

// ConfigName is the base name searched for when no file is given
const ConfigName = "rtgen"

// Config holds the generator settings
type Config struct {
	OutputDir      string              `mapstructure:"output_dir"`
	TemplateDirs   []string            `mapstructure:"template_dirs"`
	Language       string              `mapstructure:"language"` // built-in name or a profile path
	Namespace      string              `mapstructure:"namespace"`
	LibraryName    string              `mapstructure:"library_name"`
	LibraryVersion string              `mapstructure:"library_version"`
	StrictGenerics bool                `mapstructure:"strict_generics"`
	Workers        int                 `mapstructure:"workers"`
	Extension      string              `mapstructure:"extension"` // overrides the profile's extension
	Verbose        bool                `mapstructure:"verbose"`
	Quiet          bool                `mapstructure:"quiet"`
	FactorySamples map[string][]string `mapstructure:"factory_samples"`

	// File is the config file that was read, empty when none was found
	File string `mapstructure:"-"`
}

// SetDefaults configures default values for every key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output_dir", "generated")
	v.SetDefault("template_dirs", []string{})
	v.SetDefault("language", mapping.DefaultLanguage)
	v.SetDefault("namespace", "")
	v.SetDefault("library_name", "opendaq")
	v.SetDefault("library_version", "")
	v.SetDefault("strict_generics", false)
	v.SetDefault("workers", 4)
	v.SetDefault("extension", "")
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("factory_samples", map[string][]string{})
}

// New creates a viper instance with defaults and environment binding
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads the config file into v and decodes the result. With an empty
// path rtgen.{yaml,toml,json} is searched for in dir; a missing file is not
// an error then. An explicit path must exist.
func Load(v *viper.Viper, path, dir string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(ConfigName)
		if dir == "" {
			dir = "."
		}
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.WrapConfigurationError(configLabel(path), "read", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapConfigurationError(configLabel(v.ConfigFileUsed()), "decode", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func configLabel(path string) string {
	if path == "" {
		return ConfigName
	}
	return filepath.Base(path)
}

// Validate checks every setting and reports all violations together
func (c *Config) Validate() error {
	var p utils.Problems

	utils.Check(&p, "output_dir", c.OutputDir, utils.Required)
	if strings.HasSuffix(strings.ToLower(c.Language), ".toml") {
		utils.Check(&p, "language", c.Language, utils.Satisfies("profile file does not exist", fileExists))
	} else {
		utils.Check(&p, "language", c.Language, utils.OneOf(mapping.BuiltinLanguages()...))
	}
	utils.Check(&p, "library_name", c.LibraryName, utils.Required, utils.Pattern(`^[A-Za-z0-9_.\-]+$`))
	utils.Check(&p, "library_version", c.LibraryVersion, utils.Semver)
	utils.Check(&p, "workers", c.Workers, utils.Min(1))
	utils.CheckEach(&p, "template_dirs", c.TemplateDirs, utils.Satisfies("must be an existing directory", dirExists))
	if c.Extension != "" {
		utils.Check(&p, "extension", c.Extension, utils.Pattern(`^(\.[A-Za-z0-9]+)+$`))
	}
	if c.Namespace != "" {
		utils.Check(&p, "namespace", c.Namespace, utils.Pattern(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`))
	}
	if c.Verbose && c.Quiet {
		p.Addf("verbose", "and quiet are mutually exclusive")
	}

	if p.Empty() {
		return nil
	}
	return errors.ConfigurationError("rtgen", p.String()).
		WithSuggestion("Check rtgen.yaml, RTGEN_* environment variables and command-line flags")
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// DiagnosticLevel maps verbose/quiet to a diagnostics level
func (c *Config) DiagnosticLevel() utils.DiagnosticLevel {
	switch {
	case c.Quiet:
		return utils.DiagnosticError
	case c.Verbose:
		return utils.DiagnosticVerbose
	}
	return utils.DiagnosticInfo
}
