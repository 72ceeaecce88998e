package cli

import (
	"context"

	"github.com/toyz/rtgen/internal/config"
	"github.com/toyz/rtgen/internal/generator"
	"github.com/toyz/rtgen/internal/mapping"
	"github.com/toyz/rtgen/internal/models"
	"github.com/toyz/rtgen/internal/templates"
	"github.com/toyz/rtgen/internal/utils"
)

// Backend renders one file model for a target language
type Backend interface {
	Name() string
	Language() *mapping.Language
	FileName(file *models.RTFile) string
	Generate(ctx context.Context, file *models.RTFile) (*generator.GeneratedFile, error)
}

// BackendFactory builds a backend from generator options
type BackendFactory func(opts generator.Options, logger templates.Logger) (Backend, error)

var backends = newBackendRegistry()

func newBackendRegistry() *utils.Registry[BackendFactory] {
	r := utils.NewRegistry[BackendFactory]("backend")
	_ = r.Register(mapping.DefaultLanguage, templateBackend, "cs")
	return r
}

func templateBackend(opts generator.Options, logger templates.Logger) (Backend, error) {
	g, err := generator.NewGenerator(opts, logger)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// RegisterBackend adds a backend for a language profile name. Names and
// aliases are matched case-insensitively.
func RegisterBackend(language string, factory BackendFactory, aliases ...string) error {
	return backends.Register(language, factory, aliases...)
}

// Backends lists the languages with a dedicated backend
func Backends() []string {
	return backends.Names()
}

// newBackend picks the backend for the configured language. Profiles without
// a dedicated backend use the template generator, which takes its templates
// from template_dirs.
func newBackend(settings *config.Config, version string, logger templates.Logger) (Backend, error) {
	lang, err := mapping.LoadLanguage(settings.Language)
	if err != nil {
		return nil, err
	}
	if settings.Extension != "" {
		override := *lang
		override.Extension = settings.Extension
		lang = &override
	}

	factory, ok := backends.Lookup(lang.Name)
	if !ok {
		factory = templateBackend
	}

	return factory(generator.Options{
		Language:       lang,
		TemplateDirs:   settings.TemplateDirs,
		Namespace:      settings.Namespace,
		LibraryName:    settings.LibraryName,
		LibraryVersion: settings.LibraryVersion,
		Version:        version,
		StrictGenerics: settings.StrictGenerics,
		FactorySamples: settings.FactorySamples,
	}, logger)
}
