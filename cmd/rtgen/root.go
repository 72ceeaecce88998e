package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toyz/rtgen/internal/cli"
	"github.com/toyz/rtgen/internal/config"
	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/utils"
)

// errReported marks failures already printed by the diagnostic reporter
var errReported = errors.New(errors.GenerationErrorCode, "rtgen failed")

// app holds the state shared by every subcommand
type app struct {
	v          *viper.Viper
	configPath string
	out        io.Writer
	errOut     io.Writer

	settings    *config.Config
	diagnostics *utils.DiagnosticSystem
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: config.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "rtgen",
		Short: "rtgen - template-driven binding generator",
		Long: `rtgen renders target-language bindings from interface manifests.

Manifests (*.rtgen.yaml, *.rtgen.toml) describe interfaces, methods, factories
and enumerations together with attribute directives such as valueType(...) or
propertyClass(...). Output is rendered from $Identifier$ templates; the C#
templates are built in and can be overridden per file with --template-dir.

Configuration is read from rtgen.yaml (or --config), RTGEN_* environment
variables and flags, later sources winning.

Examples:
  rtgen generate ./manifests/...          # Generate bindings for every manifest
  rtgen generate -o bindings core.rtgen.yaml
  rtgen check ./manifests                 # Fail when generated output is stale
  rtgen watch ./manifests                 # Regenerate on change
  rtgen clean                             # Remove generated files`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.load()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "Config file (default: ./rtgen.{yaml,toml,json})")
	flags.StringP("output", "o", "", "Output directory for generated files")
	flags.StringP("language", "l", "", "Built-in language or path to a .toml language profile")
	flags.StringSliceP("template-dir", "t", nil, "Template override directory (repeatable)")
	flags.String("namespace", "", "Namespace for generated code")
	flags.String("library", "", "Native library name used in imports")
	flags.String("library-version", "", "Native library version stamped into headers")
	flags.Int("workers", 0, "Files generated in parallel")
	flags.Bool("strict-generics", false, "Fail when generic parameters cannot be inferred")
	flags.BoolP("verbose", "v", false, "Verbose output")
	flags.BoolP("quiet", "q", false, "Only show errors")

	bindings := map[string]string{
		"output_dir":      "output",
		"language":        "language",
		"template_dirs":   "template-dir",
		"namespace":       "namespace",
		"library_name":    "library",
		"library_version": "library-version",
		"workers":         "workers",
		"strict_generics": "strict-generics",
		"verbose":         "verbose",
		"quiet":           "quiet",
	}
	bindFlags(a.v, root, bindings)

	root.AddCommand(
		a.generateCmd(),
		a.checkCmd(),
		a.watchCmd(),
		a.cleanCmd(),
		versionCmd(),
	)
	return root
}

// load reads configuration and sets up diagnostics
// bindFlags ties config keys to persistent flags. A missing flag is a
// programming error.
func bindFlags(v *viper.Viper, cmd *cobra.Command, bindings map[string]string) {
	for key, flag := range bindings {
		if err := v.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(fmt.Sprintf("bind flag --%s to %s: %v", flag, key, err))
		}
	}
}

func (a *app) load() error {
	settings, err := config.Load(a.v, a.configPath, "")
	if err != nil {
		cli.NewDiagnosticReporter(a.errOut, false).ReportError(err)
		return errReported
	}
	a.settings = settings

	a.diagnostics = utils.NewDiagnosticSystem(settings.DiagnosticLevel())
	a.diagnostics.SetOutput(a.out, a.errOut)
	if settings.File != "" {
		a.diagnostics.Verbose("Using config %s", settings.File)
	}
	return nil
}

func (a *app) generator() (*cli.Generator, error) {
	g, err := cli.NewGenerator(a.settings, a.diagnostics, version)
	if err != nil {
		return nil, a.report(err)
	}
	return g, nil
}

// report prints err once and returns the sentinel the root command exits on
func (a *app) report(err error) error {
	cli.NewDiagnosticReporter(a.errOut, a.settings != nil && a.settings.Verbose).ReportError(err)
	return errReported
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the rtgen version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rtgen %s\n", version)
		},
	}
}
