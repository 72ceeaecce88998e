package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toyz/rtgen/internal/cli"
	"github.com/toyz/rtgen/internal/errors"
)

func (a *app) generateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [paths...]",
		Short: "Generate bindings for every manifest under the given paths",
		Long: `Generate bindings for every manifest under the given paths.

Directories are searched recursively; './...' style patterns are accepted.
Unchanged output files are left untouched, and a manifest that fails keeps
its previous output while the others are still generated.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.generator()
			if err != nil {
				return err
			}
			if _, err := g.Run(cmd.Context(), args); err != nil {
				return a.report(err)
			}
			return nil
		},
	}
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [paths...]",
		Short: "Verify generated files match their manifests",
		Long: `Render every manifest in memory and compare the result with the output
directory. Exits non-zero when a file is missing, stale or orphaned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.generator()
			if err != nil {
				return err
			}
			drift, err := g.Check(cmd.Context(), args)
			if err != nil {
				return a.report(err)
			}
			if len(drift) > 0 {
				return a.report(errors.Newf(errors.GenerationErrorCode, "%d generated files are out of date", len(drift)).
					WithSuggestion("Run 'rtgen generate' and commit the result"))
			}
			return nil
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [paths...]",
		Short: "Regenerate bindings whenever manifests or templates change",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.generator()
			if err != nil {
				return err
			}
			w, err := cli.NewWatcher(g, args)
			if err != nil {
				return a.report(err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return w.Run(ctx)
		},
	}
}

func (a *app) cleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove generated files from the output directory",
		Long: `Remove generated files from the output directory. Only files that start
with the generated-file marker are deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.generator()
			if err != nil {
				return err
			}
			removed, err := g.Clean()
			if err != nil {
				return a.report(err)
			}
			a.diagnostics.Success("%s", pluralFiles(len(removed), "removed"))
			return nil
		},
	}
}

func pluralFiles(n int, verb string) string {
	if n == 1 {
		return fmt.Sprintf("1 file %s", verb)
	}
	return fmt.Sprintf("%d files %s", n, verb)
}
