// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gomaint/internal/matrix"

	"github.com/spf13/cobra"
)

// newIntegrationCommand creates the `gomaint integration` command.
func newIntegrationCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "integration",
		Short: "Run integration tests for modules that have them",
		Long: `Run integration tests.

A module participates when its [integration] dir exists; modules
without one are skipped silently. With [integration] versions set, the
tests run once per entry with that entry as a build tag, so a suite can
exercise several backend versions from one tree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, pkgs, err := app.SelectPackages(ctx, packageFilters...)
			if err != nil {
				return err
			}

			var failures []moduleFailure
			ran := 0
			for _, pkg := range pkgs {
				mc, err := app.ModuleConfig(pkg)
				if err != nil {
					failures = append(failures, moduleFailure{Package: pkg.Name, Err: err})
					continue
				}
				dir := mc.Integration.Directory()
				if _, err := os.Stat(filepath.Join(pkg.Dir, dir)); err != nil {
					app.Logger.Debug("no integration tests", "module", pkg.Name, "dir", dir)
					continue
				}
				ran++

				versions := mc.Integration.Versions
				if len(versions) == 0 {
					versions = []string{""}
				}
				for _, version := range versions {
					label := version
					if label == "" {
						label = "default"
					}
					fmt.Fprintf(cmd.OutOrStdout(), ":: integration tests for %s [%s]\n",
						ModuleStyle.Render(pkg.Name), label)

					args := []string{"test", "-count=1"}
					if version != "" {
						args = append(args, matrix.TagsFlag([]string{version})...)
					}
					args = append(args, "./"+dir+"/...")
					if err := app.Runner.Run(ctx, pkg.Dir, "go", args...); err != nil {
						failures = append(failures, moduleFailure{
							Package: pkg.Name,
							Err:     fmt.Errorf("integration tests [%s]: %w", label, err),
						})
					}
				}
			}

			if err := app.failTask(cmd, "integration", failures, 0, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s integration tests passed for %d module(s)\n",
				SuccessStyle.Render("✓"), ran)
			return nil
		},
	}
}
