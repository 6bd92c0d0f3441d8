// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"gomaint/internal/matrix"

	"github.com/spf13/cobra"
)

// newBenchCommand creates the `gomaint bench` command.
func newBenchCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "bench",
		Short: "Run every benchmark once per module",
		Long: `Run benchmarks as a smoke test.

Each module's benchmarks run with -benchtime=1x and the module's
[test] base_tags. The point is keeping benchmarks compiling and
passing, not measuring them; run 'go test -bench' directly for timings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, pkgs, err := app.SelectPackages(ctx, packageFilters...)
			if err != nil {
				return err
			}

			var failures []moduleFailure
			for _, pkg := range pkgs {
				mc, err := app.ModuleConfig(pkg)
				if err != nil {
					failures = append(failures, moduleFailure{Package: pkg.Name, Err: err})
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), ":: benchmarks for %s\n", ModuleStyle.Render(pkg.Name))
				args := []string{"test", "-run=^$", "-bench=.", "-benchtime=1x"}
				args = append(args, matrix.TagsFlag(mc.Test.BaseTags)...)
				args = append(args, "./...")
				if err := app.Runner.Run(ctx, pkg.Dir, "go", args...); err != nil {
					failures = append(failures, moduleFailure{Package: pkg.Name, Err: err})
				}
			}

			if err := app.failTask(cmd, "bench", failures, 0, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s benchmarks passed for %d module(s)\n",
				SuccessStyle.Render("✓"), len(pkgs))
			return nil
		},
	}
}
