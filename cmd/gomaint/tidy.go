// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gomaint/internal/gitrev"
	"gomaint/internal/issue"

	"github.com/spf13/cobra"
)

// newTidyCommand creates the `gomaint tidy` command.
func newTidyCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tidy",
		Short: "Tidy every module and verify the results are committed",
		Long: `Tidy module requirements.

'go mod tidy' runs in every module, followed by 'go work sync' when the
workspace has a go.work file. The command fails when tidying changed
any go.mod or go.sum, so stale requirements never reach CI unnoticed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root, pkgs, err := app.SelectPackages(ctx, packageFilters...)
			if err != nil {
				return err
			}

			var failures []moduleFailure
			for _, pkg := range pkgs {
				if err := app.Runner.Run(ctx, pkg.Dir, "go", "mod", "tidy"); err != nil {
					failures = append(failures, moduleFailure{Package: pkg.Name, Err: err})
				}
			}
			if _, err := os.Stat(filepath.Join(root, "go.work")); err == nil {
				if err := app.Runner.Run(ctx, root, "go", "work", "sync"); err != nil {
					failures = append(failures, moduleFailure{Package: "workspace", Err: err})
				}
			}

			git := gitrev.New(app.Runner, root)
			status, err := git.Status(ctx, "*.mod", "*.sum")
			if err != nil {
				return err
			}
			if len(status) > 0 {
				unified, err := git.Diff(ctx, "*.mod", "*.sum")
				if err != nil {
					return err
				}
				printDrift(cmd.ErrOrStderr(), "Module requirements changed after tidying:", status, unified)
				failures = append(failures, moduleFailure{
					Package: "workspace",
					Err:     fmt.Errorf("%d file(s) changed by go mod tidy", len(status)),
				})
				return app.failTask(cmd, "tidy", failures, issue.TidyDriftId, nil)
			}

			if err := app.failTask(cmd, "tidy", failures, 0, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s module requirements tidy for %d module(s)\n",
				SuccessStyle.Render("✓"), len(pkgs))
			return nil
		},
	}
}
