// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"gomaint/internal/config"
	"gomaint/internal/issue"
	"gomaint/internal/matrix"
	"gomaint/internal/toolchain"
	"gomaint/internal/workspace"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

// newTestCommand creates the `gomaint test` command.
func newTestCommand(app *App) *cobra.Command {
	var minimum bool

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the feature-matrix tests for every module",
		Long: `Run each module's test matrix.

Per module, in order:
  - the [test] setup script, when configured (run in-process),
  - each configured example via 'go run ./examples/<name>' with the
    example's tag override ("name", "name:-", "name:tag1 tag2"),
  - 'go test ./...' for every planned tag set.

The planned tag sets are: the untagged run, then every combination of
[test] feature_tags (all together, each alone, each pair) on top of
[test] base_tags. A non-empty [test] exact_tags list replaces the whole
plan with exactly those sets.

With --minimum, the installed toolchain must match the go directive in
go.work exactly, for the minimum-version CI job.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, pkgs, err := app.SelectPackages(cmd.Context(), packageFilters...)
			if err != nil {
				return err
			}
			if err := checkToolchain(cmd, app, root, minimum); err != nil {
				return err
			}

			var failures []moduleFailure
			for _, pkg := range pkgs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s testing %s\n",
					SubtitleStyle.Render("::"), ModuleStyle.Render(pkg.Name))
				if err := runModuleTests(cmd.Context(), app, pkg); err != nil {
					failures = append(failures, moduleFailure{Package: pkg.Name, Err: err})
				}
			}

			if err := app.failTask(cmd, "the test matrix", failures, 0, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s test matrix passed for %d module(s)\n",
				SuccessStyle.Render("✓"), len(pkgs))
			return nil
		},
	}

	cmd.Flags().BoolVar(&minimum, "minimum", false, "require the toolchain to match the go.work minimum exactly")
	return cmd
}

// checkToolchain verifies the installed go version against the workspace
// minimum, rendering the remediation guide on failure.
func checkToolchain(cmd *cobra.Command, app *App, root string, exact bool) error {
	have, err := toolchain.Version(cmd.Context(), app.Runner)
	if err != nil {
		return err
	}
	min, err := toolchain.WorkspaceMinimum(root)
	if err != nil {
		return err
	}
	if err := toolchain.Check(have, min, exact); err != nil {
		app.renderIssue(cmd.ErrOrStderr(), issue.ToolchainTooOldId)
		cmd.SilenceUsage = true
		return &ExitError{Code: 1, Err: err}
	}
	app.Logger.Debug("toolchain ok", "installed", have, "minimum", min, "exact", exact)
	return nil
}

// runModuleTests runs one module's pipeline: setup hook, examples, then
// every planned tag set. The first failing step aborts the module.
func runModuleTests(ctx context.Context, app *App, pkg workspace.PackageInfo) error {
	mc, err := app.ModuleConfig(pkg)
	if err != nil {
		return err
	}

	if mc.Test.Setup != "" {
		if err := app.Hooks.Run(ctx, pkg.Dir, pkg.Name+" setup", mc.Test.Setup); err != nil {
			return err
		}
	}

	for _, spec := range mc.Test.Examples {
		run, err := matrix.ParseExample(spec)
		if err != nil {
			return err
		}
		args := append([]string{"run"}, matrix.TagsFlag(run.BuildTags(mc.Test.BaseTags))...)
		args = append(args, "./examples/"+run.Name)
		if err := app.Runner.Run(ctx, pkg.Dir, "go", args...); err != nil {
			return err
		}
	}

	// An untagged build catches packages the tests do not reach.
	if err := app.Runner.Run(ctx, pkg.Dir, "go", "build", "./..."); err != nil {
		return err
	}

	for _, tags := range planTagSets(mc.Test) {
		args := append([]string{"test"}, matrix.TagsFlag(tags)...)
		args = append(args, "./...")
		if err := app.Runner.Run(ctx, pkg.Dir, "go", args...); err != nil {
			return err
		}
	}
	return nil
}

// planTagSets expands a module's test configuration into the ordered tag
// sets to test. A non-empty exact_tags list short-circuits the matrix.
func planTagSets(tc config.TestConfig) [][]string {
	if len(tc.ExactTags) > 0 {
		sets := make([][]string, 0, len(tc.ExactTags))
		for _, set := range tc.ExactTags {
			sets = append(sets, slices.Clone(set))
		}
		return sets
	}

	sets := [][]string{nil}
	if combos := matrix.Combos(tc.BaseTags, tc.FeatureTags); len(combos) > 0 {
		sets = append(sets, combos...)
	} else if len(tc.BaseTags) > 0 {
		sets = append(sets, slices.Clone(tc.BaseTags))
	}
	return sets
}
