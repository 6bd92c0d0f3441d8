// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gomaint/internal/apisurface"
	"gomaint/internal/gitrev"
	"gomaint/internal/issue"
	"gomaint/internal/workspace"

	"github.com/spf13/cobra"
)

// newAPICommand creates the `gomaint api` command.
// Without --baseline it refreshes the committed API snapshots, enforces the
// additive-features rule, and fails on snapshot drift. With --baseline it
// compares the current surface against the surface at the given ref.
func newAPICommand(app *App) *cobra.Command {
	var baseline string

	cmd := &cobra.Command{
		Use:   "api",
		Short: "Verify public API surfaces across feature configurations",
		Long: `Verify the public API surface of every library module.

For each module, the surface is extracted once per feature configuration
(no features, alloc only, all features) by loading the module's packages
with the configuration's build tags. Internal packages, main packages,
and test binaries are excluded.

Without --baseline:
  - enabling all features must only add public items (additive rule),
  - each surface is written to <api-dir>/<module>/<configuration>.txt,
  - uncommitted changes to those files fail the run with a diff summary.

With --baseline REF:
  - the current surfaces are captured first,
  - the working tree is switched to REF, the baseline surfaces are
    captured, and the original revision is restored unconditionally,
  - removed or changed declarations in any configuration are breaking.

Examples:
  gomaint api                     Verify snapshots for every module
  gomaint api -p units            Verify snapshots for one module
  gomaint api --baseline v0.3.0   Compare against the v0.3.0 tag`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, pkgs, err := app.SelectPackages(cmd.Context(), packageFilters...)
			if err != nil {
				return err
			}
			if baseline != "" {
				return runBaselineCompare(cmd, app, root, pkgs, baseline)
			}
			return runSnapshotCheck(cmd, app, root, pkgs)
		},
	}

	cmd.Flags().StringVar(&baseline, "baseline", "", "git ref to compare the current API against")
	return cmd
}

// runSnapshotCheck is the no-baseline mode: extract, enforce the additive
// rule, write snapshot files, and fail on drift. Additive violations are
// collected across every module before the run fails.
func runSnapshotCheck(cmd *cobra.Command, app *App, root string, pkgs []workspace.PackageInfo) error {
	ctx := cmd.Context()
	ex := &apisurface.Extractor{Logger: app.Logger}
	apiDir := app.Settings.APIDir.OrDefault().String()

	var failures []moduleFailure
	for _, pkg := range pkgs {
		set, err := ex.APISet(ctx, pkg)
		if err != nil {
			return err
		}
		if err := apisurface.CheckAdditive(pkg.Name, set); err != nil {
			failures = append(failures, moduleFailure{Package: pkg.Name, Err: err})
		}
		paths, err := apisurface.WriteFiles(root, apiDir, pkg, set)
		if err != nil {
			return err
		}
		app.Logger.Debug("wrote API snapshots", "package", pkg.Name, "files", len(paths))
	}

	git := gitrev.New(app.Runner, root)
	statusLines, err := git.Status(ctx, apiDir)
	if err != nil {
		return err
	}
	if len(statusLines) > 0 {
		unified, err := git.Diff(ctx, apiDir)
		if err != nil {
			return err
		}
		printDrift(cmd.ErrOrStderr(), "Committed API snapshots are out of date:", statusLines, unified)
		failures = append(failures, moduleFailure{
			Package: apiDir,
			Err:     errors.New("committed snapshots do not match the extracted API surface"),
		})
		return app.failTask(cmd, "the API check", failures, issue.SnapshotDriftId, nil)
	}

	if len(failures) > 0 {
		return app.failTask(cmd, "the API check", failures, issue.NonAdditiveAPIId, nil)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s API snapshots verified for %d module(s)\n",
		SuccessStyle.Render("✓"), len(pkgs))
	return nil
}

// runBaselineCompare is the --baseline mode. All current surfaces are
// extracted before the single switch to the baseline ref; the original
// revision is restored on every exit path.
func runBaselineCompare(cmd *cobra.Command, app *App, root string, pkgs []workspace.PackageInfo, ref string) error {
	ctx := cmd.Context()
	ex := &apisurface.Extractor{Logger: app.Logger}

	current := make(map[string]apisurface.PackageAPISet, len(pkgs))
	for _, pkg := range pkgs {
		set, err := ex.APISet(ctx, pkg)
		if err != nil {
			return err
		}
		current[pkg.Name] = set
	}

	baseline := make(map[string]apisurface.PackageAPISet, len(pkgs))
	switcher := gitrev.NewSwitcher(gitrev.New(app.Runner, root), app.Logger)
	err := switcher.WithBaseline(ctx, ref, func(ctx context.Context) error {
		for _, pkg := range pkgs {
			if !moduleExists(pkg.Dir) {
				app.Logger.Warn("module missing at baseline, skipping",
					"package", pkg.Name, "ref", ref)
				continue
			}
			set, err := ex.APISet(ctx, pkg)
			if err != nil {
				return err
			}
			baseline[pkg.Name] = set
		}
		return nil
	})
	if err != nil {
		var checkout *gitrev.CheckoutError
		if errors.As(err, &checkout) {
			app.renderIssue(cmd.ErrOrStderr(), issue.BaselineSwitchFailedId)
		}
		return err
	}

	var failures []moduleFailure
	var breaking []string
	for _, pkg := range pkgs {
		base, ok := baseline[pkg.Name]
		if !ok {
			continue
		}
		report, err := apisurface.Compare(pkg.Name, current[pkg.Name], base)
		if err != nil {
			return err
		}
		if report.Breaking() {
			breaking = append(breaking, pkg.Name)
			failures = append(failures, moduleFailure{
				Package: pkg.Name,
				Err:     errors.New(formatBreakingReport(report, ref)),
			})
		}
	}

	if len(failures) > 0 {
		return app.failTask(cmd, fmt.Sprintf("the API comparison against %s", ref), failures,
			issue.BreakingChangeId, &apisurface.BreakingChangeError{Packages: breaking})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s no breaking public API changes against %s in %d module(s)\n",
		SuccessStyle.Render("✓"), ref, len(pkgs))
	return nil
}

// moduleExists reports whether a module directory still carries a go.mod
// (it may not exist at the baseline revision).
func moduleExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "go.mod"))
	return err == nil
}
