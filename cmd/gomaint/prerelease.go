// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gomaint/internal/issue"
	"gomaint/internal/todos"
	"gomaint/internal/workspace"

	"github.com/spf13/cobra"
	"golang.org/x/mod/modfile"
)

// newPrereleaseCommand creates the `gomaint prerelease` command.
func newPrereleaseCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "prerelease",
		Short: "Verify modules are ready to tag",
		Long: `Run the checks that gate a release.

Per module:
  - no TODO or FIXME comments, no "TBD" string literals, and no
    [prerelease] banned tokens in source,
  - no replace or exclude directives in go.mod,
  - 'go mod verify' and an untagged 'go build ./...' succeed.

Modules with [prerelease] skip = true are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, pkgs, err := app.SelectPackages(ctx, packageFilters...)
			if err != nil {
				return err
			}

			var failures []moduleFailure
			todoFound := false
			checked := 0
			for _, pkg := range pkgs {
				mc, err := app.ModuleConfig(pkg)
				if err != nil {
					failures = append(failures, moduleFailure{Package: pkg.Name, Err: err})
					continue
				}
				if mc.Prerelease.Skip {
					app.Logger.Info("skipping prerelease checks", "module", pkg.Name)
					continue
				}
				checked++

				foundTodo, err := checkReleasable(ctx, app, pkg, mc.Prerelease.Banned)
				if err != nil {
					failures = append(failures, moduleFailure{Package: pkg.Name, Err: err})
				}
				todoFound = todoFound || foundTodo
			}

			id := issue.Id(0)
			if todoFound {
				id = issue.TodoFoundId
			}
			if err := app.failTask(cmd, "prerelease", failures, id, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d module(s) ready to release\n",
				SuccessStyle.Render("✓"), checked)
			return nil
		},
	}
}

// checkReleasable runs every prerelease check for one module. The bool
// reports whether the failure involved leftover TODO markers.
func checkReleasable(ctx context.Context, app *App, pkg workspace.PackageInfo, banned []string) (bool, error) {
	scanner := todos.NewScanner(banned, app.Logger)
	findings, err := scanner.Scan(ctx, pkg.Dir)
	if err != nil {
		return false, err
	}
	if len(findings) > 0 {
		lines := make([]string, len(findings))
		for i, f := range findings {
			lines[i] = f.String()
		}
		return true, fmt.Errorf("%d unfinished marker(s) in source:\n  %s",
			len(findings), strings.Join(lines, "\n  "))
	}

	modPath := filepath.Join(pkg.Dir, "go.mod")
	data, err := os.ReadFile(modPath)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", modPath, err)
	}
	f, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		return false, fmt.Errorf("parsing %s: %w", modPath, err)
	}
	if len(f.Replace) > 0 {
		return false, fmt.Errorf("go.mod carries %d replace directive(s); releases must depend on published versions", len(f.Replace))
	}
	if len(f.Exclude) > 0 {
		return false, fmt.Errorf("go.mod carries %d exclude directive(s); resolve them before releasing", len(f.Exclude))
	}

	if err := app.Runner.Run(ctx, pkg.Dir, "go", "mod", "verify"); err != nil {
		return false, err
	}
	return false, app.Runner.Run(ctx, pkg.Dir, "go", "build", "./...")
}
