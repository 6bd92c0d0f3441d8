// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"gomaint/internal/doccheck"
	"gomaint/internal/issue"
	"gomaint/internal/matrix"

	"github.com/spf13/cobra"
)

// newDocsCommand creates the `gomaint docs` command.
func newDocsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "Check documentation coverage of exported declarations",
		Long: `Audit documentation coverage.

Every exported declaration in every package of a module counts toward
that module's coverage; the module fails when coverage drops below
[docs] min_coverage. Packages are loaded with the module's full tag set
so tag-gated declarations are audited too.

A package without a package comment is reported as a warning but does
not affect coverage.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			_, pkgs, err := app.SelectPackages(ctx, packageFilters...)
			if err != nil {
				return err
			}

			auditor := doccheck.Auditor{Logger: app.Logger}
			var failures []moduleFailure
			for _, pkg := range pkgs {
				mc, err := app.ModuleConfig(pkg)
				if err != nil {
					failures = append(failures, moduleFailure{Package: pkg.Name, Err: err})
					continue
				}
				flags := matrix.TagsFlag(moduleTags(mc.Test))
				reports, err := auditor.Audit(ctx, pkg.Dir, flags)
				if err != nil {
					failures = append(failures, moduleFailure{Package: pkg.Name, Err: err})
					continue
				}

				var total, documented int
				var missing []string
				for _, r := range reports {
					if r.MissingPackageDoc {
						app.Logger.Warn("package has no package comment",
							"module", pkg.Name, "package", r.Package)
					}
					total += r.Total
					documented += r.Documented
					for _, d := range r.Undocumented {
						missing = append(missing, fmt.Sprintf("%s: %s", d.Pos, d.Name))
					}
				}

				coverage := 100.0
				if total > 0 {
					coverage = float64(documented) / float64(total) * 100
				}
				threshold := mc.Docs.Threshold()
				fmt.Fprintf(cmd.OutOrStdout(), "  %s %.1f%% documented (threshold %.0f%%)\n",
					ModuleStyle.Render(pkg.Name), coverage, threshold)
				if coverage < threshold {
					failures = append(failures, moduleFailure{
						Package: pkg.Name,
						Err: fmt.Errorf("documentation coverage %.1f%% is below the %.0f%% threshold; undocumented:\n  %s",
							coverage, threshold, strings.Join(missing, "\n  ")),
					})
				}
			}

			if err := app.failTask(cmd, "docs", failures, issue.DocCoverageId, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s documentation coverage verified for %d module(s)\n",
				SuccessStyle.Render("✓"), len(pkgs))
			return nil
		},
	}
}
