// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gomaint/internal/config"
	"gomaint/internal/toolchain"
	"gomaint/internal/workspace"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/mod/modfile"
)

// newLintCommand creates the `gomaint lint` command.
func newLintCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Vet every module and check workspace dependency hygiene",
		Long: `Lint the workspace.

Per module, 'go vet ./...' runs twice: once without build tags and once
with the module's full tag set ([test] base_tags plus feature_tags), so
tag-gated files are vetted too.

Across the workspace:
  - a dependency required at different versions by different modules is
    a finding unless listed in [lint] allowed_duplicates,
  - every module's go directive must match the go.work directive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			root, pkgs, err := app.SelectPackages(ctx, packageFilters...)
			if err != nil {
				return err
			}

			var failures []moduleFailure
			allowed := map[string]struct{}{}
			allTags := map[string][]string{}
			for _, pkg := range pkgs {
				mc, err := app.ModuleConfig(pkg)
				if err != nil {
					failures = append(failures, moduleFailure{Package: pkg.Name, Err: err})
					continue
				}
				for _, mod := range mc.Lint.AllowedDuplicates {
					allowed[mod] = struct{}{}
				}
				allTags[pkg.Name] = moduleTags(mc.Test)

				if err := vetModule(ctx, app, pkg, allTags[pkg.Name]); err != nil {
					failures = append(failures, moduleFailure{Package: pkg.Name, Err: err})
				}
			}

			reqs, goVersions, err := readWorkspaceModFiles(pkgs)
			if err != nil {
				return err
			}
			if finds := duplicateFindings(reqs, maps.Keys(allowed)); len(finds) > 0 {
				failures = append(failures, moduleFailure{
					Package: "workspace",
					Err:     errors.New("duplicate dependency versions:\n  " + strings.Join(finds, "\n  ")),
				})
			}

			workMin, err := toolchain.WorkspaceMinimum(root)
			if err != nil {
				return err
			}
			if finds := goDirectiveFindings(workMin, goVersions); len(finds) > 0 {
				failures = append(failures, moduleFailure{
					Package: "workspace",
					Err:     errors.New("inconsistent go directives:\n  " + strings.Join(finds, "\n  ")),
				})
			}

			if err := app.failTask(cmd, "lint", failures, 0, nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s lint passed for %d module(s)\n",
				SuccessStyle.Render("✓"), len(pkgs))
			return nil
		},
	}
}

// vetModule runs go vet without tags, then with the module's full tag set.
func vetModule(ctx context.Context, app *App, pkg workspace.PackageInfo, tags []string) error {
	if err := app.Runner.Run(ctx, pkg.Dir, "go", "vet", "./..."); err != nil {
		return err
	}
	if len(tags) == 0 {
		return nil
	}
	args := []string{"vet", "-tags=" + strings.Join(tags, ","), "./..."}
	return app.Runner.Run(ctx, pkg.Dir, "go", args...)
}

// moduleTags is the module's full tag set: base_tags plus feature_tags.
func moduleTags(tc config.TestConfig) []string {
	tags := slices.Clone(tc.BaseTags)
	return append(tags, tc.FeatureTags...)
}

// requirement is one module requirement read from a workspace go.mod.
type requirement struct {
	// Module is the required module path.
	Module string
	// Version is the required version.
	Version string
	// By is the workspace module declaring the requirement.
	By string
}

// moduleGoVersion pairs a workspace module with its go directive.
type moduleGoVersion struct {
	Package string
	Version string
}

// readWorkspaceModFiles parses every module's go.mod, collecting all
// requirements and the go directives.
func readWorkspaceModFiles(pkgs []workspace.PackageInfo) ([]requirement, []moduleGoVersion, error) {
	var reqs []requirement
	var goVersions []moduleGoVersion
	for _, pkg := range pkgs {
		path := filepath.Join(pkg.Dir, "go.mod")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("reading %s: %w", path, err)
		}
		f, err := modfile.Parse(path, data, nil)
		if err != nil {
			return nil, nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		for _, r := range f.Require {
			reqs = append(reqs, requirement{Module: r.Mod.Path, Version: r.Mod.Version, By: pkg.Name})
		}
		if f.Go != nil {
			goVersions = append(goVersions, moduleGoVersion{Package: pkg.Name, Version: f.Go.Version})
		}
	}
	return reqs, goVersions, nil
}

// duplicateFindings reports dependencies required at more than one version
// across the workspace, excluding the allowed list. Findings are sorted by
// module path.
func duplicateFindings(reqs []requirement, allowed []string) []string {
	byModule := map[string]map[string][]string{}
	for _, r := range reqs {
		if byModule[r.Module] == nil {
			byModule[r.Module] = map[string][]string{}
		}
		byModule[r.Module][r.Version] = append(byModule[r.Module][r.Version], r.By)
	}

	var findings []string
	modules := maps.Keys(byModule)
	slices.Sort(modules)
	for _, mod := range modules {
		versions := byModule[mod]
		if len(versions) < 2 || slices.Contains(allowed, mod) {
			continue
		}
		vs := maps.Keys(versions)
		slices.Sort(vs)
		var parts []string
		for _, v := range vs {
			requirers := versions[v]
			slices.Sort(requirers)
			parts = append(parts, fmt.Sprintf("%s (by %s)", v, strings.Join(requirers, ", ")))
		}
		findings = append(findings, fmt.Sprintf("%s required at %s", mod, strings.Join(parts, " and ")))
	}
	return findings
}

// goDirectiveFindings reports modules whose go directive differs from the
// workspace's.
func goDirectiveFindings(workVersion string, mods []moduleGoVersion) []string {
	var findings []string
	for _, m := range mods {
		if m.Version != workVersion {
			findings = append(findings,
				fmt.Sprintf("module %s declares go %s but the workspace declares go %s", m.Package, m.Version, workVersion))
		}
	}
	return findings
}
