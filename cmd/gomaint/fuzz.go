// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"
	"time"

	"gomaint/internal/matrix"

	"github.com/spf13/cobra"
)

// fuzzTarget is one fuzz function discovered in a workspace module.
type fuzzTarget struct {
	// Package is the import path containing the target.
	Package string
	// Name is the fuzz function name.
	Name string
}

// newFuzzCommand creates the `gomaint fuzz` command.
func newFuzzCommand(app *App) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Discover and run fuzz targets",
		Long: `Run every fuzz target in the workspace.

Targets are discovered with 'go test -list ^Fuzz' and then run one at a
time for [fuzz] fuzz_time each. With --list, targets are printed
without running them.`,
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
				tags := matrix.TagsFlag(mc.Test.BaseTags)

				discoverArgs := append([]string{"test", "-list", "^Fuzz"}, tags...)
				discoverArgs = append(discoverArgs, "./...")
				out, err := app.Runner.Output(ctx, pkg.Dir, "go", discoverArgs...)
				if err != nil {
					failures = append(failures, moduleFailure{Package: pkg.Name, Err: err})
					continue
				}
				targets := parseFuzzTargets(out)
				if len(targets) == 0 {
					app.Logger.Debug("no fuzz targets", "module", pkg.Name)
					continue
				}

				if list {
					fmt.Fprintf(cmd.OutOrStdout(), "%s\n", ModuleStyle.Render(pkg.Name))
					for _, t := range targets {
						fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s\n", t.Package, t.Name)
					}
					continue
				}

				dur, err := mc.Fuzz.Duration()
				if err != nil {
					failures = append(failures, moduleFailure{Package: pkg.Name, Err: err})
					continue
				}
				for _, t := range targets {
					fmt.Fprintf(cmd.OutOrStdout(), ":: fuzzing %s in %s for %s\n",
						t.Name, t.Package, dur)
					if err := app.Runner.Run(ctx, pkg.Dir, "go", fuzzRunArgs(t, dur, tags)...); err != nil {
						failures = append(failures, moduleFailure{
							Package: pkg.Name,
							Err:     fmt.Errorf("fuzz target %s in %s: %w", t.Name, t.Package, err),
						})
					}
				}
			}

			if err := app.failTask(cmd, "fuzz", failures, 0, nil); err != nil {
				return err
			}
			if !list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s fuzz targets passed for %d module(s)\n",
					SuccessStyle.Render("✓"), len(pkgs))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list fuzz targets without running them")
	return cmd
}

// fuzzRunArgs builds the go test invocation running one fuzz target for dur.
func fuzzRunArgs(t fuzzTarget, dur time.Duration, tags []string) []string {
	args := []string{"test", "-run=^$", "-fuzz=^" + t.Name + "$", "-fuzztime=" + dur.String()}
	args = append(args, tags...)
	return append(args, t.Package)
}

// parseFuzzTargets reads 'go test -list' output. Target names appear on
// their own lines, followed by an "ok <import path> <elapsed>" line for the
// package that declared them; packages without test files print a "?" line.
func parseFuzzTargets(out string) []fuzzTarget {
	var targets []fuzzTarget
	var pending []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		switch {
		case len(fields) == 0:
		case strings.HasPrefix(fields[0], "Fuzz"):
			pending = append(pending, fields[0])
		case fields[0] == "ok" && len(fields) >= 2:
			for _, name := range pending {
				targets = append(targets, fuzzTarget{Package: fields[1], Name: name})
			}
			pending = nil
		case fields[0] == "?":
			pending = nil
		}
	}
	return targets
}
