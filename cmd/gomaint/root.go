// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gomaint/internal/config"
	"gomaint/internal/execx"
	"gomaint/internal/issue"
	"gomaint/internal/workspace"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output and forces debug logging
	verbose bool
	// cfgFile allows specifying a custom tool settings file
	cfgFile string
	// packageFilters limits tasks to specific workspace modules
	packageFilters []string

	// app is the CLI composition root shared by every command
	app = NewApp(Dependencies{})

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "gomaint",
		Short: "Maintainer tasks for multi-module Go workspaces",
		Long: TitleStyle.Render("gomaint") + SubtitleStyle.Render(" - Maintainer tasks for multi-module Go workspaces") + `

gomaint keeps the public API surface of every library module in a Go
workspace stable: it derives canonical API snapshots per feature
configuration (build-tag set), verifies that enabling features only adds
public items, and compares the surface against a baseline revision for
semver breaking changes.

Around the API checks it runs the rest of the monorepo maintenance
pipeline: feature-matrix tests, vet and dependency lints, documentation
coverage, benchmark smoke runs, fuzzing, module tidy drift, prerelease
hygiene, and integration tests.

Tasks read an optional gomaint.toml per module for their knobs and an
optional [tool] table at the workspace root for tool settings.

` + SubtitleStyle.Render("Examples:") + `
  gomaint api                     Verify committed API snapshots
  gomaint api --baseline v0.3.0   Compare the API against a release tag
  gomaint test -p units           Run the test matrix for one module
  gomaint prerelease              Run release-readiness checks`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "tool settings file (default is <workspace>/gomaint.toml)")
	rootCmd.PersistentFlags().StringArrayVarP(&packageFilters, "package", "p", nil, "limit to specific workspace module(s), by name or module path (repeatable)")

	// Add subcommands
	rootCmd.AddCommand(newAPICommand(app))
	rootCmd.AddCommand(newTestCommand(app))
	rootCmd.AddCommand(newLintCommand(app))
	rootCmd.AddCommand(newDocsCommand(app))
	rootCmd.AddCommand(newBenchCommand(app))
	rootCmd.AddCommand(newFuzzCommand(app))
	rootCmd.AddCommand(newTidyCommand(app))
	rootCmd.AddCommand(newPrereleaseCommand(app))
	rootCmd.AddCommand(newIntegrationCommand(app))
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig loads the tool settings and applies the log level.
func initRootConfig() {
	ctx := context.Background()

	// Settings live at the workspace root; resolve it quietly so --help
	// still works outside a repository. Commands that need the workspace
	// surface the real error themselves.
	root, err := workspace.RepoRoot(ctx, &execx.Runner{}, ".")
	if err != nil {
		root = ""
	}

	settings, err := app.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: cfgFile,
		WorkspaceRoot:  root,
	})
	if err != nil {
		// Always surface settings errors; a malformed file the user wrote
		// should never be silently replaced by defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		app.renderIssue(os.Stderr, issue.ConfigLoadFailedId)
		settings = config.DefaultSettings()
	}

	app.ApplySettings(settings, verbose)
}
