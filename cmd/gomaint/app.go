// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"gomaint/internal/config"
	"gomaint/internal/execx"
	"gomaint/internal/hook"
	"gomaint/internal/issue"
	"gomaint/internal/workspace"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: all Cobra command handlers receive an App
	// reference and reach the workspace, the external tool runner, and the
	// configuration layers through it.
	App struct {
		// Config loads the workspace tool settings.
		Config config.Provider
		// Settings are the resolved tool settings (defaults until
		// ApplySettings runs).
		Settings *config.Settings
		// Logger is the shared structured logger.
		Logger *log.Logger
		// Runner executes the external go and git commands.
		Runner *execx.Runner
		// Hooks runs configured module setup scripts.
		Hooks *hook.Runner

		stdout io.Writer
		stderr io.Writer

		root       string
		pkgs       []workspace.PackageInfo
		discovered bool
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp. Tests supply
	// buffers and canned settings to isolate command behavior.
	Dependencies struct {
		Config   config.Provider
		Settings *config.Settings
		Logger   *log.Logger
		Runner   *execx.Runner
		Hooks    *hook.Runner
		Stdout   io.Writer
		Stderr   io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Settings == nil {
		deps.Settings = config.DefaultSettings()
	}
	if deps.Logger == nil {
		deps.Logger = log.NewWithOptions(deps.Stderr, log.Options{
			Prefix: "gomaint",
		})
		deps.Logger.SetLevel(logLevel(deps.Settings.LogLevel, false))
	}
	if deps.Runner == nil {
		deps.Runner = &execx.Runner{
			Stdout: deps.Stdout,
			Stderr: deps.Stderr,
			Logger: deps.Logger,
		}
	}
	if deps.Hooks == nil {
		deps.Hooks = &hook.Runner{
			Stdout: deps.Stdout,
			Stderr: deps.Stderr,
			Logger: deps.Logger,
		}
	}

	return &App{
		Config:   deps.Config,
		Settings: deps.Settings,
		Logger:   deps.Logger,
		Runner:   deps.Runner,
		Hooks:    deps.Hooks,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
}

// ApplySettings installs freshly loaded settings and adjusts the log level.
// forceDebug (the --verbose flag) wins over the configured level. The Runner
// and Hooks share the App's logger, so the new level applies everywhere.
func (a *App) ApplySettings(settings *config.Settings, forceDebug bool) {
	a.Settings = settings
	a.Logger.SetLevel(logLevel(settings.LogLevel, forceDebug))
}

// logLevel maps a configured LogLevel onto the charm log levels.
func logLevel(level config.LogLevel, forceDebug bool) log.Level {
	if forceDebug {
		return log.DebugLevel
	}
	switch level {
	case config.LogLevelDebug:
		return log.DebugLevel
	case config.LogLevelWarn:
		return log.WarnLevel
	case config.LogLevelError:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Workspace resolves the repository root and discovers the workspace
// modules, memoizing the result for the rest of the invocation.
func (a *App) Workspace(ctx context.Context) (string, []workspace.PackageInfo, error) {
	if a.discovered {
		return a.root, a.pkgs, nil
	}

	root, err := workspace.RepoRoot(ctx, a.Runner, ".")
	if err != nil {
		a.renderIssue(a.stderr, issue.WorkspaceNotFoundId)
		return "", nil, issue.NewErrorContext().
			WithOperation("locate the workspace root").
			WithResource("git repository").
			WithSuggestion("run gomaint from inside the monorepo checkout").
			WithSuggestion("verify that git is installed and on PATH").
			Wrap(err).
			BuildError()
	}

	pkgs, err := workspace.Discover(ctx, a.Runner, root)
	if err != nil {
		a.renderIssue(a.stderr, issue.WorkspaceNotFoundId)
		return "", nil, err
	}

	a.root = root
	a.pkgs = pkgs
	a.discovered = true
	a.Logger.Debug("discovered workspace", "root", root, "modules", len(pkgs))
	return root, pkgs, nil
}

// SelectPackages resolves the workspace and applies the -p/--package
// filters. An unknown filter fails, listing the available modules.
func (a *App) SelectPackages(ctx context.Context, filters ...string) (string, []workspace.PackageInfo, error) {
	root, pkgs, err := a.Workspace(ctx)
	if err != nil {
		return "", nil, err
	}
	selected, err := workspace.Filter(pkgs, filters)
	if err != nil {
		return "", nil, err
	}
	return root, selected, nil
}

// ModuleConfig loads the per-module gomaint.toml task configuration. A
// missing file yields usable zero-value defaults.
func (a *App) ModuleConfig(pkg workspace.PackageInfo) (*config.ModuleConfig, error) {
	mc, err := config.LoadModuleConfig(pkg.Dir)
	if err != nil {
		return nil, err
	}
	a.Logger.Debug("loaded module config", "package", pkg.Name)
	return mc, nil
}
