// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gomaint/internal/issue"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides
// (GOMAINT_LOG_LEVEL, GOMAINT_NO_COLOR, GOMAINT_API_DIR).
const EnvPrefix = "GOMAINT"

// loadSettingsWithOptions performs option-driven settings loading without
// mutating package state. Precedence, lowest to highest: defaults, the
// [tool] table of the resolved gomaint.toml, GOMAINT_* environment
// variables.
func loadSettingsWithOptions(ctx context.Context, opts LoadOptions) (*Settings, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load settings canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("log_level", defaults.LogLevel.String())
	v.SetDefault("no_color", defaults.NoColor)
	v.SetDefault("api_dir", defaults.APIDir.String())

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	resolvedPath := ""

	// An explicit --config path is used exclusively and must exist.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load settings").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Omit --config to use the workspace gomaint.toml").
				Wrap(fmt.Errorf("settings file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		if err := loadTOMLIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, "", settingsParseError(opts.ConfigFilePath, err)
		}
		resolvedPath = opts.ConfigFilePath
	} else if opts.WorkspaceRoot != "" {
		workspacePath := filepath.Join(opts.WorkspaceRoot, FileName)
		if fileExists(workspacePath) {
			if err := loadTOMLIntoViper(v, workspacePath); err != nil {
				return nil, "", settingsParseError(workspacePath, err)
			}
			resolvedPath = workspacePath
		}
		// No settings file found: defaults plus env (no error).
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, "", fmt.Errorf("failed to parse settings: %w", err)
	}
	s.LogLevel = s.LogLevel.Normalize()

	if valid, errs := s.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate settings").
			WithResource(resolvedPath).
			WithSuggestion("Valid log levels are debug, info, warn, error").
			WithSuggestion("api_dir must be a workspace-relative path").
			Wrap(errs[0]).
			BuildError()
	}

	return &s, resolvedPath, nil
}

// loadTOMLIntoViper decodes the [tool] table of a gomaint.toml and merges
// it into Viper, preserving defaults and environment overrides. A file
// without a [tool] table contributes nothing (the other tables are
// per-module task config, not tool settings).
func loadTOMLIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read settings file: %w", err)
	}

	var raw struct {
		Tool map[string]any `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse settings file: %w", err)
	}
	if len(raw.Tool) == 0 {
		return nil
	}

	if err := v.MergeConfigMap(raw.Tool); err != nil {
		return fmt.Errorf("failed to merge settings: %w", err)
	}

	return nil
}

func settingsParseError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load settings").
		WithResource(path).
		WithSuggestion("Check the TOML syntax of the [tool] table").
		WithSuggestion("Valid keys are log_level, no_color, api_dir").
		Wrap(err).
		BuildError()
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
