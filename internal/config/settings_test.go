// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"gomaint/internal/issue"
	"gomaint/internal/testutil"
)

// clearEnv neutralizes ambient GOMAINT_* variables for the test.
// Viper treats an empty environment value as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GOMAINT_LOG_LEVEL", "")
	t.Setenv("GOMAINT_NO_COLOR", "")
	t.Setenv("GOMAINT_API_DIR", "")
}

func TestLoadSettingsDefaults(t *testing.T) {
	clearEnv(t)

	s, path, err := loadSettingsWithOptions(context.Background(), LoadOptions{WorkspaceRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("loadSettingsWithOptions() error = %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty (no file)", path)
	}
	if s.LogLevel != LogLevelInfo || s.NoColor || s.APIDir != DefaultSnapshotDir {
		t.Errorf("settings = %+v, want defaults", s)
	}
}

func TestLoadSettingsFromWorkspaceFile(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, FileName), `
[tool]
log_level = "warn"
no_color = true
api_dir = "snapshots"

[test]
feature_tags = ["alloc"]
`)

	s, path, err := loadSettingsWithOptions(context.Background(), LoadOptions{WorkspaceRoot: root})
	if err != nil {
		t.Fatalf("loadSettingsWithOptions() error = %v", err)
	}
	if path != filepath.Join(root, FileName) {
		t.Errorf("resolved path = %q", path)
	}
	if s.LogLevel != LogLevelWarn {
		t.Errorf("LogLevel = %q, want warn", s.LogLevel)
	}
	if !s.NoColor {
		t.Error("NoColor = false, want true")
	}
	if s.APIDir != "snapshots" {
		t.Errorf("APIDir = %q, want snapshots", s.APIDir)
	}
}

func TestLoadSettingsEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, FileName), `
[tool]
log_level = "warn"
`)
	t.Setenv("GOMAINT_LOG_LEVEL", "debug")

	s, _, err := loadSettingsWithOptions(context.Background(), LoadOptions{WorkspaceRoot: root})
	if err != nil {
		t.Fatalf("loadSettingsWithOptions() error = %v", err)
	}
	if s.LogLevel != LogLevelDebug {
		t.Errorf("LogLevel = %q, want debug (env should win)", s.LogLevel)
	}
}

func TestLoadSettingsIgnoresTaskOnlyFile(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, FileName), `
[test]
feature_tags = ["alloc"]
`)

	s, _, err := loadSettingsWithOptions(context.Background(), LoadOptions{WorkspaceRoot: root})
	if err != nil {
		t.Fatalf("loadSettingsWithOptions() error = %v", err)
	}
	if s.LogLevel != LogLevelInfo {
		t.Errorf("LogLevel = %q, want default info", s.LogLevel)
	}
}

func TestLoadSettingsExplicitPathMissing(t *testing.T) {
	clearEnv(t)

	_, _, err := loadSettingsWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.toml"),
	})
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("error = %T, want *issue.ActionableError", err)
	}
}

func TestLoadSettingsQuietAlias(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOMAINT_LOG_LEVEL", "quiet")

	s, _, err := loadSettingsWithOptions(context.Background(), LoadOptions{WorkspaceRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("loadSettingsWithOptions() error = %v", err)
	}
	if s.LogLevel != LogLevelWarn {
		t.Errorf("LogLevel = %q, want warn (quiet alias)", s.LogLevel)
	}
}

func TestLoadSettingsRejectsInvalidLevel(t *testing.T) {
	clearEnv(t)
	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, FileName), `
[tool]
log_level = "loud"
`)

	_, _, err := loadSettingsWithOptions(context.Background(), LoadOptions{WorkspaceRoot: root})
	if !errors.Is(err, ErrInvalidSettings) {
		t.Fatalf("error = %v, want ErrInvalidSettings", err)
	}
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Errorf("error chain should include ErrInvalidLogLevel, got %v", err)
	}
}

func TestProviderLoad(t *testing.T) {
	clearEnv(t)

	s, err := NewProvider().Load(context.Background(), LoadOptions{WorkspaceRoot: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.LogLevel != LogLevelInfo {
		t.Errorf("LogLevel = %q, want info", s.LogLevel)
	}
}

func TestLoadSettingsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := loadSettingsWithOptions(ctx, LoadOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}
