// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	// LogLevelDebug enables debug output, including every external command.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the default verbosity.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn shows warnings and errors only (quiet mode).
	LogLevelWarn LogLevel = "warn"
	// LogLevelError shows errors only.
	LogLevelError LogLevel = "error"

	// DefaultSnapshotDir is where API snapshot files live relative to the
	// workspace root.
	DefaultSnapshotDir SnapshotDir = "api"

	// DefaultDocCoverage is the documentation coverage threshold (percent)
	// applied when a module does not configure one.
	DefaultDocCoverage = 80.0

	// DefaultFuzzTime bounds each fuzz target run when [fuzz] fuzz_time
	// is not configured.
	DefaultFuzzTime = 30 * time.Second

	// DefaultIntegrationDir is the per-module directory probed for
	// integration tests when [integration] dir is not configured.
	DefaultIntegrationDir = "integration"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidSnapshotDir is returned when a SnapshotDir value is unusable.
	ErrInvalidSnapshotDir = errors.New("invalid snapshot dir")
	// ErrInvalidSettings is the sentinel error wrapped by InvalidSettingsError.
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrInvalidBuildTag is returned when a configured build tag is malformed.
	ErrInvalidBuildTag = errors.New("invalid build tag")
	// ErrInvalidCoverage is returned when a coverage threshold is out of range.
	ErrInvalidCoverage = errors.New("invalid coverage threshold")
	// ErrInvalidFuzzTime is returned when a fuzz_time value does not parse.
	ErrInvalidFuzzTime = errors.New("invalid fuzz time")
	// ErrInvalidIntegrationDir is returned when an integration dir is not
	// relative to the module.
	ErrInvalidIntegrationDir = errors.New("invalid integration dir")
	// ErrInvalidModuleConfig is the sentinel error wrapped by InvalidModuleConfigError.
	ErrInvalidModuleConfig = errors.New("invalid module config")
)

type (
	// LogLevel selects the logging verbosity.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	// It wraps ErrInvalidLogLevel for errors.Is() compatibility.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// SnapshotDir is the workspace-relative directory holding API snapshot
	// files. The zero value ("") is valid and means DefaultSnapshotDir.
	SnapshotDir string

	// InvalidSnapshotDirError is returned when a SnapshotDir value is
	// whitespace-only or absolute. It wraps ErrInvalidSnapshotDir.
	InvalidSnapshotDirError struct {
		Value SnapshotDir
	}

	// Settings holds workspace-wide tool settings.
	Settings struct {
		// LogLevel sets the logging verbosity.
		LogLevel LogLevel `json:"log_level" mapstructure:"log_level"`
		// NoColor disables styled terminal output.
		NoColor bool `json:"no_color" mapstructure:"no_color"`
		// APIDir is the workspace-relative directory for API snapshots.
		APIDir SnapshotDir `json:"api_dir" mapstructure:"api_dir"`
	}

	// InvalidSettingsError is returned when Settings has invalid fields.
	// It wraps ErrInvalidSettings and collects field-level errors.
	InvalidSettingsError struct {
		FieldErrors []error
	}

	// InvalidBuildTagError is returned when a configured build tag contains
	// whitespace or commas, or is empty. It wraps ErrInvalidBuildTag.
	InvalidBuildTagError struct {
		Value string
	}

	// InvalidCoverageError is returned when min_coverage is outside [0, 100].
	// It wraps ErrInvalidCoverage.
	InvalidCoverageError struct {
		Value float64
	}

	// InvalidFuzzTimeError is returned when fuzz_time is not a duration.
	// It wraps ErrInvalidFuzzTime.
	InvalidFuzzTimeError struct {
		Value string
		Err   error
	}

	// InvalidIntegrationDirError is returned when [integration] dir escapes
	// the module. It wraps ErrInvalidIntegrationDir.
	InvalidIntegrationDirError struct {
		Value string
	}

	// InvalidModuleConfigError is returned when a ModuleConfig has invalid
	// fields. It wraps ErrInvalidModuleConfig and collects field-level errors.
	InvalidModuleConfigError struct {
		FieldErrors []error
	}

	// ModuleConfig holds the per-module task configuration read from
	// gomaint.toml. The zero value is a fully usable default.
	ModuleConfig struct {
		Test        TestConfig        `toml:"test"`
		Lint        LintConfig        `toml:"lint"`
		Docs        DocsConfig        `toml:"docs"`
		Fuzz        FuzzConfig        `toml:"fuzz"`
		Integration IntegrationConfig `toml:"integration"`
		Prerelease  PrereleaseConfig  `toml:"prerelease"`
	}

	// TestConfig configures the test matrix for a module.
	TestConfig struct {
		// Setup is a shell script run before the module's tests.
		Setup string `toml:"setup"`
		// BaseTags are build tags applied to every feature combination.
		BaseTags []string `toml:"base_tags"`
		// FeatureTags are combined into the test matrix: all together,
		// each alone, and each pair.
		FeatureTags []string `toml:"feature_tags"`
		// ExactTags lists additional tag sets to test exactly as given.
		ExactTags [][]string `toml:"exact_tags"`
		// Examples names runnable examples under examples/, optionally with
		// a tag override ("name", "name:-", "name:tag1 tag2").
		Examples []string `toml:"examples"`
	}

	// LintConfig configures lint checks for a module.
	LintConfig struct {
		// AllowedDuplicates lists module paths that may be required at
		// different versions across the workspace.
		AllowedDuplicates []string `toml:"allowed_duplicates"`
	}

	// DocsConfig configures documentation coverage checks.
	DocsConfig struct {
		// MinCoverage is the required percentage of documented exported
		// declarations. Zero means DefaultDocCoverage.
		MinCoverage float64 `toml:"min_coverage"`
	}

	// FuzzConfig configures fuzz runs.
	FuzzConfig struct {
		// FuzzTime bounds each fuzz target, as a Go duration string.
		// Empty means DefaultFuzzTime.
		FuzzTime string `toml:"fuzz_time"`
	}

	// IntegrationConfig configures integration test runs.
	IntegrationConfig struct {
		// Dir is the module-relative integration test directory.
		// Empty means DefaultIntegrationDir.
		Dir string `toml:"dir"`
		// Versions lists build tags to run the integration tests under,
		// one run per entry. Empty means a single untagged run.
		Versions []string `toml:"versions"`
	}

	// PrereleaseConfig configures release-readiness checks.
	PrereleaseConfig struct {
		// Skip exempts the module from prerelease checks.
		Skip bool `toml:"skip"`
		// Banned lists additional tokens the TODO scan flags.
		Banned []string `toml:"banned"`
	}
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string { return string(l) }

// Normalize maps accepted aliases onto canonical levels: "quiet" is an
// alias for warn.
func (l LogLevel) Normalize() LogLevel {
	if l == "quiet" {
		return LogLevelWarn
	}
	return l
}

// IsValid returns whether the LogLevel is one of the defined levels,
// and a list of validation errors if it is not.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true, nil
	default:
		return false, []error{&InvalidLogLevelError{Value: l}}
	}
}

// Error implements the error interface for InvalidLogLevelError.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// String returns the string representation of the SnapshotDir.
func (d SnapshotDir) String() string { return string(d) }

// OrDefault returns the directory, substituting DefaultSnapshotDir for
// the zero value.
func (d SnapshotDir) OrDefault() SnapshotDir {
	if d == "" {
		return DefaultSnapshotDir
	}
	return d
}

// IsValid returns whether the SnapshotDir is valid. The zero value is
// valid; non-zero values must not be whitespace-only or absolute.
func (d SnapshotDir) IsValid() (bool, []error) {
	if d == "" {
		return true, nil
	}
	if strings.TrimSpace(string(d)) == "" || filepath.IsAbs(string(d)) {
		return false, []error{&InvalidSnapshotDirError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSnapshotDirError.
func (e *InvalidSnapshotDirError) Error() string {
	return fmt.Sprintf("invalid snapshot dir %q: must be a workspace-relative path", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidSnapshotDirError) Unwrap() error { return ErrInvalidSnapshotDir }

// IsValid returns whether the Settings has valid fields.
// It delegates to LogLevel.IsValid() and APIDir.IsValid().
func (s Settings) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := s.LogLevel.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := s.APIDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidSettingsError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSettingsError.
func (e *InvalidSettingsError) Error() string {
	return fmt.Sprintf("invalid settings: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidSettings for errors.Is() compatibility.
func (e *InvalidSettingsError) Unwrap() error { return ErrInvalidSettings }

// Error implements the error interface for InvalidBuildTagError.
func (e *InvalidBuildTagError) Error() string {
	return fmt.Sprintf("invalid build tag %q: must be non-empty without spaces or commas", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidBuildTagError) Unwrap() error { return ErrInvalidBuildTag }

// Error implements the error interface for InvalidCoverageError.
func (e *InvalidCoverageError) Error() string {
	return fmt.Sprintf("invalid coverage threshold %v: must be between 0 and 100", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidCoverageError) Unwrap() error { return ErrInvalidCoverage }

// Error implements the error interface for InvalidFuzzTimeError.
func (e *InvalidFuzzTimeError) Error() string {
	return fmt.Sprintf("invalid fuzz time %q: %v", e.Value, e.Err)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidFuzzTimeError) Unwrap() error { return ErrInvalidFuzzTime }

// Error implements the error interface for InvalidIntegrationDirError.
func (e *InvalidIntegrationDirError) Error() string {
	return fmt.Sprintf("invalid integration dir %q: must be relative to the module", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidIntegrationDirError) Unwrap() error { return ErrInvalidIntegrationDir }

// Error implements the error interface for InvalidModuleConfigError.
func (e *InvalidModuleConfigError) Error() string {
	return fmt.Sprintf("invalid module config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidModuleConfig for errors.Is() compatibility.
func (e *InvalidModuleConfigError) Unwrap() error { return ErrInvalidModuleConfig }

// validateBuildTag reports whether a configured tag could appear in a
// -tags list: non-empty and free of whitespace and commas.
func validateBuildTag(tag string) (bool, []error) {
	trimmed := strings.TrimSpace(tag)
	if trimmed == "" || trimmed != tag || strings.ContainsAny(tag, " \t,") {
		return false, []error{&InvalidBuildTagError{Value: tag}}
	}
	return true, nil
}

// IsValid returns whether the TestConfig has valid fields. Every tag in
// BaseTags, FeatureTags and ExactTags must be a usable build tag.
func (c TestConfig) IsValid() (bool, []error) {
	var errs []error
	for _, tag := range c.BaseTags {
		if valid, fieldErrs := validateBuildTag(tag); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, tag := range c.FeatureTags {
		if valid, fieldErrs := validateBuildTag(tag); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, set := range c.ExactTags {
		for _, tag := range set {
			if valid, fieldErrs := validateBuildTag(tag); !valid {
				errs = append(errs, fieldErrs...)
			}
		}
	}
	return len(errs) == 0, errs
}

// Threshold returns the configured coverage threshold, substituting
// DefaultDocCoverage for the zero value.
func (c DocsConfig) Threshold() float64 {
	if c.MinCoverage == 0 {
		return DefaultDocCoverage
	}
	return c.MinCoverage
}

// IsValid returns whether the DocsConfig has valid fields.
func (c DocsConfig) IsValid() (bool, []error) {
	if c.MinCoverage < 0 || c.MinCoverage > 100 {
		return false, []error{&InvalidCoverageError{Value: c.MinCoverage}}
	}
	return true, nil
}

// Duration returns the configured fuzz time, substituting DefaultFuzzTime
// for the zero value.
func (c FuzzConfig) Duration() (time.Duration, error) {
	if c.FuzzTime == "" {
		return DefaultFuzzTime, nil
	}
	d, err := time.ParseDuration(c.FuzzTime)
	if err != nil {
		return 0, &InvalidFuzzTimeError{Value: c.FuzzTime, Err: err}
	}
	return d, nil
}

// IsValid returns whether the FuzzConfig has valid fields.
func (c FuzzConfig) IsValid() (bool, []error) {
	if _, err := c.Duration(); err != nil {
		return false, []error{err}
	}
	return true, nil
}

// Directory returns the configured integration dir, substituting
// DefaultIntegrationDir for the zero value.
func (c IntegrationConfig) Directory() string {
	if c.Dir == "" {
		return DefaultIntegrationDir
	}
	return c.Dir
}

// IsValid returns whether the IntegrationConfig has valid fields.
// The dir must stay inside the module.
func (c IntegrationConfig) IsValid() (bool, []error) {
	if c.Dir == "" {
		return true, nil
	}
	if filepath.IsAbs(c.Dir) || strings.HasPrefix(filepath.ToSlash(filepath.Clean(c.Dir)), "../") {
		return false, []error{&InvalidIntegrationDirError{Value: c.Dir}}
	}
	return true, nil
}

// IsValid returns whether the ModuleConfig has valid fields. It collects
// field errors from every table into a single InvalidModuleConfigError.
func (c ModuleConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Test.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Docs.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Fuzz.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Integration.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidModuleConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// DefaultSettings returns the default tool settings.
func DefaultSettings() *Settings {
	return &Settings{
		LogLevel: LogLevelInfo,
		NoColor:  false,
		APIDir:   DefaultSnapshotDir,
	}
}
