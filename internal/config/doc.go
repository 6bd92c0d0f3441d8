// SPDX-License-Identifier: MPL-2.0

// Package config handles gomaint configuration in two layers.
//
// Tool settings (log level, color, snapshot directory) are loaded with
// Viper: defaults, then the [tool] table of an optional gomaint.toml at
// the workspace root, then GOMAINT_* environment overrides.
//
// Task configuration is per module: a gomaint.toml next to the module's
// go.mod with [test], [lint], [docs], [fuzz], [integration] and
// [prerelease] tables, decoded directly with BurntSushi/toml. A missing
// file yields zero-value defaults; a malformed one is an error.
package config
