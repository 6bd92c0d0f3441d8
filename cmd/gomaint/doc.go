// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for gomaint.
//
// This package implements the Cobra command hierarchy for the gomaint CLI:
// the root command, the API surface checks, and the maintenance tasks
// (test matrix, lint, docs, bench, fuzz, tidy, prerelease, integration).
// Command handlers delegate to the internal packages through an App
// composition root and report failures per module before exiting non-zero.
package cmd
