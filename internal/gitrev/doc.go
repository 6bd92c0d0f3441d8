// SPDX-License-Identifier: MPL-2.0

// Package gitrev owns every mutation of the working tree's checked-out
// revision. The checked-out revision is process-wide shared state, so it is
// modelled as a single-owner resource: Switcher acquires it by detaching to a
// baseline ref and releases it by restoring the captured original revision on
// every exit path, including callback failure and panic.
//
// The package also answers read-only questions about the tree (current
// revision, porcelain status, diff text) used by the drift checks.
package gitrev
