// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error reporting for maintenance
// policy failures.
//
// Two layers live here: ActionableError carries structured context
// (operation, resource, suggestions) through the error chain, and the
// Issue registry maps well-known failure classes to Markdown remediation
// guides rendered with glamour when a check fails.
package issue
