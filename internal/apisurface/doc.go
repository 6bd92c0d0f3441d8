// SPDX-License-Identifier: MPL-2.0

// Package apisurface derives, compares, and polices the public API surface of
// workspace modules.
//
// A surface snapshot (PublicAPI) is the set of exported package-level
// declarations of every non-internal package in a module, rendered into
// canonical one-line form under one feature configuration (a build-tag
// profile from the fixed catalog). Snapshots are diffed structurally into
// added, removed, and changed items; the additive check requires that
// enabling features never removes or changes items, and the semver check
// classifies baseline-vs-current diffs as breaking or non-breaking per
// configuration.
//
// Extraction drives the installed go toolchain through go/packages with the
// module directory as the working directory, so per-module build-tag
// resolution behaves exactly as it would for a consumer building that module.
package apisurface
