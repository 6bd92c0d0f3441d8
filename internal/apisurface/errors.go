// SPDX-License-Identifier: MPL-2.0

package apisurface

import (
	"fmt"
	"strings"
)

// ExtractionError reports a failed snapshot extraction for one package and
// configuration. Always fatal: partial surfaces must never be compared.
type ExtractionError struct {
	Package string
	Config  FeatureConfig
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extracting %s API surface of %s: %v", e.Config, e.Package, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// NonAdditiveError reports that enabling every feature removed or changed
// items visible with no features. All offenders are enumerated so one run
// surfaces every violation.
type NonAdditiveError struct {
	Package string
	Removed []Item
	Changed []Change
}

func (e *NonAdditiveError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "features are not additive for %s:", e.Package)
	for _, it := range e.Removed {
		fmt.Fprintf(&sb, "\n  removed: %s", it.Decl)
	}
	for _, ch := range e.Changed {
		fmt.Fprintf(&sb, "\n  changed: %s\n    no features:  %s\n    all features: %s", ch.Name, ch.Old, ch.New)
	}
	return sb.String()
}

// BreakingChangeError aggregates the packages whose semver comparison found
// breaking configurations. Raised once, after every package was compared.
type BreakingChangeError struct {
	Packages []string
}

func (e *BreakingChangeError) Error() string {
	return "breaking public API changes in: " + strings.Join(e.Packages, ", ")
}
