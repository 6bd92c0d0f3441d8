// SPDX-License-Identifier: MPL-2.0

package apisurface

import "fmt"

// CheckAdditive enforces that the no-features surface is a subset, by name
// and declaration, of the all-features surface: enabling features may only
// add public items. On violation the returned *NonAdditiveError enumerates
// every removed and changed item.
func CheckAdditive(pkg string, set PackageAPISet) error {
	if err := set.Complete(); err != nil {
		return fmt.Errorf("package %s: %w", pkg, err)
	}

	d := Diff(set[FeatureNone], set[FeatureAll])
	if !d.Breaking() {
		return nil
	}
	return &NonAdditiveError{Package: pkg, Removed: d.Removed, Changed: d.Changed}
}
