// SPDX-License-Identifier: MPL-2.0

package apisurface

import (
	"errors"
	"strings"
	"testing"
)

func setWith(none, alloc, all PublicAPI) PackageAPISet {
	return PackageAPISet{FeatureNone: none, FeatureAlloc: alloc, FeatureAll: all}
}

func TestCheckAdditivePass(t *testing.T) {
	none := surfaceOf(map[string]string{"func units.Parse": "func units.Parse(s string) (Amount, error)"})
	all := surfaceOf(map[string]string{
		"func units.Parse":  "func units.Parse(s string) (Amount, error)",
		"func units.Random": "func units.Random() Amount",
	})

	if err := CheckAdditive("units", setWith(none, none, all)); err != nil {
		t.Errorf("CheckAdditive() error = %v for grown surface", err)
	}
}

func TestCheckAdditiveEqualSurfacesPass(t *testing.T) {
	api := surfaceOf(map[string]string{"func units.Parse": "func units.Parse(s string) (Amount, error)"})
	if err := CheckAdditive("units", setWith(api, api, api)); err != nil {
		t.Errorf("CheckAdditive() error = %v for identical surfaces", err)
	}
}

func TestCheckAdditiveReportsRemoval(t *testing.T) {
	none := surfaceOf(map[string]string{
		"func units.Parse": "func units.Parse(s string) (Amount, error)",
		"type units.Baz":   "type units.Baz struct",
	})
	all := surfaceOf(map[string]string{"func units.Parse": "func units.Parse(s string) (Amount, error)"})

	err := CheckAdditive("units", setWith(none, none, all))
	if err == nil {
		t.Fatal("CheckAdditive() expected error when all-features drops an item")
	}

	var nonAdditive *NonAdditiveError
	if !errors.As(err, &nonAdditive) {
		t.Fatalf("error type = %T, want *NonAdditiveError", err)
	}
	if nonAdditive.Package != "units" {
		t.Errorf("Package = %q, want units", nonAdditive.Package)
	}
	if len(nonAdditive.Removed) != 1 || nonAdditive.Removed[0].Name != "type units.Baz" {
		t.Errorf("Removed = %v, want exactly type units.Baz", nonAdditive.Removed)
	}
	if !strings.Contains(err.Error(), "type units.Baz") {
		t.Errorf("Error() = %q, want the removed declaration enumerated", err)
	}
}

func TestCheckAdditiveReportsChangeWithBothDeclarations(t *testing.T) {
	none := surfaceOf(map[string]string{"func units.Sum": "func units.Sum(a, b int) int"})
	all := surfaceOf(map[string]string{"func units.Sum": "func units.Sum(a, b int64) int64"})

	err := CheckAdditive("units", setWith(none, none, all))
	var nonAdditive *NonAdditiveError
	if !errors.As(err, &nonAdditive) {
		t.Fatalf("error = %v, want *NonAdditiveError", err)
	}
	if len(nonAdditive.Changed) != 1 {
		t.Fatalf("Changed has %d entries, want 1", len(nonAdditive.Changed))
	}
	msg := err.Error()
	if !strings.Contains(msg, "func units.Sum(a, b int) int") || !strings.Contains(msg, "func units.Sum(a, b int64) int64") {
		t.Errorf("Error() = %q, want both old and new declarations", msg)
	}
}

func TestCheckAdditiveIncompleteSetIsFatal(t *testing.T) {
	set := PackageAPISet{FeatureNone: NewPublicAPI(), FeatureAll: NewPublicAPI()}
	if err := CheckAdditive("units", set); err == nil {
		t.Fatal("CheckAdditive() expected error for incomplete set")
	}
}
