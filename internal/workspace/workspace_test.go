// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"strings"
	"testing"
)

const goListStream = `{
	"Path": "example.org/monorepo/wire",
	"Main": true,
	"Dir": "/work/monorepo/wire",
	"GoMod": "/work/monorepo/wire/go.mod",
	"GoVersion": "1.25"
}
{
	"Path": "example.org/monorepo/units",
	"Main": true,
	"Dir": "/work/monorepo/units",
	"GoMod": "/work/monorepo/units/go.mod",
	"GoVersion": "1.24"
}
{
	"Path": "example.org/elsewhere/dep",
	"Main": false,
	"Dir": "",
	"GoVersion": "1.21"
}
`

func TestParseModules(t *testing.T) {
	pkgs, err := parseModules(strings.NewReader(goListStream))
	if err != nil {
		t.Fatalf("parseModules() error = %v", err)
	}

	if len(pkgs) != 2 {
		t.Fatalf("parseModules() returned %d modules, want 2 (non-main skipped)", len(pkgs))
	}
	// Sorted by name.
	if pkgs[0].Name != "units" || pkgs[1].Name != "wire" {
		t.Errorf("names = %v, want [units wire]", Names(pkgs))
	}
	if pkgs[1].ModPath != "example.org/monorepo/wire" {
		t.Errorf("ModPath = %q, want full module path", pkgs[1].ModPath)
	}
	if pkgs[1].Dir != "/work/monorepo/wire" {
		t.Errorf("Dir = %q, want module directory", pkgs[1].Dir)
	}
	if pkgs[0].GoVersion != "1.24" {
		t.Errorf("GoVersion = %q, want 1.24", pkgs[0].GoVersion)
	}
}

func TestParseModulesRejectsGarbage(t *testing.T) {
	if _, err := parseModules(strings.NewReader("not json at all")); err == nil {
		t.Fatal("parseModules() expected error for malformed input")
	}
}

func TestFilter(t *testing.T) {
	pkgs := []PackageInfo{
		{Name: "units", ModPath: "example.org/monorepo/units"},
		{Name: "wire", ModPath: "example.org/monorepo/wire"},
	}

	tests := []struct {
		name    string
		filters []string
		want    []string
		wantErr bool
	}{
		{name: "empty keeps all", filters: nil, want: []string{"units", "wire"}},
		{name: "by name", filters: []string{"wire"}, want: []string{"wire"}},
		{name: "by module path", filters: []string{"example.org/monorepo/units"}, want: []string{"units"}},
		{name: "request order preserved", filters: []string{"wire", "units"}, want: []string{"wire", "units"}},
		{name: "duplicates collapsed", filters: []string{"wire", "wire"}, want: []string{"wire"}},
		{name: "unknown fails", filters: []string{"nope"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Filter(pkgs, tt.filters)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Filter() expected error, got nil")
				}
				if !strings.Contains(err.Error(), "units, wire") {
					t.Errorf("error %q should list available packages", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Filter() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Filter() returned %d packages, want %d", len(got), len(tt.want))
			}
			for i, p := range got {
				if p.Name != tt.want[i] {
					t.Errorf("Filter()[%d] = %q, want %q", i, p.Name, tt.want[i])
				}
			}
		})
	}
}
