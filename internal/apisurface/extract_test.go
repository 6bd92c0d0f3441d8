// SPDX-License-Identifier: MPL-2.0

package apisurface

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"gomaint/internal/workspace"
)

func requireGo(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go toolchain not available")
	}
}

func writeFixtureFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// fixtureModule writes a small module exercising every declaration kind the
// renderer handles, with one function gated behind the alloc tag.
func fixtureModule(t *testing.T) workspace.PackageInfo {
	t.Helper()
	dir := t.TempDir()

	writeFixtureFile(t, dir, "go.mod", "module example.org/gizmo\n\ngo 1.21\n")
	writeFixtureFile(t, dir, "gizmo.go", `package gizmo

import "errors"

const MaxRetries = 3

var ErrClosed = errors.New("gizmo: closed")

type Client struct {
	Addr    string
	backoff int
}

func (c *Client) Close() error { return nil }

func (c Client) String() string { return c.Addr }

func Dial(addr string) (*Client, error) { return &Client{Addr: addr}, nil }
`)
	writeFixtureFile(t, dir, "alloc.go", `//go:build alloc

package gizmo

func Buffered(n int) []byte { return make([]byte, n) }
`)
	writeFixtureFile(t, dir, "sub/sub.go", `package sub

func Version() string { return "1" }
`)
	writeFixtureFile(t, dir, "internal/hidden/hidden.go", `package hidden

func Secret() {}
`)

	return workspace.PackageInfo{Name: "gizmo", ModPath: "example.org/gizmo", Dir: dir}
}

func TestExtractRendersDeclarations(t *testing.T) {
	requireGo(t)
	pkg := fixtureModule(t)

	api, err := (&Extractor{}).Extract(context.Background(), pkg, FeatureNone)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	wantDecls := []struct {
		name string
		want string
	}{
		{name: "const gizmo.MaxRetries", want: "const gizmo.MaxRetries = 3"},
		{name: "var gizmo.ErrClosed", want: "var gizmo.ErrClosed error"},
		{name: "type gizmo.Client", want: "type gizmo.Client struct"},
		{name: "field gizmo.Client.Addr", want: "field gizmo.Client.Addr string"},
		{name: "method (*gizmo.Client) Close", want: "method (*gizmo.Client) Close() error"},
		{name: "method (gizmo.Client) String", want: "method (gizmo.Client) String() string"},
		{name: "func gizmo.Dial", want: "func gizmo.Dial(addr string) (*Client, error)"},
		{name: "func gizmo/sub.Version", want: "func gizmo/sub.Version() string"},
	}
	for _, tt := range wantDecls {
		got, ok := api.Decl(tt.name)
		if !ok {
			t.Errorf("missing item %q in %v", tt.name, api.Names())
			continue
		}
		if got != tt.want {
			t.Errorf("Decl(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}

	for _, absent := range []string{"func gizmo.Buffered", "func gizmo/internal/hidden.Secret"} {
		if _, ok := api.Decl(absent); ok {
			t.Errorf("item %q should not be visible under no-features", absent)
		}
	}
	if _, ok := api.Decl("field gizmo.Client.backoff"); ok {
		t.Error("unexported field rendered")
	}
}

func TestExtractHonorsBuildTags(t *testing.T) {
	requireGo(t)
	pkg := fixtureModule(t)
	ex := &Extractor{}

	none, err := ex.Extract(context.Background(), pkg, FeatureNone)
	if err != nil {
		t.Fatalf("Extract(none) error = %v", err)
	}
	all, err := ex.Extract(context.Background(), pkg, FeatureAll)
	if err != nil {
		t.Fatalf("Extract(all) error = %v", err)
	}

	if _, ok := all.Decl("func gizmo.Buffered"); !ok {
		t.Error("alloc-gated function missing from all-features surface")
	}
	if none.Equal(all) {
		t.Error("no-features and all-features surfaces should differ")
	}
}

func TestExtractDeterministic(t *testing.T) {
	requireGo(t)
	pkg := fixtureModule(t)
	ex := &Extractor{}

	first, err := ex.Extract(context.Background(), pkg, FeatureNone)
	if err != nil {
		t.Fatalf("first Extract() error = %v", err)
	}
	second, err := ex.Extract(context.Background(), pkg, FeatureNone)
	if err != nil {
		t.Fatalf("second Extract() error = %v", err)
	}
	if !first.Equal(second) {
		t.Error("two extractions of an unchanged tree differ")
	}
	if first.Render() != second.Render() {
		t.Error("rendered snapshots of an unchanged tree differ")
	}
}

func TestAPISetCompleteAndAdditive(t *testing.T) {
	requireGo(t)
	pkg := fixtureModule(t)

	set, err := (&Extractor{}).APISet(context.Background(), pkg)
	if err != nil {
		t.Fatalf("APISet() error = %v", err)
	}
	if err := set.Complete(); err != nil {
		t.Errorf("Complete() error = %v", err)
	}
	if err := CheckAdditive(pkg.Name, set); err != nil {
		t.Errorf("CheckAdditive() error = %v for tag-gated additions", err)
	}
}

func TestExtractReportsLoadErrors(t *testing.T) {
	requireGo(t)
	dir := t.TempDir()
	writeFixtureFile(t, dir, "go.mod", "module example.org/broken\n\ngo 1.21\n")
	writeFixtureFile(t, dir, "broken.go", "package broken\n\nfunc Oops() {\n")

	pkg := workspace.PackageInfo{Name: "broken", ModPath: "example.org/broken", Dir: dir}
	_, err := (&Extractor{}).Extract(context.Background(), pkg, FeatureNone)
	if err == nil {
		t.Fatal("Extract() expected error for unparsable module")
	}
	var exErr *ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("error type = %T, want *ExtractionError", err)
	}
	if exErr.Package != "broken" || exErr.Config != FeatureNone {
		t.Errorf("ExtractionError = %+v, want package and config recorded", exErr)
	}
}

func TestIsInternal(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{path: "example.org/gizmo", want: false},
		{path: "example.org/gizmo/sub", want: false},
		{path: "example.org/gizmo/internal", want: true},
		{path: "example.org/gizmo/internal/hidden", want: true},
		{path: "example.org/gizmo/internals", want: false},
	}
	for _, tt := range tests {
		if got := isInternal(tt.path); got != tt.want {
			t.Errorf("isInternal(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
