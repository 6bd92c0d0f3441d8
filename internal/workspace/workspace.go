// SPDX-License-Identifier: MPL-2.0

// Package workspace discovers the modules of a go.work monorepo.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"gomaint/internal/execx"

	"github.com/goccy/go-json"
)

// PackageInfo identifies one workspace module.
type PackageInfo struct {
	// Name is the module path's final element, used for api/ directories and
	// -p filters. Unique within a workspace by convention.
	Name string
	// ModPath is the full module path from go.mod.
	ModPath string
	// Dir is the absolute module root directory.
	Dir string
	// GoVersion is the module's go directive.
	GoVersion string
}

// goListModule mirrors the fields of `go list -m -json` output we consume.
type goListModule struct {
	Path      string `json:"Path"`
	Dir       string `json:"Dir"`
	Main      bool   `json:"Main"`
	GoVersion string `json:"GoVersion"`
}

// RepoRoot resolves the repository root of the tree containing dir.
func RepoRoot(ctx context.Context, runner *execx.Runner, dir string) (string, error) {
	out, err := runner.Output(ctx, dir, "git", "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("locating repository root: %w", err)
	}
	return out, nil
}

// Discover lists the workspace modules visible from root, sorted by name.
func Discover(ctx context.Context, runner *execx.Runner, root string) ([]PackageInfo, error) {
	out, err := runner.Output(ctx, root, "go", "list", "-m", "-json")
	if err != nil {
		return nil, fmt.Errorf("listing workspace modules: %w", err)
	}
	pkgs, err := parseModules(strings.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("parsing workspace module list: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no modules found under %s", root)
	}
	return pkgs, nil
}

// parseModules decodes the concatenated JSON objects go list emits.
func parseModules(r io.Reader) ([]PackageInfo, error) {
	dec := json.NewDecoder(r)
	var pkgs []PackageInfo
	for {
		var m goListModule
		if err := dec.Decode(&m); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if !m.Main || m.Dir == "" {
			continue
		}
		pkgs = append(pkgs, PackageInfo{
			Name:      path.Base(m.Path),
			ModPath:   m.Path,
			Dir:       m.Dir,
			GoVersion: m.GoVersion,
		})
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].Name < pkgs[j].Name })
	return pkgs, nil
}

// Filter restricts pkgs to the requested names (matching Name or ModPath),
// preserving request order and deduplicating. Empty names returns pkgs as-is.
func Filter(pkgs []PackageInfo, names []string) ([]PackageInfo, error) {
	if len(names) == 0 {
		return pkgs, nil
	}

	byKey := make(map[string]PackageInfo, len(pkgs)*2)
	for _, p := range pkgs {
		byKey[p.Name] = p
		byKey[p.ModPath] = p
	}

	var out []PackageInfo
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		p, ok := byKey[name]
		if !ok {
			return nil, fmt.Errorf("unknown package %q (available: %s)", name, strings.Join(Names(pkgs), ", "))
		}
		if seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		out = append(out, p)
	}
	return out, nil
}

// Names returns the package names in order.
func Names(pkgs []PackageInfo) []string {
	names := make([]string, len(pkgs))
	for i, p := range pkgs {
		names[i] = p.Name
	}
	return names
}
