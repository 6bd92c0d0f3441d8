// SPDX-License-Identifier: MPL-2.0

package apisurface

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"gomaint/internal/workspace"
)

// DefaultAPIDir is the workspace-root directory holding committed snapshots
// when no other directory is configured.
const DefaultAPIDir = "api"

// SnapshotPath returns the workspace-relative path of one snapshot file
// under dir ("" means DefaultAPIDir).
func SnapshotPath(dir string, pkg workspace.PackageInfo, cfg FeatureConfig) string {
	if dir == "" {
		dir = DefaultAPIDir
	}
	return path.Join(dir, pkg.Name, cfg.FileName())
}

// WriteFiles persists every snapshot of a complete set under
// <dir>/<package>/<config-file> at the workspace root, returning the
// workspace-relative paths written.
func WriteFiles(root, dir string, pkg workspace.PackageInfo, set PackageAPISet) ([]string, error) {
	if err := set.Complete(); err != nil {
		return nil, fmt.Errorf("package %s: %w", pkg.Name, err)
	}

	if dir == "" {
		dir = DefaultAPIDir
	}
	pkgDir := filepath.Join(root, dir, pkg.Name)
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", pkgDir, err)
	}

	var written []string
	for _, cfg := range Configs() {
		file := filepath.Join(pkgDir, cfg.FileName())
		if err := os.WriteFile(file, []byte(set[cfg].Render()), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s snapshot of %s: %w", cfg, pkg.Name, err)
		}
		written = append(written, SnapshotPath(dir, pkg, cfg))
	}
	return written, nil
}
