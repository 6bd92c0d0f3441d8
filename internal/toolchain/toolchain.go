// SPDX-License-Identifier: MPL-2.0

// Package toolchain inspects the installed go toolchain and compares it
// against the workspace's declared minimum version.
package toolchain

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gomaint/internal/execx"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/semver"
)

// Version reports the running toolchain's version, e.g. "1.25.3".
func Version(ctx context.Context, runner *execx.Runner) (string, error) {
	out, err := runner.Output(ctx, "", "go", "version")
	if err != nil {
		return "", fmt.Errorf("querying go version: %w", err)
	}
	v, err := parseVersion(out)
	if err != nil {
		return "", err
	}
	return v, nil
}

// parseVersion extracts the numeric version from `go version` output.
// "go version go1.25.3 linux/amd64" yields "1.25.3"; development builds
// ("go1.26-a1b2c3") yield the release they track.
func parseVersion(out string) (string, error) {
	for _, field := range strings.Fields(out) {
		if !strings.HasPrefix(field, "go1") {
			continue
		}
		v := strings.TrimPrefix(field, "go")
		if i := strings.IndexByte(v, '-'); i >= 0 {
			v = v[:i]
		}
		if !semver.IsValid("v" + v) {
			return "", fmt.Errorf("unrecognized go version %q", field)
		}
		return v, nil
	}
	return "", fmt.Errorf("no go version in %q", strings.TrimSpace(out))
}

// WorkspaceMinimum reads the go directive from go.work at root, falling back
// to go.mod for single-module repositories.
func WorkspaceMinimum(root string) (string, error) {
	for _, name := range []string{"go.work", "go.mod"} {
		path := filepath.Join(root, name)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", name, err)
		}

		var version string
		if name == "go.work" {
			wf, err := modfile.ParseWork(path, data, nil)
			if err != nil {
				return "", fmt.Errorf("parsing %s: %w", name, err)
			}
			if wf.Go != nil {
				version = wf.Go.Version
			}
		} else {
			mf, err := modfile.Parse(path, data, nil)
			if err != nil {
				return "", fmt.Errorf("parsing %s: %w", name, err)
			}
			if mf.Go != nil {
				version = mf.Go.Version
			}
		}
		if version == "" {
			return "", fmt.Errorf("%s has no go directive", name)
		}
		return version, nil
	}
	return "", fmt.Errorf("no go.work or go.mod under %s", root)
}

// Check verifies the installed version against the workspace minimum. With
// exact set, the installed release series must equal the minimum (the
// minimum-version CI job); otherwise any newer toolchain passes.
func Check(have, min string, exact bool) error {
	hv, mv := "v"+have, "v"+min
	if !semver.IsValid(hv) {
		return fmt.Errorf("invalid toolchain version %q", have)
	}
	if !semver.IsValid(mv) {
		return fmt.Errorf("invalid minimum version %q", min)
	}

	if exact {
		if semver.MajorMinor(hv) != semver.MajorMinor(mv) {
			return fmt.Errorf("go %s installed but the workspace minimum is %s (exact match required)", have, min)
		}
		return nil
	}
	if semver.Compare(hv, mv) < 0 {
		return fmt.Errorf("go %s installed but the workspace requires at least %s", have, min)
	}
	return nil
}
