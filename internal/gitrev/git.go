// SPDX-License-Identifier: MPL-2.0

package gitrev

import (
	"context"
	"strings"

	"gomaint/internal/execx"
)

// Git answers revision queries and performs revision switches for one
// repository.
type Git struct {
	runner *execx.Runner
	dir    string
}

// New returns a Git operating on the repository containing dir.
func New(runner *execx.Runner, dir string) *Git {
	return &Git{runner: runner, dir: dir}
}

// RevisionHandle identifies the working tree's checked-out state well enough
// to restore it: a branch name, or a commit id when HEAD is detached.
type RevisionHandle struct {
	Ref      string
	Detached bool
}

func (h RevisionHandle) String() string {
	if h.Detached {
		return h.Ref + " (detached)"
	}
	return h.Ref
}

// CurrentRevision captures the working tree's state for later restoration.
func (g *Git) CurrentRevision(ctx context.Context) (RevisionHandle, error) {
	ref, err := g.runner.Output(ctx, g.dir, "git", "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return RevisionHandle{}, &RevisionQueryError{Err: err}
	}
	if ref != "HEAD" {
		return RevisionHandle{Ref: ref}, nil
	}
	// Already detached: a branch name cannot bring us back, the commit can.
	id, err := g.runner.Output(ctx, g.dir, "git", "rev-parse", "HEAD")
	if err != nil {
		return RevisionHandle{}, &RevisionQueryError{Err: err}
	}
	return RevisionHandle{Ref: id, Detached: true}, nil
}

// SwitchDetach checks out ref with a detached HEAD.
func (g *Git) SwitchDetach(ctx context.Context, ref string) error {
	if err := g.runner.Run(ctx, g.dir, "git", "switch", "--quiet", "--detach", ref); err != nil {
		return &CheckoutError{Ref: ref, Err: err}
	}
	return nil
}

// Restore returns the working tree to a previously captured handle.
func (g *Git) Restore(ctx context.Context, h RevisionHandle) error {
	args := []string{"switch", "--quiet"}
	if h.Detached {
		args = append(args, "--detach")
	}
	args = append(args, h.Ref)
	if err := g.runner.Run(ctx, g.dir, "git", args...); err != nil {
		return &CheckoutError{Ref: h.Ref, Err: err}
	}
	return nil
}

// Status returns the porcelain status lines for the given pathspecs, one per
// modified or untracked file. Empty means clean.
func (g *Git) Status(ctx context.Context, pathspecs ...string) ([]string, error) {
	args := append([]string{"status", "--porcelain", "--"}, pathspecs...)
	out, err := g.runner.Output(ctx, g.dir, "git", args...)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// Diff returns the unified diff of uncommitted changes to tracked files
// under the pathspecs. Untracked files appear in Status, not here.
func (g *Git) Diff(ctx context.Context, pathspecs ...string) (string, error) {
	args := append([]string{"diff", "--"}, pathspecs...)
	return g.runner.Output(ctx, g.dir, "git", args...)
}
