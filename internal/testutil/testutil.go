// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helpers for tests that drive real git
// repositories and on-disk module fixtures, reducing boilerplate and keeping
// failure handling consistent.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// MustWriteFile writes content to path, creating parent directories. The
// test fails immediately on error.
func MustWriteFile(t testing.TB, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// MustMkdirAll creates dir and all parents. The test fails immediately on
// error.
func MustMkdirAll(t testing.TB, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}
}

// GitRepo is a throwaway git repository rooted in a test temp directory.
type GitRepo struct {
	Dir string
	t   testing.TB
}

// NewGitRepo initializes a repository with one commit on branch main. Tests
// are skipped when git is not installed.
func NewGitRepo(t testing.TB) *GitRepo {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	r := &GitRepo{Dir: t.TempDir(), t: t}
	r.Git("init", "--quiet")
	r.Git("config", "user.name", "test")
	r.Git("config", "user.email", "test@example.org")
	r.Git("checkout", "-q", "-b", "main")
	r.WriteFile("README.md", "fixture\n")
	r.Commit("initial commit")
	return r
}

// Git runs a git subcommand in the repository, failing the test on error,
// and returns trimmed output.
func (r *GitRepo) Git(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		r.t.Fatalf("git %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return strings.TrimSpace(string(out))
}

// WriteFile writes content to rel inside the repository.
func (r *GitRepo) WriteFile(rel, content string) {
	r.t.Helper()
	MustWriteFile(r.t, filepath.Join(r.Dir, rel), content)
}

// Commit stages everything and commits.
func (r *GitRepo) Commit(message string) {
	r.t.Helper()
	r.Git("add", "-A")
	r.Git("commit", "-q", "-m", message)
}

// Tag creates a lightweight tag at HEAD.
func (r *GitRepo) Tag(name string) {
	r.t.Helper()
	r.Git("tag", name)
}

// Head returns the commit id of HEAD.
func (r *GitRepo) Head() string {
	r.t.Helper()
	return r.Git("rev-parse", "HEAD")
}

// CurrentBranch returns the abbreviated ref of HEAD ("HEAD" when detached).
func (r *GitRepo) CurrentBranch() string {
	r.t.Helper()
	return r.Git("rev-parse", "--abbrev-ref", "HEAD")
}
