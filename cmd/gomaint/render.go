// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gomaint/internal/apisurface"
	"gomaint/internal/gitrev"
	"gomaint/internal/issue"

	"github.com/spf13/cobra"
)

// moduleFailure records one module's failed task for the end-of-run report.
type moduleFailure struct {
	// Package is the module name, or a workspace-level label when the
	// finding is not tied to a single module.
	Package string
	// Err describes the failure, enumerating every finding.
	Err error
}

// failTask reports collected failures and returns the non-zero exit. With no
// failures it returns nil so callers can end with their success line. The
// optional issue id appends a rendered remediation guide; the optional
// summary error becomes the exit error's message.
func (a *App) failTask(cmd *cobra.Command, task string, failures []moduleFailure, id issue.Id, summary error) error {
	if len(failures) == 0 {
		return nil
	}

	stderr := cmd.ErrOrStderr()
	fmt.Fprintln(stderr)
	fmt.Fprintf(stderr, "%s %s failed for %d module(s):\n", ErrorStyle.Render("✗"), task, len(failures))
	for _, f := range failures {
		fmt.Fprintf(stderr, "\n%s %s\n%s\n",
			ErrorStyle.Render("•"),
			ModuleStyle.Render(f.Package),
			indent(formatErrorForDisplay(f.Err, verbose), "  "))
	}
	a.renderIssue(stderr, id)

	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: 1, Err: summary}
}

// renderIssue writes the remediation guide for a catalog issue, if any.
func (a *App) renderIssue(w io.Writer, id issue.Id) {
	if id == 0 {
		return
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render(a.issueStyle())
	if err != nil {
		a.Logger.Warn("failed to render remediation guide", "issue", int(id), "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}

// issueStyle picks the glamour style for remediation guides.
func (a *App) issueStyle() string {
	if a.Settings != nil && a.Settings.NoColor {
		return "notty"
	}
	return "dark"
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their Format method; verbose mode shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// indent prefixes every line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

// formatBreakingReport enumerates every breaking finding of one package,
// with the full declaration text on both sides of each change.
func formatBreakingReport(report *apisurface.BreakingChangeReport, ref string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "breaking public API changes in %s against %s:", report.Package, ref)
	for _, res := range report.Results {
		if !res.Breaking() {
			continue
		}
		fmt.Fprintf(&sb, "\n  [%s]", res.Config)
		for _, it := range res.Diff.Removed {
			fmt.Fprintf(&sb, "\n    removed: %s", it.Decl)
		}
		for _, ch := range res.Diff.Changed {
			fmt.Fprintf(&sb, "\n    changed: %s\n      %s: %s\n      current: %s", ch.Name, ref, ch.Old, ch.New)
		}
	}
	return sb.String()
}

// printDrift shows uncommitted changes: the porcelain status lines, a
// parsed per-file summary, and the raw diff.
func printDrift(w io.Writer, header string, statusLines []string, unified string) {
	fmt.Fprintln(w, WarningStyle.Render(header))
	for _, line := range statusLines {
		fmt.Fprintf(w, "  %s\n", line)
	}

	if drifts, err := gitrev.ParseDrift(unified); err == nil && len(drifts) > 0 {
		fmt.Fprintln(w)
		for _, d := range drifts {
			fmt.Fprintf(w, "  %s\n", d)
		}
	}

	if strings.TrimSpace(unified) != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, unified)
	}
}
