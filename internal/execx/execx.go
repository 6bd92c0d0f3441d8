// SPDX-License-Identifier: MPL-2.0

// Package execx runs the external tools gomaint drives (the go toolchain and
// git) as blocking subprocesses with explicit working directories.
package execx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"
)

// Runner invokes external commands. The zero value streams to the process
// stdout/stderr and does not log; use NewRunner for a configured instance.
type Runner struct {
	// Stdout and Stderr receive streamed output from Run. Defaults to the
	// process's own streams.
	Stdout io.Writer
	Stderr io.Writer
	// Quiet discards child stdout in Run, keeping stderr visible.
	Quiet bool
	// Logger records every invocation at debug level when set.
	Logger *log.Logger
}

// NewRunner returns a Runner streaming to os.Stdout/os.Stderr.
func NewRunner(logger *log.Logger) *Runner {
	return &Runner{Stdout: os.Stdout, Stderr: os.Stderr, Logger: logger}
}

// CommandError describes a failed external invocation.
type CommandError struct {
	// Command is the rendered command line, e.g. "git switch --detach v0.3.0".
	Command string
	// Dir is the working directory the command ran in ("" = inherited).
	Dir string
	// ExitCode is the child's exit code, or -1 if it did not run to completion.
	ExitCode int
	// Stderr holds captured error output when the command was not streamed.
	Stderr string
	// Err is the underlying error from os/exec.
	Err error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q failed", e.Command)
	if e.Dir != "" {
		msg += " in " + e.Dir
	}
	if e.ExitCode >= 0 {
		msg += fmt.Sprintf(" (exit code %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		msg += ": " + strings.TrimSpace(e.Stderr)
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// Run executes name with args in dir, streaming output to the Runner's
// writers. A non-zero exit or spawn failure yields a *CommandError.
func (r *Runner) Run(ctx context.Context, dir string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = r.stdout()
	if r.Quiet {
		cmd.Stdout = io.Discard
	}
	cmd.Stderr = r.stderr()

	r.logInvocation(dir, name, args)
	if err := cmd.Run(); err != nil {
		return r.wrapError(dir, name, args, "", err)
	}
	return nil
}

// Output executes name with args in dir and returns trimmed stdout. Stderr is
// captured and folded into the returned *CommandError on failure.
func (r *Runner) Output(ctx context.Context, dir string, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logInvocation(dir, name, args)
	if err := cmd.Run(); err != nil {
		return "", r.wrapError(dir, name, args, stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (r *Runner) wrapError(dir, name string, args []string, stderr string, err error) error {
	code := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	}
	return &CommandError{
		Command:  CommandLine(name, args),
		Dir:      dir,
		ExitCode: code,
		Stderr:   stderr,
		Err:      err,
	}
}

func (r *Runner) logInvocation(dir, name string, args []string) {
	if r.Logger == nil {
		return
	}
	if dir != "" {
		r.Logger.Debug("exec", "cmd", CommandLine(name, args), "dir", dir)
		return
	}
	r.Logger.Debug("exec", "cmd", CommandLine(name, args))
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

// CommandLine renders a command and its arguments for display.
func CommandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
