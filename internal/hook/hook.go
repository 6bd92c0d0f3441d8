// SPDX-License-Identifier: MPL-2.0

// Package hook runs configured shell hooks (such as [test] setup) with
// the embedded sh interpreter, so hooks behave the same on every
// platform without requiring a system shell.
package hook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ScriptError is returned when a hook script exits non-zero.
type ScriptError struct {
	// Hook names the hook that failed (e.g., "test setup").
	Hook string
	// ExitCode is the script's exit status.
	ExitCode int
	// Err is the underlying interpreter error.
	Err error
}

// Error implements the error interface for ScriptError.
func (e *ScriptError) Error() string {
	return fmt.Sprintf("%s hook failed with exit code %d", e.Hook, e.ExitCode)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *ScriptError) Unwrap() error { return e.Err }

// Runner executes hook scripts in-process.
type Runner struct {
	// Stdout receives the script's standard output. Defaults to os.Stdout.
	Stdout io.Writer
	// Stderr receives the script's standard error. Defaults to os.Stderr.
	Stderr io.Writer
	// Env holds extra KEY=VALUE entries appended to the inherited
	// environment.
	Env []string
	// Logger, when set, logs each hook run at debug level.
	Logger *log.Logger
}

// NewRunner creates a hook runner that streams to the process's stdio.
func NewRunner(logger *log.Logger) *Runner {
	return &Runner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Logger: logger,
	}
}

// Validate parses the script without running it, reporting syntax errors
// up front. Hook scripts can be rejected at config load time this way.
func Validate(script string) error {
	if _, err := syntax.NewParser().Parse(strings.NewReader(script), "hook"); err != nil {
		return fmt.Errorf("hook syntax error: %w", err)
	}
	return nil
}

// Run executes the named hook script in dir. A non-zero exit becomes a
// *ScriptError carrying the exit code.
func (r *Runner) Run(ctx context.Context, dir, name, script string) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), name)
	if err != nil {
		return fmt.Errorf("parse %s hook: %w", name, err)
	}

	if r.Logger != nil {
		r.Logger.Debug("running hook", "hook", name, "dir", dir)
	}

	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(append(os.Environ(), r.Env...)...)),
		interp.StdIO(nil, stdout, stderr),
	)
	if err != nil {
		return fmt.Errorf("create %s hook interpreter: %w", name, err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		var status interp.ExitStatus
		if errors.As(err, &status) {
			return &ScriptError{Hook: name, ExitCode: int(status), Err: err}
		}
		return fmt.Errorf("%s hook: %w", name, err)
	}

	return nil
}
