// SPDX-License-Identifier: MPL-2.0

package execx

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestOutputTrimsStdout(t *testing.T) {
	requireShell(t)

	r := &Runner{}
	out, err := r.Output(context.Background(), "", "sh", "-c", "echo hello")
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if out != "hello" {
		t.Errorf("Output() = %q, want %q", out, "hello")
	}
}

func TestOutputFailureCapturesStderr(t *testing.T) {
	requireShell(t)

	r := &Runner{}
	_, err := r.Output(context.Background(), "", "sh", "-c", "echo oops >&2; exit 3")
	if err == nil {
		t.Fatal("Output() expected error, got nil")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("Output() error type = %T, want *CommandError", err)
	}
	if cmdErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", cmdErr.ExitCode)
	}
	if !strings.Contains(cmdErr.Stderr, "oops") {
		t.Errorf("Stderr = %q, want to contain %q", cmdErr.Stderr, "oops")
	}
	if !strings.Contains(cmdErr.Error(), "exit code 3") {
		t.Errorf("Error() = %q, want exit code mentioned", cmdErr.Error())
	}
}

func TestRunReportsExitCode(t *testing.T) {
	requireShell(t)

	r := &Runner{Stdout: new(bytes.Buffer), Stderr: new(bytes.Buffer)}
	err := r.Run(context.Background(), "", "sh", "-c", "exit 2")
	if err == nil {
		t.Fatal("Run() expected error, got nil")
	}

	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("Run() error type = %T, want *CommandError", err)
	}
	if cmdErr.ExitCode != 2 {
		t.Errorf("ExitCode = %d, want 2", cmdErr.ExitCode)
	}
}

func TestRunStreamsStdout(t *testing.T) {
	requireShell(t)

	var buf bytes.Buffer
	r := &Runner{Stdout: &buf, Stderr: new(bytes.Buffer)}
	if err := r.Run(context.Background(), "", "sh", "-c", "echo streamed"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "streamed" {
		t.Errorf("streamed stdout = %q, want %q", got, "streamed")
	}
}

func TestQuietDiscardsStdoutOnly(t *testing.T) {
	requireShell(t)

	var stdout, stderr bytes.Buffer
	r := &Runner{Stdout: &stdout, Stderr: &stderr, Quiet: true}
	if err := r.Run(context.Background(), "", "sh", "-c", "echo visible >&2; echo hidden"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("quiet stdout = %q, want empty", stdout.String())
	}
	if !strings.Contains(stderr.String(), "visible") {
		t.Errorf("stderr = %q, want to contain %q", stderr.String(), "visible")
	}
}

func TestRunRespectsDir(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "marker.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := &Runner{}
	out, err := r.Output(context.Background(), dir, "sh", "-c", "ls")
	if err != nil {
		t.Fatalf("Output() error = %v", err)
	}
	if !strings.Contains(out, "marker.txt") {
		t.Errorf("ls output = %q, want marker.txt listed", out)
	}
}

func TestCommandLine(t *testing.T) {
	tests := []struct {
		name string
		cmd  string
		args []string
		want string
	}{
		{name: "no args", cmd: "git", args: nil, want: "git"},
		{name: "with args", cmd: "git", args: []string{"switch", "--detach", "v1.0.0"}, want: "git switch --detach v1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CommandLine(tt.cmd, tt.args); got != tt.want {
				t.Errorf("CommandLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
