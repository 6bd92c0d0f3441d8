// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	cause := errors.New("exit status 128")

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "extract public API"},
			want: "failed to extract public API",
		},
		{
			name: "operation and resource",
			err:  &ActionableError{Operation: "extract public API", Resource: "wire"},
			want: "failed to extract public API: wire",
		},
		{
			name: "operation, resource and cause",
			err: &ActionableError{
				Operation: "switch to baseline revision",
				Resource:  "v1.2.0",
				Cause:     cause,
			},
			want: "failed to switch to baseline revision: v1.2.0: exit status 128",
		},
		{
			name: "operation and cause without resource",
			err:  &ActionableError{Operation: "load task config", Cause: cause},
			want: "failed to load task config: exit status 128",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	cause := errors.New("ref not found")
	err := &ActionableError{Operation: "switch to baseline revision", Cause: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	noCause := &ActionableError{Operation: "extract public API"}
	if errors.Unwrap(noCause) != nil {
		t.Error("Unwrap() without cause should return nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	inner := errors.New("permission denied")
	middle := fmt.Errorf("open api/wire/no-features.txt: %w", inner)
	err := &ActionableError{
		Operation:   "write API snapshots",
		Resource:    "api/wire",
		Suggestions: []string{"Check directory permissions", "Run from the repository root"},
		Cause:       middle,
	}

	short := err.Format(false)
	if !strings.Contains(short, "failed to write API snapshots: api/wire") {
		t.Errorf("Format(false) missing main message:\n%s", short)
	}
	if !strings.Contains(short, "• Check directory permissions") {
		t.Errorf("Format(false) missing first suggestion:\n%s", short)
	}
	if strings.Contains(short, "Error chain:") {
		t.Errorf("Format(false) should not include the error chain:\n%s", short)
	}

	long := err.Format(true)
	if !strings.Contains(long, "Error chain:") {
		t.Errorf("Format(true) missing error chain:\n%s", long)
	}
	if !strings.Contains(long, "2. permission denied") {
		t.Errorf("Format(true) should number the innermost cause:\n%s", long)
	}
}

func TestActionableError_FormatWithoutSuggestions(t *testing.T) {
	err := &ActionableError{Operation: "extract public API"}

	if got := err.Format(false); got != err.Error() {
		t.Errorf("Format(false) without suggestions = %q, want bare Error()", got)
	}
	if err.HasSuggestions() {
		t.Error("HasSuggestions() = true, want false")
	}
}

func TestErrorContext_Build(t *testing.T) {
	cause := errors.New("toml: line 3: expected value")

	err := NewErrorContext().
		WithOperation("load task config").
		WithResource("gomaint.toml").
		WithSuggestion("Check the TOML syntax near the reported line").
		Wrap(cause).
		Build()

	if err == nil {
		t.Fatal("Build() returned nil with operation set")
	}
	if err.Operation != "load task config" {
		t.Errorf("Operation = %q", err.Operation)
	}
	if err.Resource != "gomaint.toml" {
		t.Errorf("Resource = %q", err.Resource)
	}
	if len(err.Suggestions) != 1 {
		t.Errorf("Suggestions = %v, want one entry", err.Suggestions)
	}
	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
}

func TestErrorContext_BuildRequiresOperation(t *testing.T) {
	if got := NewErrorContext().WithResource("wire").Build(); got != nil {
		t.Errorf("Build() without operation = %v, want nil", got)
	}
	if got := NewErrorContext().BuildError(); got != nil {
		t.Errorf("BuildError() without operation = %v, want nil", got)
	}
}

func TestErrorContext_BuildError(t *testing.T) {
	err := NewErrorContext().
		WithOperation("compare against baseline").
		Wrap(errors.New("boom")).
		BuildError()

	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("BuildError() = %T, want *ActionableError", err)
	}
}

func TestWrapWithOperation(t *testing.T) {
	cause := errors.New("no modules found")
	err := WrapWithOperation(cause, "discover workspace packages")
	if err == nil {
		t.Fatal("WrapWithOperation() returned nil for non-nil cause")
	}
	if err.Operation != "discover workspace packages" || err.Cause != cause {
		t.Errorf("WrapWithOperation() = %+v", err)
	}

	if WrapWithOperation(nil, "anything") != nil {
		t.Error("WrapWithOperation(nil, ...) should return nil")
	}
}

func TestErrorContext_Reuse(t *testing.T) {
	ctx := NewErrorContext().
		WithOperation("extract public API").
		WithResource("units")

	first := ctx.Wrap(errors.New("first")).Build()
	second := ctx.Wrap(errors.New("second")).Build()

	if first.Cause.Error() != "first" {
		t.Errorf("first build Cause = %v", first.Cause)
	}
	if second.Cause.Error() != "second" {
		t.Errorf("second build should see the updated cause, got %v", second.Cause)
	}
	if second.Operation != "extract public API" || second.Resource != "units" {
		t.Errorf("reused context lost fields: %+v", second)
	}
}
