// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name: "operation only",
			err: &ActionableError{
				Operation: "deploy sources",
			},
			expected: "failed to deploy sources",
		},
		{
			name: "operation with resource",
			err: &ActionableError{
				Operation: "deploy sources",
				Resource:  "/usr/local/pdfiler",
			},
			expected: "failed to deploy sources: /usr/local/pdfiler",
		},
		{
			name: "operation with cause",
			err: &ActionableError{
				Operation: "parse config",
				Cause:     errors.New("syntax error at line 5"),
			},
			expected: "failed to parse config: syntax error at line 5",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "register launcher",
				Resource:  "/usr/local/bin/pdfiler",
				Cause:     errors.New("permission denied"),
			},
			expected: "failed to register launcher: /usr/local/bin/pdfiler: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &ActionableError{
		Operation: "test",
		Cause:     cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap() should return the cause error")
	}

	errNoCause := &ActionableError{Operation: "test"}
	if errNoCause.Unwrap() != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	cause := errors.New("specific error")
	wrapped := &ActionableError{
		Operation: "test",
		Cause:     cause,
	}

	if !errors.Is(wrapped, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestActionableError_Format(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		verbose  bool
		contains []string
		excludes []string
	}{
		{
			name: "simple error non-verbose",
			err: &ActionableError{
				Operation: "load config",
			},
			verbose:  false,
			contains: []string{"failed to load config"},
		},
		{
			name: "error with suggestions",
			err: &ActionableError{
				Operation:   "provision python environment",
				Resource:    "/usr/local/pdfiler/pdfiler_env",
				Suggestions: []string{"Install python3-venv", "Check free disk space"},
			},
			verbose: false,
			contains: []string{
				"failed to provision python environment",
				"/usr/local/pdfiler/pdfiler_env",
				"• Install python3-venv",
				"• Check free disk space",
			},
		},
		{
			name: "error chain in verbose mode",
			err: &ActionableError{
				Operation: "parse config",
				Cause:     errors.New("syntax error"),
			},
			verbose: true,
			contains: []string{
				"failed to parse config",
				"Error chain:",
				"1. syntax error",
			},
		},
		{
			name: "no error chain in non-verbose",
			err: &ActionableError{
				Operation: "parse config",
				Cause:     errors.New("syntax error"),
			},
			verbose:  false,
			contains: []string{"failed to parse config: syntax error"},
			excludes: []string{"Error chain:"},
		},
		{
			name: "nested error chain verbose",
			err: &ActionableError{
				Operation: "fetch sources",
				Cause: &ActionableError{
					Operation: "clone repository",
					Cause:     errors.New("connection refused"),
				},
			},
			verbose: true,
			contains: []string{
				"Error chain:",
				"1. failed to clone repository: connection refused",
				"2. connection refused",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Format(tt.verbose)

			for _, s := range tt.contains {
				if !strings.Contains(got, s) {
					t.Errorf("Format() missing %q\ngot:\n%s", s, got)
				}
			}

			for _, s := range tt.excludes {
				if strings.Contains(got, s) {
					t.Errorf("Format() should not contain %q\ngot:\n%s", s, got)
				}
			}
		})
	}
}

func TestErrorContext_BuildError(t *testing.T) {
	tests := []struct {
		name       string
		setup      func() *ErrorContext
		wantNil    bool
		checkError func(t *testing.T, err *ActionableError)
	}{
		{
			name: "minimal with operation",
			setup: func() *ErrorContext {
				return NewErrorContext().WithOperation("test operation")
			},
			wantNil: false,
			checkError: func(t *testing.T, err *ActionableError) {
				t.Helper()
				if err.Operation != "test operation" {
					t.Errorf("Operation = %q, want %q", err.Operation, "test operation")
				}
			},
		},
		{
			name: "missing operation returns nil",
			setup: func() *ErrorContext {
				return NewErrorContext().WithResource("some/path")
			},
			wantNil: true,
		},
		{
			name: "full context",
			setup: func() *ErrorContext {
				return NewErrorContext().
					WithOperation("load config").
					WithResource("~/.config/pdfiler-setup/config.cue").
					WithSuggestion("Check syntax").
					WithSuggestion("Verify permissions").
					Wrap(errors.New("parse error"))
			},
			wantNil: false,
			checkError: func(t *testing.T, err *ActionableError) {
				t.Helper()
				if err.Operation != "load config" {
					t.Errorf("Operation = %q", err.Operation)
				}
				if err.Resource != "~/.config/pdfiler-setup/config.cue" {
					t.Errorf("Resource = %q", err.Resource)
				}
				if len(err.Suggestions) != 2 {
					t.Errorf("Suggestions count = %d, want 2", len(err.Suggestions))
				}
				if err.Cause == nil || err.Cause.Error() != "parse error" {
					t.Errorf("Cause = %v", err.Cause)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.setup().BuildError()

			if tt.wantNil {
				if err != nil {
					t.Errorf("BuildError() = %v, want nil", err)
				}
				return
			}

			var ae *ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("BuildError() = %T, want *ActionableError", err)
			}

			if tt.checkError != nil {
				tt.checkError(t, ae)
			}
		})
	}
}

// Test that ErrorContext can be reused with different causes
func TestErrorContext_Reuse(t *testing.T) {
	ctx := NewErrorContext().
		WithOperation("process file").
		WithResource("/data/input.txt").
		WithSuggestion("Check file format")

	var err1, err2 *ActionableError
	if !errors.As(ctx.Wrap(errors.New("error 1")).BuildError(), &err1) {
		t.Fatal("first BuildError() is not an *ActionableError")
	}
	if !errors.As(ctx.Wrap(errors.New("error 2")).BuildError(), &err2) {
		t.Fatal("second BuildError() is not an *ActionableError")
	}

	// Both should have the same operation/resource but different causes
	if err1.Cause.Error() == err2.Cause.Error() {
		t.Error("Reused context should allow different causes")
	}

	if err1.Operation != err2.Operation {
		t.Error("Reused context should preserve operation")
	}
}
