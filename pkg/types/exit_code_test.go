// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCode_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts the full POSIX range", func(t *testing.T) {
		t.Parallel()

		for _, code := range []ExitCode{0, 1, 130, 255} {
			if err := code.Validate(); err != nil {
				t.Errorf("ExitCode(%d).Validate() = %v, want nil", code, err)
			}
		}
	})

	t.Run("rejects values outside 0-255", func(t *testing.T) {
		t.Parallel()

		for _, code := range []ExitCode{-1, 256, 1000} {
			err := code.Validate()
			if err == nil {
				t.Errorf("ExitCode(%d).Validate() = nil, want error", code)
				continue
			}
			if !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("ExitCode(%d).Validate() error does not wrap ErrInvalidExitCode: %v", code, err)
			}
			var codeErr *InvalidExitCodeError
			if !errors.As(err, &codeErr) {
				t.Errorf("ExitCode(%d).Validate() error is %T, want *InvalidExitCodeError", code, err)
			} else if codeErr.Value != code {
				t.Errorf("InvalidExitCodeError.Value = %d, want %d", codeErr.Value, code)
			}
		}
	})

	t.Run("error message names the offending code", func(t *testing.T) {
		t.Parallel()

		err := ExitCode(300).Validate()
		if err == nil {
			t.Fatal("expected error")
		}
		want := "invalid exit code 300 (must be in range 0-255)"
		if err.Error() != want {
			t.Errorf("got %q, want %q", err.Error(), want)
		}
	})
}

func TestExitCode_String(t *testing.T) {
	t.Parallel()

	if got := ExitCode(130).String(); got != "130" {
		t.Errorf("ExitCode(130).String() = %q, want %q", got, "130")
	}
	if got := ExitCode(0).String(); got != "0" {
		t.Errorf("ExitCode(0).String() = %q, want %q", got, "0")
	}
}
