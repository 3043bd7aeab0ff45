// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCUEPath is the sentinel error wrapped by InvalidCUEPathError.
var ErrInvalidCUEPath = errors.New("invalid CUE path")

type (
	// CUEPath represents a path into a CUE document: usually the definition
	// a value is validated against (e.g. "#Config"), sometimes a dotted
	// field reference ("paths.clone_dir"). A valid path must be non-empty
	// and not whitespace-only.
	CUEPath string

	// InvalidCUEPathError is returned when a CUEPath value is empty or
	// whitespace-only. It wraps ErrInvalidCUEPath for errors.Is().
	InvalidCUEPathError struct {
		Value CUEPath
	}
)

// String returns the string representation of the CUEPath.
func (p CUEPath) String() string { return string(p) }

// Validate returns an error when the CUEPath is empty or whitespace-only.
func (p CUEPath) Validate() error {
	if strings.TrimSpace(string(p)) == "" {
		return &InvalidCUEPathError{Value: p}
	}
	return nil
}

// Error implements the error interface for InvalidCUEPathError.
func (e *InvalidCUEPathError) Error() string {
	return fmt.Sprintf("invalid CUE path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidCUEPath for errors.Is() compatibility.
func (e *InvalidCUEPathError) Unwrap() error { return ErrInvalidCUEPath }
