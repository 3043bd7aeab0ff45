// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPackageName is the sentinel error wrapped by InvalidPackageNameError.
var ErrInvalidPackageName = errors.New("invalid package name")

type (
	// PackageName represents a system package identifier as understood by a
	// package manager (e.g. "python3-venv" for apt, "python" for brew).
	// A valid name is non-empty and contains no whitespace; anything beyond
	// that is the package manager's business.
	PackageName string

	// InvalidPackageNameError is returned when a PackageName value is
	// empty or contains whitespace.
	InvalidPackageNameError struct {
		Value PackageName
	}
)

// String returns the string representation of the PackageName.
func (p PackageName) String() string { return string(p) }

// IsValid returns whether the PackageName is valid.
func (p PackageName) IsValid() (bool, []error) {
	s := string(p)
	if strings.TrimSpace(s) == "" {
		return false, []error{&InvalidPackageNameError{Value: p}}
	}
	if strings.ContainsAny(s, " \t\n") {
		return false, []error{&InvalidPackageNameError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPackageNameError.
func (e *InvalidPackageNameError) Error() string {
	return fmt.Sprintf("invalid package name %q: must be non-empty with no whitespace", e.Value)
}

// Unwrap returns ErrInvalidPackageName for errors.Is() compatibility.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }
