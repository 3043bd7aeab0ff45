// SPDX-License-Identifier: MPL-2.0

// Package types defines cross-cutting Value Types used by multiple domain
// packages (manifest, config, syspkg, etc.). These are foundation types that
// carry semantic meaning and validation but have no domain-specific
// dependencies.
//
// This package is a leaf dependency: it imports only the standard library.
// Domain packages import it; it never imports domain packages.
package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCommandName is the sentinel error wrapped by InvalidCommandNameError.
var ErrInvalidCommandName = errors.New("invalid command name")

type (
	// CommandName represents the name of an executable resolved on PATH
	// (e.g. "git", "python3"). A valid name is non-empty, contains no
	// whitespace, and contains no path separators: lookup is by name,
	// never by location.
	CommandName string

	// InvalidCommandNameError is returned when a CommandName value is
	// empty, contains whitespace, or contains a path separator.
	InvalidCommandNameError struct {
		Value CommandName
	}
)

// String returns the string representation of the CommandName.
func (c CommandName) String() string { return string(c) }

// IsValid returns whether the CommandName is valid.
func (c CommandName) IsValid() (bool, []error) {
	s := string(c)
	if strings.TrimSpace(s) == "" {
		return false, []error{&InvalidCommandNameError{Value: c}}
	}
	if strings.ContainsAny(s, " \t\n") || strings.ContainsRune(s, '/') || strings.ContainsRune(s, '\\') {
		return false, []error{&InvalidCommandNameError{Value: c}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCommandNameError.
func (e *InvalidCommandNameError) Error() string {
	return fmt.Sprintf("invalid command name %q: must be non-empty with no whitespace or path separators", e.Value)
}

// Unwrap returns ErrInvalidCommandName for errors.Is() compatibility.
func (e *InvalidCommandNameError) Unwrap() error { return ErrInvalidCommandName }
