// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// ValidationError is a single CUE validation failure located by file and
// JSON path. FormatError produces one of these when exactly one thing is
// wrong, so callers can match on the type while users still see the
// "<file>: <json-path>: <message>" line.
type ValidationError struct {
	// FilePath is the file being validated.
	FilePath string

	// CUEPath is the JSON path to the invalid value (e.g., "paths.clone_dir").
	CUEPath string

	// Message is the validation error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.CUEPath != "" {
		return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
}

// FormatError converts a raw CUE error into a user-facing one. A single
// failure comes back as a *ValidationError; multiple failures are joined
// into an indented list under one "validation failed" line:
//
//	config.cue: paths.clone_dir: value exceeds maximum length
//	config.cue: ui.verbose: expected bool, got string
//
// Exposed for packages that format CUE errors outside ParseAndDecode.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		// Not a CUE error, just locate it.
		return fmt.Errorf("%s: %w", filePath, err)
	}

	found := make([]*ValidationError, 0, len(cueErrors))
	for _, e := range cueErrors {
		pathStr := formatPath(errors.Path(e))
		msg := e.Error()

		// CUE sometimes repeats the path inside the message; strip it so the
		// rendered line names the path once.
		if pathStr != "" && strings.HasPrefix(msg, pathStr) {
			msg = strings.TrimSpace(strings.TrimPrefix(strings.TrimPrefix(msg, pathStr), ":"))
		}

		found = append(found, &ValidationError{FilePath: filePath, CUEPath: pathStr, Message: msg})
	}

	if len(found) == 1 {
		return found[0]
	}

	lines := make([]string, 0, len(found))
	for _, v := range found {
		if v.CUEPath != "" {
			lines = append(lines, v.CUEPath+": "+v.Message)
		} else {
			lines = append(lines, v.Message)
		}
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// formatPath renders a CUE error path in JSON-path notation. CUE reports
// paths as flat slices like ["packages", "0", "name"]; users read
// "packages[0].name" more easily.
func formatPath(path []string) string {
	if len(path) == 0 {
		return ""
	}

	var result strings.Builder
	for i, part := range path {
		if i > 0 && isAllDigits(part) {
			result.WriteString("[")
			result.WriteString(part)
			result.WriteString("]")
			continue
		}
		if i > 0 {
			result.WriteString(".")
		}
		result.WriteString(part)
	}

	return result.String()
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize verifies that data does not exceed the specified maximum
// size. Exposed so callers can reject a file before handing it to the CUE
// evaluator.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
