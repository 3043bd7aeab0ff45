// SPDX-License-Identifier: MPL-2.0

// Package fspath provides typed wrappers around path/filepath functions that
// accept and return types.FilesystemPath, so path arithmetic stays in the
// typed domain instead of dropping back to raw strings at every call site.
package fspath

import (
	"path/filepath"

	"github.com/RockerzXY/pdfiler/pkg/types"
)

// JoinStr wraps filepath.Join, accepting a typed base path and raw string
// segments. Use this when joining a validated path with literal constants
// (e.g., "requirements.txt") or configured file names.
func JoinStr(base types.FilesystemPath, elem ...string) types.FilesystemPath {
	parts := make([]string, 1, 1+len(elem))
	parts[0] = string(base)
	parts = append(parts, elem...)
	return types.FilesystemPath(filepath.Join(parts...))
}

// Dir wraps filepath.Dir for FilesystemPath.
func Dir(p types.FilesystemPath) types.FilesystemPath {
	return types.FilesystemPath(filepath.Dir(string(p)))
}
