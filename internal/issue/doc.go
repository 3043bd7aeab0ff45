// SPDX-License-Identifier: MPL-2.0

// Package issue turns installer failures into actionable guidance.
//
// It has two halves: ActionableError, a structured error carrying the failed
// operation, the resource involved, and remediation suggestions, and the
// issue catalog, Markdown cards rendered with glamour that the CLI prints
// after known failure classes (missing package manager, fetch errors,
// permission problems, and so on).
package issue
