// SPDX-License-Identifier: MPL-2.0

// Package manifest parses pip requirements files (requirements.txt).
//
// The parser is line-oriented: blank lines and comments are skipped,
// backslash continuations are joined, inline comments and environment
// markers are split off, and each remaining line becomes either a
// Requirement (name, optional extras, optional version constraint) or a
// Directive (option lines such as "-r other.txt" or "--index-url ...").
//
// The parser exists for reporting only. Installation always hands the
// manifest file to pip verbatim; pip stays the authority on what the file
// means.
package manifest
