// SPDX-License-Identifier: MPL-2.0

// Package fsops provides the filesystem primitives of an installation run:
// tree copies that preserve file modes, executable-bit marking, and
// existence-reporting removal. All operations take typed paths and return
// wrapped errors; nothing here decides policy (what to copy, when to
// remove), that belongs to the install engine.
package fsops
