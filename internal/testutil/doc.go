// SPDX-License-Identifier: MPL-2.0

// Package testutil provides shared helpers for tests: fail-fast wrappers
// around common setup operations, plus fakes for the process seams.
//
// Common helpers include environment variable management (MustSetenv,
// MustUnsetenv), directory operations (MustChdir, MustMkdirAll), file
// fixtures (MustWriteFile), home redirection (SetHomeDir), deterministic
// time (FakeClock), and the exec-command mock recorder
// (MockCommandRecorder, HelperProcess) for packages that shell out through
// an execCommand seam.
package testutil
