// SPDX-License-Identifier: MPL-2.0

// Package platform identifies traits of the host the installer runs on.
//
// It provides the OS name constants used for runtime.GOOS comparisons and
// detection of application sandboxes (Flatpak, Snap) whose package manager
// commands must be spawned on the host rather than inside the sandbox.
package platform
