// SPDX-License-Identifier: MPL-2.0

// Package syspkg provides a unified abstraction layer for system package
// managers (apt-get/dnf/brew).
//
// The Manager interface defines the core operations: UpdateIndex, Install,
// and IsPackageInstalled. Three implementations are provided, all embedding
// BaseCLIManager for shared command execution and sandbox host-spawning.
//
// Manager selection uses NewManager(ManagerType) with automatic fallback if
// the preferred manager is unavailable, or AutoDetectManager() for
// preference-less detection in platform order (brew first on macOS, apt-get
// first elsewhere).
//
// Installed-package checks go through each platform's package database tool
// (dpkg-query, rpm, brew list) rather than attempting an install, so library
// packages like python3-venv can be verified without mutating the system.
package syspkg
