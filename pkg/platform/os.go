// SPDX-License-Identifier: MPL-2.0

package platform

// OS name constants for runtime.GOOS comparisons, so the install paths,
// config-dir resolution, and package-manager selection all compare against
// one set of literals.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
