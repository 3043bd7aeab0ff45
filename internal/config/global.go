// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride replaces the platform config directory when set.
// Tests point it at a temp dir because os.UserHomeDir() does not reliably
// follow the HOME environment variable everywhere (macOS in CI, notably).
var configDirOverride string

// configFilePathOverride forces loading from a specific config file when
// LoadOptions does not already name one. The CLI sets it from the --config
// flag before commands run; tests use it to point at fixture files.
var configFilePathOverride string

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
	configFilePathOverride = ""
}

// SetConfigDirOverride sets a custom config directory path, bypassing
// platform resolution. Intended for tests; see configDirOverride.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFilePathOverride sets a custom config file path that is used
// whenever a load does not name one explicitly.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}
