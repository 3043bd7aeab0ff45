// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/RockerzXY/pdfiler/pkg/types"
)

const (
	// StrategyGit clones the source repository with the system git CLI.
	StrategyGit FetchStrategy = "git"
	// StrategyGoGit clones the source repository with the embedded go-git library,
	// removing the dependency on a system git binary.
	StrategyGoGit FetchStrategy = "go-git"
	// StrategyArchive downloads the source repository as a tarball snapshot
	// over HTTPS instead of cloning it.
	StrategyArchive FetchStrategy = "archive"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidFetchStrategy is returned when a FetchStrategy value is not recognized.
	ErrInvalidFetchStrategy = errors.New("invalid fetch strategy")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidSourceURL is returned when a SourceURL value is empty or contains whitespace.
	ErrInvalidSourceURL = errors.New("invalid source URL")
	// ErrInvalidGitRef is returned when a GitRef value is whitespace-only.
	ErrInvalidGitRef = errors.New("invalid git ref")
	// ErrInvalidCloneDirPath is returned when a CloneDirPath value is whitespace-only.
	ErrInvalidCloneDirPath = errors.New("invalid clone dir path")
	// ErrInvalidInstallDirPath is returned when an InstallDirPath value is whitespace-only.
	ErrInvalidInstallDirPath = errors.New("invalid install dir path")
	// ErrInvalidLauncherPath is returned when a LauncherPath value is whitespace-only.
	ErrInvalidLauncherPath = errors.New("invalid launcher path")
	// ErrInvalidBaseName is the sentinel error wrapped by InvalidBaseNameError.
	ErrInvalidBaseName = errors.New("invalid base name")
	// ErrInvalidSourceConfig is the sentinel error wrapped by InvalidSourceConfigError.
	ErrInvalidSourceConfig = errors.New("invalid source config")
	// ErrInvalidPathsConfig is the sentinel error wrapped by InvalidPathsConfigError.
	ErrInvalidPathsConfig = errors.New("invalid paths config")
	// ErrInvalidPythonConfig is the sentinel error wrapped by InvalidPythonConfigError.
	ErrInvalidPythonConfig = errors.New("invalid python config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// FetchStrategy specifies how the source repository is obtained.
	FetchStrategy string

	// InvalidFetchStrategyError is returned when a FetchStrategy value is not recognized.
	// It wraps ErrInvalidFetchStrategy for errors.Is() compatibility.
	InvalidFetchStrategyError struct {
		Value FetchStrategy
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// SourceURL represents the location of the source repository. Both
	// scheme URLs (https://, git://) and scp-style remotes
	// (git@host:user/repo.git) are accepted; a valid value is non-empty
	// and contains no whitespace.
	SourceURL string

	// InvalidSourceURLError is returned when a SourceURL value is empty
	// or contains whitespace. It wraps ErrInvalidSourceURL for errors.Is().
	InvalidSourceURLError struct {
		Value SourceURL
	}

	// GitRef represents a branch, tag, or commit to check out after fetching.
	// The zero value ("") is valid and means "use the remote default branch".
	GitRef string

	// InvalidGitRefError is returned when a GitRef value is
	// non-empty but whitespace-only.
	InvalidGitRefError struct {
		Value GitRef
	}

	// CloneDirPath represents the staging directory the source repository
	// is fetched into. A valid path must be non-empty and not whitespace-only.
	CloneDirPath string

	// InvalidCloneDirPathError is returned when a CloneDirPath value is
	// empty or whitespace-only.
	InvalidCloneDirPathError struct {
		Value CloneDirPath
	}

	// InstallDirPath represents the directory the application is deployed to.
	// A valid path must be non-empty and not whitespace-only.
	InstallDirPath string

	// InvalidInstallDirPathError is returned when an InstallDirPath value is
	// empty or whitespace-only.
	InvalidInstallDirPathError struct {
		Value InstallDirPath
	}

	// LauncherPath represents the filesystem path the launcher script is
	// written to. A valid path must be non-empty and not whitespace-only.
	LauncherPath string

	// InvalidLauncherPathError is returned when a LauncherPath value is
	// empty or whitespace-only.
	InvalidLauncherPathError struct {
		Value LauncherPath
	}

	// BaseName represents a single path element created inside the install
	// directory (the virtualenv directory, the dependency manifest, the
	// entrypoint script). A valid name is non-empty, contains no path
	// separators, and is not "." or "..".
	BaseName string

	// InvalidBaseNameError is returned when a BaseName value is empty,
	// contains a path separator, or is a relative directory reference.
	InvalidBaseNameError struct {
		Value BaseName
	}

	// InvalidSourceConfigError is returned when a SourceConfig has invalid fields.
	// It wraps ErrInvalidSourceConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidSourceConfigError struct {
		FieldErrors []error
	}

	// InvalidPathsConfigError is returned when a PathsConfig has invalid fields.
	// It wraps ErrInvalidPathsConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidPathsConfigError struct {
		FieldErrors []error
	}

	// InvalidPythonConfigError is returned when a PythonConfig has invalid fields.
	// It wraps ErrInvalidPythonConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidPythonConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// SourceConfig describes where the application sources come from.
	SourceConfig struct {
		// URL is the repository to fetch.
		URL SourceURL `json:"url" mapstructure:"url"`
		// Ref optionally pins a branch, tag, or commit.
		Ref GitRef `json:"ref,omitempty" mapstructure:"ref"`
		// Strategy selects the fetch mechanism ("git", "go-git", "archive").
		Strategy FetchStrategy `json:"strategy" mapstructure:"strategy"`
	}

	// PathsConfig describes where the installation lands on disk.
	PathsConfig struct {
		// CloneDir is the staging directory the sources are fetched into.
		// It is removed again at the end of a run.
		CloneDir CloneDirPath `json:"clone_dir" mapstructure:"clone_dir"`
		// InstallDir is the directory the application is deployed to.
		InstallDir InstallDirPath `json:"install_dir" mapstructure:"install_dir"`
		// Launcher is the path the launcher script is written to.
		Launcher LauncherPath `json:"launcher" mapstructure:"launcher"`
	}

	// PythonConfig describes the Python runtime layout of the installation.
	PythonConfig struct {
		// Interpreter is the Python command used to create the virtualenv.
		Interpreter types.CommandName `json:"interpreter" mapstructure:"interpreter"`
		// EnvDir is the virtualenv directory name inside InstallDir.
		EnvDir BaseName `json:"env_dir" mapstructure:"env_dir"`
		// Manifest is the dependency manifest file name inside InstallDir.
		Manifest BaseName `json:"manifest" mapstructure:"manifest"`
		// Entrypoint is the application entry script name inside InstallDir.
		Entrypoint BaseName `json:"entrypoint" mapstructure:"entrypoint"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Plain disables the progress TUI and prints log lines instead
		Plain bool `json:"plain" mapstructure:"plain"`
	}

	// Config holds the application configuration.
	Config struct {
		// Source describes where the application sources come from.
		Source SourceConfig `json:"source" mapstructure:"source"`
		// Paths describes where the installation lands on disk.
		Paths PathsConfig `json:"paths" mapstructure:"paths"`
		// Python describes the Python runtime layout.
		Python PythonConfig `json:"python" mapstructure:"python"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}
)

// Error implements the error interface for InvalidFetchStrategyError.
func (e *InvalidFetchStrategyError) Error() string {
	return fmt.Sprintf("invalid fetch strategy %q (valid: git, go-git, archive)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidFetchStrategyError) Unwrap() error {
	return ErrInvalidFetchStrategy
}

// String returns the string representation of the FetchStrategy.
func (s FetchStrategy) String() string { return string(s) }

// IsValid returns whether the FetchStrategy is one of the defined strategies,
// and a list of validation errors if it is not.
func (s FetchStrategy) IsValid() (bool, []error) {
	switch s {
	case StrategyGit, StrategyGoGit, StrategyArchive:
		return true, nil
	default:
		return false, []error{&InvalidFetchStrategyError{Value: s}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// String returns the string representation of the SourceURL.
func (u SourceURL) String() string { return string(u) }

// IsValid returns whether the SourceURL is valid.
// A valid URL must be non-empty and contain no whitespace.
func (u SourceURL) IsValid() (bool, []error) {
	s := string(u)
	if strings.TrimSpace(s) == "" || strings.ContainsAny(s, " \t\n") {
		return false, []error{&InvalidSourceURLError{Value: u}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSourceURLError.
func (e *InvalidSourceURLError) Error() string {
	return fmt.Sprintf("invalid source URL %q: must be non-empty with no whitespace", e.Value)
}

// Unwrap returns ErrInvalidSourceURL for errors.Is() compatibility.
func (e *InvalidSourceURLError) Unwrap() error { return ErrInvalidSourceURL }

// String returns the string representation of the GitRef.
func (r GitRef) String() string { return string(r) }

// IsValid returns whether the GitRef is valid.
// The zero value ("") is valid (means "use the remote default branch").
// Non-zero values must not be whitespace-only.
func (r GitRef) IsValid() (bool, []error) {
	if r == "" {
		return true, nil
	}
	if strings.TrimSpace(string(r)) == "" {
		return false, []error{&InvalidGitRefError{Value: r}}
	}
	return true, nil
}

// Error implements the error interface for InvalidGitRefError.
func (e *InvalidGitRefError) Error() string {
	return fmt.Sprintf("invalid git ref %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidGitRef for errors.Is() compatibility.
func (e *InvalidGitRefError) Unwrap() error { return ErrInvalidGitRef }

// String returns the string representation of the CloneDirPath.
func (p CloneDirPath) String() string { return string(p) }

// IsValid returns whether the CloneDirPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p CloneDirPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidCloneDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCloneDirPathError.
func (e *InvalidCloneDirPathError) Error() string {
	return fmt.Sprintf("invalid clone dir path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidCloneDirPath for errors.Is() compatibility.
func (e *InvalidCloneDirPathError) Unwrap() error { return ErrInvalidCloneDirPath }

// String returns the string representation of the InstallDirPath.
func (p InstallDirPath) String() string { return string(p) }

// IsValid returns whether the InstallDirPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p InstallDirPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidInstallDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidInstallDirPathError.
func (e *InvalidInstallDirPathError) Error() string {
	return fmt.Sprintf("invalid install dir path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidInstallDirPath for errors.Is() compatibility.
func (e *InvalidInstallDirPathError) Unwrap() error { return ErrInvalidInstallDirPath }

// String returns the string representation of the LauncherPath.
func (p LauncherPath) String() string { return string(p) }

// IsValid returns whether the LauncherPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p LauncherPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidLauncherPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidLauncherPathError.
func (e *InvalidLauncherPathError) Error() string {
	return fmt.Sprintf("invalid launcher path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidLauncherPath for errors.Is() compatibility.
func (e *InvalidLauncherPathError) Unwrap() error { return ErrInvalidLauncherPath }

// String returns the string representation of the BaseName.
func (n BaseName) String() string { return string(n) }

// IsValid returns whether the BaseName is valid.
// A valid name is non-empty, contains no path separators, and is not
// "." or "..".
func (n BaseName) IsValid() (bool, []error) {
	s := string(n)
	if strings.TrimSpace(s) == "" || s == "." || s == ".." {
		return false, []error{&InvalidBaseNameError{Value: n}}
	}
	if strings.ContainsRune(s, '/') || strings.ContainsRune(s, '\\') {
		return false, []error{&InvalidBaseNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBaseNameError.
func (e *InvalidBaseNameError) Error() string {
	return fmt.Sprintf("invalid base name %q: must be a single path element", e.Value)
}

// Unwrap returns ErrInvalidBaseName for errors.Is() compatibility.
func (e *InvalidBaseNameError) Unwrap() error { return ErrInvalidBaseName }

// IsValid returns whether the SourceConfig has valid fields.
// It delegates to URL.IsValid(), Ref.IsValid(), and Strategy.IsValid().
func (c SourceConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.URL.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Ref.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Strategy.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidSourceConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSourceConfigError.
func (e *InvalidSourceConfigError) Error() string {
	return fmt.Sprintf("invalid source config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidSourceConfig for errors.Is() compatibility.
func (e *InvalidSourceConfigError) Unwrap() error { return ErrInvalidSourceConfig }

// IsValid returns whether the PathsConfig has valid fields.
// It delegates to CloneDir.IsValid(), InstallDir.IsValid(), and
// Launcher.IsValid(). Overlap between the directories is checked
// separately at load time because it requires path normalization.
func (c PathsConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.CloneDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.InstallDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Launcher.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidPathsConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPathsConfigError.
func (e *InvalidPathsConfigError) Error() string {
	return fmt.Sprintf("invalid paths config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidPathsConfig for errors.Is() compatibility.
func (e *InvalidPathsConfigError) Unwrap() error { return ErrInvalidPathsConfig }

// IsValid returns whether the PythonConfig has valid fields.
// It delegates to Interpreter.IsValid() and each name's IsValid(), and
// additionally requires EnvDir, Manifest, and Entrypoint to be pairwise
// distinct: they are all created inside the install directory and must
// not collide.
func (c PythonConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Interpreter.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.EnvDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Manifest.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Entrypoint.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	seen := map[BaseName]string{}
	for _, entry := range []struct {
		field string
		name  BaseName
	}{
		{"env_dir", c.EnvDir},
		{"manifest", c.Manifest},
		{"entrypoint", c.Entrypoint},
	} {
		if prev, dup := seen[entry.name]; dup {
			errs = append(errs, fmt.Errorf("python name %q used for both %s and %s", entry.name, prev, entry.field))
			continue
		}
		seen[entry.name] = entry.field
	}
	if len(errs) > 0 {
		return false, []error{&InvalidPythonConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPythonConfigError.
func (e *InvalidPythonConfigError) Error() string {
	return fmt.Sprintf("invalid python config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidPythonConfig for errors.Is() compatibility.
func (e *InvalidPythonConfigError) Unwrap() error { return ErrInvalidPythonConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to Source.IsValid(), Paths.IsValid(), Python.IsValid(),
// and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Source.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Paths.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Python.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			URL:      "https://github.com/RockerzXY/pdfiler.git",
			Ref:      "", // Remote default branch
			Strategy: StrategyGit,
		},
		Paths: PathsConfig{
			CloneDir:   defaultCloneDir(),
			InstallDir: "/usr/local/pdfiler",
			Launcher:   "/usr/local/bin/pdfiler",
		},
		Python: PythonConfig{
			Interpreter: "python3",
			EnvDir:      "pdfiler_env",
			Manifest:    "requirements.txt",
			Entrypoint:  "pdfiler.py",
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Plain:       false,
		},
	}
}

// defaultCloneDir resolves the staging directory under the user's home
// directory. When the home directory cannot be determined it falls back
// to the system temp directory so DefaultConfig never fails.
func defaultCloneDir() CloneDirPath {
	home, err := os.UserHomeDir()
	if err != nil {
		return CloneDirPath(filepath.Join(os.TempDir(), "pdfiler_tmp"))
	}
	return CloneDirPath(filepath.Join(home, "pdfiler_tmp"))
}
