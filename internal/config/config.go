// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/RockerzXY/pdfiler/internal/issue"
	"github.com/RockerzXY/pdfiler/pkg/cueutil"
	"github.com/RockerzXY/pdfiler/pkg/platform"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "pdfiler-setup"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the pdfiler-setup configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level override state. Callers that want the override seams can
// wrap this function.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()

	// Set defaults
	defaults := DefaultConfig()
	v.SetDefault("source.url", defaults.Source.URL)
	v.SetDefault("source.ref", defaults.Source.Ref)
	v.SetDefault("source.strategy", defaults.Source.Strategy)
	v.SetDefault("paths.clone_dir", defaults.Paths.CloneDir)
	v.SetDefault("paths.install_dir", defaults.Paths.InstallDir)
	v.SetDefault("paths.launcher", defaults.Paths.Launcher)
	v.SetDefault("python.interpreter", defaults.Python.Interpreter)
	v.SetDefault("python.env_dir", defaults.Python.EnvDir)
	v.SetDefault("python.manifest", defaults.Python.Manifest)
	v.SetDefault("python.entrypoint", defaults.Python.Entrypoint)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)
	v.SetDefault("ui.plain", defaults.UI.Plain)

	resolvedPath := ""

	// If a custom config file path is set via the --config flag, use it exclusively.
	cfgFilePath := string(opts.ConfigFilePath)
	if cfgFilePath == "" {
		cfgFilePath = configFilePathOverride
	}
	if cfgFilePath != "" {
		cfgPath := cfgFilePath
		if !fileExists(cfgPath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(cfgPath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'pdfiler-setup config show' to see default configuration").
				Wrap(fmt.Errorf("config file not found: %s", cfgPath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, cfgPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(cfgPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("See 'pdfiler-setup config --help' for configuration options").
				Wrap(err).
				BuildError()
		}
		resolvedPath = cfgPath
	} else {
		// Get config directory
		cfgDir, err := configDirWithOverride(string(opts.ConfigDirPath))
		if err != nil {
			return nil, "", err
		}

		// Try to load CUE config file
		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", issue.NewErrorContext().
					WithOperation("load configuration").
					WithResource(cuePath).
					WithSuggestion("Check that the file contains valid CUE syntax").
					WithSuggestion("Verify the configuration values match the expected schema").
					WithSuggestion("See 'pdfiler-setup config --help' for configuration options").
					Wrap(err).
					BuildError()
			}
			resolvedPath = cuePath
		} else {
			// Also check current directory
			localCuePath := ConfigFileName + "." + ConfigFileExt
			if fileExists(localCuePath) {
				if err := loadCUEIntoViper(v, localCuePath); err != nil {
					return nil, "", issue.NewErrorContext().
						WithOperation("load configuration").
						WithResource(localCuePath).
						WithSuggestion("Check that the file contains valid CUE syntax").
						WithSuggestion("Verify the configuration values match the expected schema").
						WithSuggestion("See 'pdfiler-setup config --help' for configuration options").
						Wrap(err).
						BuildError()
				}
				resolvedPath = localCuePath
			}
			// If no config file found, use defaults (no error)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Field-level validation catches constraints the CUE schema cannot see
	// because defaults are merged in Go (e.g. env_dir set to the manifest's
	// default name).
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Ensure python.env_dir, python.manifest, and python.entrypoint are distinct names").
			WithSuggestion("Check that no path or name field is empty").
			Wrap(errs[0]).
			BuildError()
	}

	// Validate path relationships that CUE cannot express: the clone dir
	// is removed after deployment, so nothing durable may live inside it.
	if err := validatePathLayout(&cfg); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Keep paths.clone_dir outside paths.install_dir and vice versa").
			WithSuggestion("Place paths.launcher outside paths.clone_dir").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper. Decoding targets a plain map rather than
// Config so Viper keeps layering defaults and flag overrides on top.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Concrete(false): every schema field is optional, defaults come from
	// Viper rather than the CUE file.
	result, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config",
		cueutil.WithConcrete(false),
		cueutil.WithFilename(path),
	)
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// validatePathLayout checks path relationships that CUE cannot express:
//   - clone_dir and install_dir must not be equal or nested in either
//     direction, because the clone dir is removed at the end of a run
//     and the install dir is populated from it
//   - the launcher must not live inside clone_dir for the same reason
//
// All comparisons are lexical (filepath.Clean); paths are not resolved
// on disk because neither directory needs to exist at load time.
func validatePathLayout(cfg *Config) error {
	cloneDir := filepath.Clean(string(cfg.Paths.CloneDir))
	installDir := filepath.Clean(string(cfg.Paths.InstallDir))
	launcher := filepath.Clean(string(cfg.Paths.Launcher))

	if cloneDir == installDir {
		return fmt.Errorf("paths.clone_dir and paths.install_dir are both %q; the clone dir is removed after deployment", cloneDir)
	}
	if within(installDir, cloneDir) {
		return fmt.Errorf("paths.install_dir %q is inside paths.clone_dir %q, which is removed after deployment", installDir, cloneDir)
	}
	if within(cloneDir, installDir) {
		return fmt.Errorf("paths.clone_dir %q is inside paths.install_dir %q; removing it would damage the installation", cloneDir, installDir)
	}
	if within(launcher, cloneDir) {
		return fmt.Errorf("paths.launcher %q is inside paths.clone_dir %q, which is removed after deployment", launcher, cloneDir)
	}

	return nil
}

// within reports whether path is lexically equal to dir or nested inside it.
func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// CreateDefaultConfig creates a default config file if it doesn't exist
func CreateDefaultConfig() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	// Check if file already exists
	if _, err := os.Stat(cfgPath); err == nil {
		return nil // File exists
	}

	defaults := DefaultConfig()
	cueContent := GenerateCUE(defaults)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Save writes the current configuration to file
func Save(cfg *Config) error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	cueContent := GenerateCUE(cfg)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// pdfiler-setup Configuration File\n")
	sb.WriteString("// See https://github.com/RockerzXY/pdfiler for documentation.\n\n")

	// Source repository
	sb.WriteString("source: {\n")
	sb.WriteString(fmt.Sprintf("\turl: %q\n", cfg.Source.URL))
	if cfg.Source.Ref != "" {
		sb.WriteString(fmt.Sprintf("\tref: %q\n", cfg.Source.Ref))
	}
	sb.WriteString(fmt.Sprintf("\tstrategy: %q\n", cfg.Source.Strategy))
	sb.WriteString("}\n")

	// Filesystem layout
	sb.WriteString("\npaths: {\n")
	sb.WriteString(fmt.Sprintf("\tclone_dir: %q\n", cfg.Paths.CloneDir))
	sb.WriteString(fmt.Sprintf("\tinstall_dir: %q\n", cfg.Paths.InstallDir))
	sb.WriteString(fmt.Sprintf("\tlauncher: %q\n", cfg.Paths.Launcher))
	sb.WriteString("}\n")

	// Python runtime layout
	sb.WriteString("\npython: {\n")
	sb.WriteString(fmt.Sprintf("\tinterpreter: %q\n", cfg.Python.Interpreter))
	sb.WriteString(fmt.Sprintf("\tenv_dir: %q\n", cfg.Python.EnvDir))
	sb.WriteString(fmt.Sprintf("\tmanifest: %q\n", cfg.Python.Manifest))
	sb.WriteString(fmt.Sprintf("\tentrypoint: %q\n", cfg.Python.Entrypoint))
	sb.WriteString("}\n")

	// UI config
	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString(fmt.Sprintf("\tplain: %v\n", cfg.UI.Plain))
	sb.WriteString("}\n")

	return sb.String()
}
