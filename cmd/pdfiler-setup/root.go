// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/RockerzXY/pdfiler/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string
	// plain disables the progress TUI in favor of plain log lines
	plain bool

	// issueStyle is the glamour style used for issue cards. Set from the UI
	// color scheme at startup; auto falls back to dark.
	issueStyle = "dark"

	// rootCmd represents the base command when called without any subcommands.
	// A bare invocation runs the full installation.
	rootCmd = &cobra.Command{
		Use:   "pdfiler-setup",
		Short: "Installer for the pdfiler PDF tool",
		Long: TitleStyle.Render("pdfiler-setup") + SubtitleStyle.Render(" - installer for the pdfiler PDF tool") + `

pdfiler-setup fetches the pdfiler sources, deploys them system-wide,
provisions an isolated Python environment with all dependencies, and
registers a launcher so 'pdfiler' can be run from anywhere.

Invoked without arguments it performs a full installation, installing
any missing tools through the system package manager along the way.

` + SubtitleStyle.Render("Examples:") + `
  pdfiler-setup                 Install pdfiler with default settings
  pdfiler-setup plan            Show the steps an install would run
  pdfiler-setup status          Inspect the current installation
  pdfiler-setup uninstall       Remove the installation
  pdfiler-setup config show     Show the resolved configuration`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd)
		},
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/pdfiler-setup/config.cue)")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "plain output without the progress display")

	// Add subcommands
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.Code
			// os.Exit truncates modulo 256, which can turn a bogus code
			// into a false success. Report such codes as plain failure.
			if vErr := code.Validate(); vErr != nil {
				fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+vErr.Error())
				code = 1
			}
			os.Exit(int(code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	// Set custom config file path if provided via --config flag
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	// Load configuration. Errors are surfaced as a warning here and again,
	// fatally, by the command that needs the config.
	cfg, err := config.NewProvider().Load(context.Background(), config.LoadOptions{})
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}
	if cfg == nil {
		return
	}

	// Apply UI settings from config when not set via flag
	if !verbose {
		verbose = cfg.UI.Verbose
	}
	if !plain {
		plain = cfg.UI.Plain
	}
	if cfg.UI.ColorScheme == config.ColorSchemeLight {
		issueStyle = "light"
	}
}
