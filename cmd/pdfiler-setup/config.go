// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/RockerzXY/pdfiler/internal/config"
)

// configCmd is the `pdfiler-setup config` command tree.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pdfiler-setup configuration",
	Long: `Manage pdfiler-setup configuration.

Configuration is stored in:
  - Linux: ~/.config/pdfiler-setup/config.cue
  - macOS: ~/Library/Application Support/pdfiler-setup/config.cue
  - Windows: %APPDATA%\pdfiler-setup\config.cue

Without a config file the installer uses its built-in defaults.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile(cmd)
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})
}

func showConfig(cmd *cobra.Command) error {
	cfg, err := loadRunConfig(cmd.Context())
	if err != nil {
		return failRun(cmd, err)
	}

	fmt.Println(TitleStyle.Render("Resolved configuration"))

	// The config file path is derived from the standard config directory;
	// the provider does not cache resolved paths.
	if cfgDir, dirErr := config.ConfigDir(); dirErr == nil {
		cfgPath := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
		if fileExistsCheck(cfgPath) {
			fmt.Printf("%s: %s\n", CmdStyle.Render("config file"), cfgPath)
		} else {
			fmt.Printf("%s: %s\n", CmdStyle.Render("config file"), SubtitleStyle.Render("(using defaults)"))
		}
	}
	fmt.Println()

	fmt.Print(config.GenerateCUE(cfg))
	return nil
}

func initConfigFile(cmd *cobra.Command) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	cfgPath := filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt)
	if fileExistsCheck(cfgPath) {
		fmt.Printf("Configuration already exists at %s\n", cfgPath)
		return nil
	}

	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
