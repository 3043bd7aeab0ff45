// SPDX-License-Identifier: MPL-2.0

package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/RockerzXY/pdfiler/internal/install"
)

// assumeYes skips the uninstall confirmation prompt.
var assumeYes bool

// uninstallCmd removes the launcher and the install directory.
var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the pdfiler installation",
	Long: `Remove the pdfiler installation.

Deletes the launcher and the install directory, including the Python
environment and the install receipt. The configuration file is left in
place. Asks for confirmation unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUninstall(cmd)
	},
}

func init() {
	uninstallCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "do not ask for confirmation")
}

func runUninstall(cmd *cobra.Command) error {
	cfg, err := loadRunConfig(cmd.Context())
	if err != nil {
		return failRun(cmd, err)
	}

	if !assumeYes {
		confirmed, err := confirmUninstall(string(cfg.Paths.InstallDir), string(cfg.Paths.Launcher))
		if err != nil {
			return failRun(cmd, err)
		}
		if !confirmed {
			fmt.Println(SubtitleStyle.Render("Uninstall cancelled."))
			return nil
		}
	}

	res, err := install.NewEngine(cfg).Uninstall()
	if err != nil {
		return failRun(cmd, err)
	}

	if !res.LauncherRemoved && !res.InstallDirRemoved {
		fmt.Println(SubtitleStyle.Render("Nothing to remove; pdfiler is not installed."))
		return nil
	}
	if res.LauncherRemoved {
		fmt.Printf("%s Removed launcher %s\n", SuccessStyle.Render("✓"), cfg.Paths.Launcher)
	}
	if res.InstallDirRemoved {
		fmt.Printf("%s Removed install directory %s\n", SuccessStyle.Render("✓"), cfg.Paths.InstallDir)
	}
	return nil
}

// confirmUninstall asks on the terminal before removing anything. A
// non-interactive stdin counts as a refusal; scripted callers use --yes.
func confirmUninstall(installDir, launcherPath string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Refusing to uninstall without confirmation; pass --yes to proceed."))
		return false, nil
	}

	fmt.Printf("This removes %s and %s.\n", CmdStyle.Render(installDir), CmdStyle.Render(launcherPath))
	fmt.Print("Continue? [y/N] ")

	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
