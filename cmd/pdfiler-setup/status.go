// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/RockerzXY/pdfiler/internal/install"
	"github.com/RockerzXY/pdfiler/pkg/fspath"
	"github.com/RockerzXY/pdfiler/pkg/types"
)

// statusCmd reports what is currently installed.
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the current installation",
	Long: `Show the state of the current installation.

Probes the install directory, launcher, environment, and entrypoint on disk
and reads the install receipt when present. Exits non-zero when pdfiler is
not fully installed, so the command can gate scripts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStatus(cmd)
	},
}

func runStatus(cmd *cobra.Command) error {
	cfg, err := loadRunConfig(cmd.Context())
	if err != nil {
		return failRun(cmd, err)
	}

	report := install.NewEngine(cfg).Status()

	fmt.Println(TitleStyle.Render("pdfiler installation"))
	fmt.Println()

	installDir := types.FilesystemPath(cfg.Paths.InstallDir)
	printProbe("install dir", string(installDir), report.InstallDirPresent)
	printProbe("launcher", string(cfg.Paths.Launcher), report.LauncherPresent)
	printProbe("environment", string(fspath.JoinStr(installDir, string(cfg.Python.EnvDir))), report.EnvPresent)
	printProbe("entrypoint", string(fspath.JoinStr(installDir, string(cfg.Python.Entrypoint))), report.EntrypointPresent)

	fmt.Println()
	switch {
	case report.ReceiptErr != nil:
		fmt.Printf("%s receipt unreadable: %v\n", WarningStyle.Render("!"), report.ReceiptErr)
	case report.Receipt == nil:
		fmt.Println(SubtitleStyle.Render("no install receipt"))
	default:
		r := report.Receipt
		fmt.Printf("%s: %s\n", CmdStyle.Render("installed"), r.InstalledAt.Format(time.RFC3339))
		source := string(r.Source.URL)
		if r.Source.Ref != "" {
			source += fmt.Sprintf(" (ref %s)", r.Source.Ref)
		}
		fmt.Printf("%s: %s\n", CmdStyle.Render("source"), source)
		fmt.Printf("%s: %d file(s)\n", CmdStyle.Render("deployed"), r.Deploy.FileCount)
		if len(r.Manifest.Packages) > 0 {
			fmt.Printf("%s:\n", CmdStyle.Render("packages"))
			for _, pkg := range r.Manifest.Packages {
				fmt.Printf("  - %s\n", pkg)
			}
		}
	}

	fmt.Println()
	if !report.Installed() {
		fmt.Printf("%s pdfiler is not fully installed\n", WarningStyle.Render("✗"))
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		return &ExitError{Code: 1}
	}

	fmt.Printf("%s pdfiler is installed\n", SuccessStyle.Render("✓"))
	return nil
}

// printProbe prints one on-disk probe result.
func printProbe(label, path string, present bool) {
	mark := ErrorStyle.Render("✗")
	if present {
		mark = SuccessStyle.Render("✓")
	}
	fmt.Printf("  %s %s %s\n", mark, label, SubtitleStyle.Render("("+path+")"))
}
