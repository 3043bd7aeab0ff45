// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RockerzXY/pdfiler/internal/install"
	"github.com/RockerzXY/pdfiler/pkg/fspath"
	"github.com/RockerzXY/pdfiler/pkg/types"
)

// planCmd prints the ordered steps and resolved paths without executing.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the installation steps without executing them",
	Long: `Show the installation steps without executing them.

The plan lists every step in execution order together with the resolved
source, paths, and interpreter. Nothing is fetched, installed, or written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(cmd)
	},
}

func runPlan(cmd *cobra.Command) error {
	cfg, err := loadRunConfig(cmd.Context())
	if err != nil {
		return failRun(cmd, err)
	}

	plan, err := install.NewEngine(cfg).Plan()
	if err != nil {
		return failRun(cmd, err)
	}

	fmt.Println(TitleStyle.Render("Installation plan"))
	fmt.Println()

	// Pad on the raw names; styled strings carry escape codes that throw
	// off printf widths.
	maxName := 0
	for _, step := range plan {
		if len(step.Name) > maxName {
			maxName = len(step.Name)
		}
	}
	for i, step := range plan {
		pad := strings.Repeat(" ", maxName-len(step.Name)+2)
		fmt.Printf("  %d. %s%s%s\n", i+1, CmdStyle.Render(string(step.Name)), pad, SubtitleStyle.Render(step.Summary))
	}

	fmt.Println()
	fmt.Println(TitleStyle.Render("Resolved configuration"))
	fmt.Println()

	source := string(cfg.Source.URL)
	if cfg.Source.Ref != "" {
		source += fmt.Sprintf(" (ref %s)", cfg.Source.Ref)
	}
	installDir := types.FilesystemPath(cfg.Paths.InstallDir)
	fmt.Printf("%s: %s\n", CmdStyle.Render("source"), source)
	fmt.Printf("%s: %s\n", CmdStyle.Render("strategy"), cfg.Source.Strategy)
	fmt.Printf("%s: %s\n", CmdStyle.Render("clone dir"), cfg.Paths.CloneDir)
	fmt.Printf("%s: %s\n", CmdStyle.Render("install dir"), installDir)
	fmt.Printf("%s: %s\n", CmdStyle.Render("launcher"), cfg.Paths.Launcher)
	fmt.Printf("%s: %s\n", CmdStyle.Render("environment"), fspath.JoinStr(installDir, string(cfg.Python.EnvDir)))
	fmt.Printf("%s: %s\n", CmdStyle.Render("interpreter"), cfg.Python.Interpreter)

	return nil
}
