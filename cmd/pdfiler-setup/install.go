// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/RockerzXY/pdfiler/internal/config"
	"github.com/RockerzXY/pdfiler/internal/install"
	"github.com/RockerzXY/pdfiler/internal/issue"
	"github.com/RockerzXY/pdfiler/internal/tui"
)

// installCmd is the explicit form of the bare invocation.
var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install pdfiler onto this system",
	Long: `Install pdfiler onto this system.

The installation ensures the required command-line tools are present
(installing them through the system package manager when missing), fetches
the pdfiler sources, deploys them to the install directory, provisions an
isolated Python environment with the declared dependencies, and registers
the launcher. The temporary clone directory is removed at the end.

Progress is shown in an interactive display; use --plain for log-style
output suitable for CI or scripts.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInstall(cmd)
	},
}

// runInstall drives a full installation for the root and install commands.
func runInstall(cmd *cobra.Command) error {
	ctx := cmd.Context()

	cfg, err := loadRunConfig(ctx)
	if err != nil {
		return failRun(cmd, err)
	}

	plan, err := install.NewEngine(cfg).Plan()
	if err != nil {
		return failRun(cmd, err)
	}

	var (
		res    *install.Result
		runErr error
	)
	if usePlainOutput() {
		res, runErr = runPlain(ctx, cfg, plan)
	} else {
		res, runErr = runWithProgressUI(ctx, cfg, plan)
	}

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			fmt.Fprintln(os.Stderr, WarningStyle.Render("Installation aborted."))
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true
			return &ExitError{Code: 130, Err: runErr}
		}
		return failRun(cmd, runErr)
	}

	printInstallSummary(cfg, res)
	return nil
}

// runPlain executes the installation with log-style progress on stdout.
func runPlain(ctx context.Context, cfg *config.Config, plan []install.Step) (*install.Result, error) {
	eng := install.NewEngine(cfg,
		install.WithReporter(tui.NewPlainRenderer(os.Stdout, plan)),
		install.WithLogger(runLogger()),
	)
	return eng.Run(ctx)
}

// runWithProgressUI executes the installation behind the Bubble Tea progress
// display. The engine runs in its own goroutine and feeds the display through
// a buffered event bridge; quitting the display cancels the run.
func runWithProgressUI(ctx context.Context, cfg *config.Config, plan []install.Step) (*install.Result, error) {
	bridge := tui.NewEventBridge(len(plan))
	// Engine diagnostics would tear up the display, so they are dropped
	// here; every step outcome still reaches the user through the rows.
	eng := install.NewEngine(cfg,
		install.WithReporter(bridge),
		install.WithLogger(log.New(io.Discard)),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	type runResult struct {
		res *install.Result
		err error
	}
	done := make(chan runResult, 1)
	go func() {
		res, err := eng.Run(runCtx)
		done <- runResult{res: res, err: err}
	}()

	prog := tea.NewProgram(tui.NewModel(plan, bridge.Events()), tea.WithContext(ctx))
	final, uiErr := prog.Run()
	if m, ok := final.(*tui.Model); ok && m.Aborted() {
		cancel()
	}

	out := <-done
	if out.err != nil {
		return nil, out.err
	}
	if uiErr != nil {
		// The install itself succeeded; a broken display is only a warning.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+"progress display failed: "+uiErr.Error())
	}
	return out.res, nil
}

// printInstallSummary reports the outcome of a successful run.
func printInstallSummary(cfg *config.Config, res *install.Result) {
	fmt.Printf("\n%s pdfiler installed\n", SuccessStyle.Render("✓"))
	fmt.Printf("  %s: %s\n", CmdStyle.Render("launcher"), cfg.Paths.Launcher)
	fmt.Printf("  %s: %s\n", CmdStyle.Render("install dir"), cfg.Paths.InstallDir)
	if res != nil {
		fmt.Printf("  %s: %d file(s) in %s\n", CmdStyle.Render("deployed"), res.FilesDeployed, res.Duration.Round(time.Millisecond))
		if res.CloneSkipped {
			fmt.Printf("  %s\n", WarningStyle.Render("note: a pre-existing clone directory was deployed and removed"))
		}
	}
	fmt.Printf("\nRun %s to get started.\n", CmdStyle.Render("pdfiler --help"))
}

// usePlainOutput reports whether progress should be rendered as plain log
// lines instead of the interactive display.
func usePlainOutput() bool {
	return plain || !term.IsTerminal(int(os.Stdout.Fd()))
}

// runLogger returns the engine logger for plain mode. Verbose mode lowers
// the level so step-by-step diagnostics come through.
func runLogger() *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{Prefix: "install", Level: level})
}

// loadRunConfig resolves configuration for a command run, wrapping failures
// with config troubleshooting guidance.
func loadRunConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{})
	if err != nil {
		return nil, newServiceError(err, issue.ConfigLoadFailedId, styledErrorLine(err, verbose))
	}
	return cfg, nil
}

// failRun renders an installation failure and converts it to a silent
// non-zero exit. Errors that already carry rendering information are used
// as-is; everything else goes through the classifier.
func failRun(cmd *cobra.Command, err error) error {
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		svcErr = classifyInstallError(err, verbose)
	}
	renderServiceError(os.Stderr, svcErr)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: 1, Err: err}
}
