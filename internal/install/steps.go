// SPDX-License-Identifier: MPL-2.0

package install

import (
	"context"
	"fmt"

	"github.com/RockerzXY/pdfiler/internal/config"
	"github.com/RockerzXY/pdfiler/internal/fetch"
	"github.com/RockerzXY/pdfiler/internal/fsops"
	"github.com/RockerzXY/pdfiler/internal/launcher"
	"github.com/RockerzXY/pdfiler/internal/provision"
	"github.com/RockerzXY/pdfiler/internal/receipt"
	"github.com/RockerzXY/pdfiler/internal/syspkg"
	"github.com/RockerzXY/pdfiler/pkg/types"
)

// StepName identifies an installation step. The names are stable: they appear
// in plan output, progress events, and error messages.
type StepName string

const (
	// StepEnsureTools checks the required command-line tools and installs
	// what is missing.
	StepEnsureTools StepName = "ensure-tools"
	// StepEnsureVenvSupport checks the virtualenv support package.
	StepEnsureVenvSupport StepName = "ensure-venv-support"
	// StepAcquireSources fetches the application sources.
	StepAcquireSources StepName = "acquire-sources"
	// StepDeploy copies the sources into the install directory.
	StepDeploy StepName = "deploy"
	// StepProvisionEnv creates the virtualenv and installs requirements.
	StepProvisionEnv StepName = "provision-env"
	// StepRegisterLauncher writes the launcher script.
	StepRegisterLauncher StepName = "register-launcher"
	// StepWriteReceipt records the install receipt.
	StepWriteReceipt StepName = "write-receipt"
	// StepCleanup removes the temporary clone directory.
	StepCleanup StepName = "cleanup"
)

type (
	// Step is one unit of the installation sequence.
	Step struct {
		// Name is the stable step identifier.
		Name StepName
		// Summary is a one-line description for plan output and the
		// progress UI.
		Summary string
		// Requires lists the steps that must complete first.
		Requires []StepName

		run stepFunc
	}

	// outcome is what a step reports back on success.
	outcome struct {
		skipped bool
		detail  string
	}

	stepFunc func(ctx context.Context, st *runState) (outcome, error)

	// toolRequirement pairs a command that must resolve on PATH with the
	// logical package that provides it.
	toolRequirement struct {
		Command types.CommandName
		Package syspkg.LogicalPackage
	}
)

// steps declares the installation sequence. Order here is irrelevant; the
// Requires edges are the single source of execution order.
func (e *Engine) steps() []Step {
	return []Step{
		{
			Name:    StepEnsureTools,
			Summary: "Ensure required command-line tools are present",
			run:     e.ensureTools,
		},
		{
			Name:     StepEnsureVenvSupport,
			Summary:  "Ensure Python virtualenv support is installed",
			Requires: []StepName{StepEnsureTools},
			run:      e.ensureVenvSupport,
		},
		{
			Name:     StepAcquireSources,
			Summary:  "Fetch application sources into the clone directory",
			Requires: []StepName{StepEnsureTools},
			run:      e.acquireSources,
		},
		{
			Name:     StepDeploy,
			Summary:  "Copy sources into the install directory",
			Requires: []StepName{StepAcquireSources},
			run:      e.deploy,
		},
		{
			Name:     StepProvisionEnv,
			Summary:  "Create the virtualenv and install requirements",
			Requires: []StepName{StepEnsureVenvSupport, StepDeploy},
			run:      e.provisionEnv,
		},
		{
			Name:     StepRegisterLauncher,
			Summary:  "Write the launcher script",
			Requires: []StepName{StepProvisionEnv},
			run:      e.registerLauncher,
		},
		{
			Name:     StepWriteReceipt,
			Summary:  "Record the install receipt",
			Requires: []StepName{StepRegisterLauncher},
			run:      e.writeReceiptStep,
		},
		{
			Name:     StepCleanup,
			Summary:  "Remove the temporary clone directory",
			Requires: []StepName{StepWriteReceipt},
			run:      e.cleanup,
		},
	}
}

// requiredTools lists the commands this run depends on. The git CLI is only
// required when the git strategy is selected; the other strategies fetch
// without it.
func (e *Engine) requiredTools() []toolRequirement {
	var tools []toolRequirement
	if e.cfg.Source.Strategy == config.StrategyGit {
		tools = append(tools, toolRequirement{Command: "git", Package: syspkg.PackageGit})
	}
	tools = append(tools, toolRequirement{Command: e.cfg.Python.Interpreter, Package: syspkg.PackagePython})
	return tools
}

// ensureIndex refreshes the package index at most once per run.
func (e *Engine) ensureIndex(ctx context.Context, st *runState, mgr syspkg.Manager) error {
	if st.indexUpdated {
		return nil
	}
	e.logger.Info("updating package index", "manager", mgr.Name())
	if err := mgr.UpdateIndex(ctx); err != nil {
		return fmt.Errorf("updating package index: %w", err)
	}
	st.indexUpdated = true
	return nil
}

func (e *Engine) ensureTools(ctx context.Context, st *runState) (outcome, error) {
	var missing []toolRequirement
	for _, tool := range e.requiredTools() {
		if _, err := e.lookPath(string(tool.Command)); err == nil {
			continue
		}
		e.logger.Warn("required tool not found on PATH", "command", tool.Command)
		missing = append(missing, tool)
	}
	if len(missing) == 0 {
		return outcome{detail: "all tools present"}, nil
	}

	mgr, err := e.packageManager()
	if err != nil {
		return outcome{}, err
	}
	if err := e.ensureIndex(ctx, st, mgr); err != nil {
		return outcome{}, err
	}
	for _, tool := range missing {
		pkg := e.packageNames.Resolve(tool.Package, syspkg.ManagerType(mgr.Name()))
		e.logger.Info("installing missing tool", "command", tool.Command, "package", pkg, "manager", mgr.Name())
		if err := mgr.Install(ctx, pkg); err != nil {
			return outcome{}, fmt.Errorf("installing %s: %w", pkg, err)
		}
	}
	return outcome{detail: fmt.Sprintf("installed %d missing tool(s)", len(missing))}, nil
}

func (e *Engine) ensureVenvSupport(ctx context.Context, st *runState) (outcome, error) {
	mgr, err := e.packageManager()
	if err != nil {
		return outcome{}, err
	}
	pkg := e.packageNames.Resolve(syspkg.PackageVenvModule, syspkg.ManagerType(mgr.Name()))

	installed, err := mgr.IsPackageInstalled(ctx, pkg)
	if err != nil {
		return outcome{}, fmt.Errorf("checking package %s: %w", pkg, err)
	}
	if installed {
		return outcome{detail: pkg + " already installed"}, nil
	}

	if err := e.ensureIndex(ctx, st, mgr); err != nil {
		return outcome{}, err
	}
	e.logger.Info("installing virtualenv support", "package", pkg, "manager", mgr.Name())
	if err := mgr.Install(ctx, pkg); err != nil {
		return outcome{}, fmt.Errorf("installing %s: %w", pkg, err)
	}
	return outcome{detail: "installed " + pkg}, nil
}

func (e *Engine) acquireSources(ctx context.Context, st *runState) (outcome, error) {
	dest := e.cloneDir()
	if fsops.Exists(dest) {
		// No staleness or content check: whatever sits there is deployed
		// as-is. Cleanup will still delete it at the end of the run.
		st.cloneSkipped = true
		e.logger.Warn("clone directory already exists, skipping fetch", "dir", dest)
		return outcome{skipped: true, detail: fmt.Sprintf("%s already exists", dest)}, nil
	}

	f, err := e.sourceFetcher()
	if err != nil {
		return outcome{}, err
	}
	e.logger.Info("fetching sources", "url", e.cfg.Source.URL, "strategy", f.Name(), "dest", dest)
	if err := f.Fetch(ctx, fetch.FetchOptions{
		URL:  e.cfg.Source.URL,
		Ref:  e.cfg.Source.Ref,
		Dest: dest,
	}); err != nil {
		return outcome{}, err
	}
	return outcome{detail: fmt.Sprintf("fetched into %s", dest)}, nil
}

func (e *Engine) deploy(_ context.Context, st *runState) (outcome, error) {
	dst := e.installDir()
	if err := fsops.EnsureDir(dst); err != nil {
		return outcome{}, fmt.Errorf("creating install dir: %w", err)
	}
	n, err := fsops.CopyTree(e.cloneDir(), dst)
	if err != nil {
		return outcome{}, fmt.Errorf("deploying sources: %w", err)
	}
	st.filesDeployed = n
	e.logger.Info("sources deployed", "files", n, "dir", dst)
	return outcome{detail: fmt.Sprintf("%d file(s) into %s", n, dst)}, nil
}

func (e *Engine) provisionEnv(ctx context.Context, _ *runState) (outcome, error) {
	spec := provision.EnvSpec{
		Interpreter:  e.cfg.Python.Interpreter,
		EnvPath:      e.envPath(),
		ManifestPath: e.manifestPath(),
	}
	e.logger.Info("provisioning environment", "env", spec.EnvPath, "interpreter", spec.Interpreter)
	if err := e.provisioner.Provision(ctx, spec); err != nil {
		return outcome{}, err
	}
	return outcome{detail: "virtualenv ready at " + string(spec.EnvPath)}, nil
}

func (e *Engine) registerLauncher(_ context.Context, _ *runState) (outcome, error) {
	spec := launcher.Spec{
		LauncherPath: e.launcherPath(),
		EnvPath:      e.envPath(),
		Entrypoint:   e.entrypointPath(),
	}
	e.logger.Info("registering launcher", "path", spec.LauncherPath)
	if err := e.registrar.Register(spec); err != nil {
		return outcome{}, err
	}
	return outcome{detail: "launcher at " + string(spec.LauncherPath)}, nil
}

func (e *Engine) writeReceiptStep(_ context.Context, st *runState) (outcome, error) {
	summary, err := receipt.SummarizeManifest(e.manifestPath())
	if err != nil {
		return outcome{}, fmt.Errorf("summarizing manifest: %w", err)
	}
	r := &receipt.Receipt{
		Schema:      receipt.SchemaVersion,
		InstalledAt: e.now(),
		Source: receipt.Source{
			URL:      e.cfg.Source.URL,
			Ref:      e.cfg.Source.Ref,
			Strategy: e.cfg.Source.Strategy,
		},
		Paths: receipt.Paths{
			InstallDir: e.installDir(),
			Launcher:   e.launcherPath(),
			EnvDir:     e.envPath(),
			Entrypoint: e.entrypointPath(),
		},
		Deploy:   receipt.Deploy{FileCount: st.filesDeployed},
		Manifest: summary,
	}
	if err := e.writeReceipt(e.installDir(), r); err != nil {
		return outcome{}, err
	}
	return outcome{detail: "receipt written"}, nil
}

func (e *Engine) cleanup(_ context.Context, st *runState) (outcome, error) {
	dir := e.cloneDir()
	if st.cloneSkipped {
		// The directory predates this run and was never fetched into,
		// yet it is removed all the same. Historical behavior, kept; the
		// warning is the only concession.
		e.logger.Warn("removing clone directory that predates this run", "dir", dir)
	}
	existed, err := fsops.RemoveTree(dir)
	if err != nil {
		return outcome{}, fmt.Errorf("removing clone dir: %w", err)
	}
	if !existed {
		return outcome{detail: "nothing to remove"}, nil
	}
	return outcome{detail: "removed " + string(dir)}, nil
}
