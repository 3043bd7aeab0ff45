// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/RockerzXY/pdfiler/pkg/fspath"
	"github.com/RockerzXY/pdfiler/pkg/types"
)

var (
	// ErrManifestMissing is the sentinel error wrapped by ManifestMissingError.
	ErrManifestMissing = errors.New("dependency manifest missing")

	// ErrProvisionFailed is the sentinel error wrapped by ProvisionFailureError.
	ErrProvisionFailed = errors.New("environment provisioning failed")
)

// Compile-time interface check
var _ Provisioner = (*EnvProvisioner)(nil)

type (
	// Provisioner prepares the Python runtime environment of an
	// installation.
	Provisioner interface {
		// Provision creates the virtual environment and installs the
		// dependency manifest into it.
		Provision(ctx context.Context, spec EnvSpec) error
	}

	// EnvSpec describes one environment to provision. All paths are
	// resolved by the caller; the provisioner only derives the
	// environment's own interpreter from EnvPath.
	EnvSpec struct {
		// Interpreter is the Python command used to create the virtualenv.
		Interpreter types.CommandName
		// EnvPath is the virtual environment directory, e.g.
		// /usr/local/pdfiler/pdfiler_env.
		EnvPath types.FilesystemPath
		// ManifestPath is the requirements file handed to pip, e.g.
		// /usr/local/pdfiler/requirements.txt.
		ManifestPath types.FilesystemPath
	}

	// ManifestMissingError is returned when the dependency manifest does
	// not exist at the expected path. The run aborts before any subprocess
	// starts, so no half-built environment is left behind by this error.
	ManifestMissingError struct {
		Path types.FilesystemPath
	}

	// ProvisionFailureError is returned when one of the provisioning
	// subprocesses fails. Output carries the tool's combined stdout and
	// stderr; pip failures are diagnosed from pip's own output.
	ProvisionFailureError struct {
		// Stage names the step that failed: "create environment",
		// "upgrade pip", or "install requirements".
		Stage string
		// Output is the trimmed combined output, empty when none.
		Output string
		// Cause is the underlying error.
		Cause error
	}

	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// Tests substitute it to intercept subprocess execution.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// EnvProvisioner implements Provisioner with subprocess calls to the
	// configured interpreter and the environment's pip.
	EnvProvisioner struct {
		execCommand ExecCommandFunc
	}

	// EnvProvisionerOption configures an EnvProvisioner during construction.
	EnvProvisionerOption func(*EnvProvisioner)
)

// Error implements the error interface for ManifestMissingError.
func (e *ManifestMissingError) Error() string {
	return fmt.Sprintf("dependency manifest not found at %s", e.Path)
}

// Unwrap returns ErrManifestMissing for errors.Is() compatibility.
func (e *ManifestMissingError) Unwrap() error { return ErrManifestMissing }

// Error implements the error interface for ProvisionFailureError.
func (e *ProvisionFailureError) Error() string {
	msg := fmt.Sprintf("failed to %s: %v", e.Stage, e.Cause)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

// Unwrap returns both the classification sentinel and the underlying cause,
// so errors.Is matches ErrProvisionFailed as well as e.g. context.Canceled.
func (e *ProvisionFailureError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrProvisionFailed}
	}
	return []error{ErrProvisionFailed, e.Cause}
}

// WithExecCommand overrides how subprocesses are created, for tests.
func WithExecCommand(fn ExecCommandFunc) EnvProvisionerOption {
	return func(p *EnvProvisioner) {
		p.execCommand = fn
	}
}

// NewEnvProvisioner creates an environment provisioner.
func NewEnvProvisioner(opts ...EnvProvisionerOption) *EnvProvisioner {
	p := &EnvProvisioner{
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// EnvPython returns the path of the environment's own interpreter. pip is
// always invoked through it ("python -m pip") so packages land inside the
// environment no matter what the shell's PATH says.
func EnvPython(envPath types.FilesystemPath) types.FilesystemPath {
	return fspath.JoinStr(envPath, "bin", "python")
}

// Provision creates the virtual environment, upgrades pip inside it, and
// installs the dependency manifest. The manifest is checked first; a
// missing manifest aborts before any subprocess runs.
func (p *EnvProvisioner) Provision(ctx context.Context, spec EnvSpec) error {
	if _, err := os.Stat(string(spec.ManifestPath)); err != nil {
		if os.IsNotExist(err) {
			return &ManifestMissingError{Path: spec.ManifestPath}
		}
		return fmt.Errorf("failed to stat manifest %s: %w", spec.ManifestPath, err)
	}

	if err := p.run(ctx, "create environment",
		string(spec.Interpreter), "-m", "venv", string(spec.EnvPath)); err != nil {
		return err
	}

	envPython := string(EnvPython(spec.EnvPath))

	if err := p.run(ctx, "upgrade pip",
		envPython, "-m", "pip", "install", "--upgrade", "pip"); err != nil {
		return err
	}

	if err := p.run(ctx, "install requirements",
		envPython, "-m", "pip", "install", "-r", string(spec.ManifestPath)); err != nil {
		return err
	}

	return nil
}

// run executes one provisioning subprocess with combined output captured.
func (p *EnvProvisioner) run(ctx context.Context, stage, name string, args ...string) error {
	cmd := p.execCommand(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return &ProvisionFailureError{
			Stage:  stage,
			Output: strings.TrimSpace(out.String()),
			Cause:  err,
		}
	}
	return nil
}
