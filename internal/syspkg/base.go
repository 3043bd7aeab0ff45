// SPDX-License-Identifier: MPL-2.0

package syspkg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/RockerzXY/pdfiler/pkg/platform"
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// BaseCLIManagerOption configures a BaseCLIManager.
	BaseCLIManagerOption func(*BaseCLIManager)

	// BaseCLIManager provides common implementation for CLI-based package
	// managers. AptGet, Dnf, and Brew managers embed this struct. Commands
	// are routed through the sandbox host-spawn mechanism when the process
	// runs inside Flatpak or Snap, because the package manager lives on the
	// host, not inside the sandbox.
	BaseCLIManager struct {
		name        string // Manager name for error messages (e.g., "apt-get", "dnf")
		binaryPath  string // Resolved at construction via exec.LookPath
		execCommand ExecCommandFunc
		sandbox     platform.SandboxType
	}
)

// --- Option Functions ---

// WithName sets the manager name used in error messages.
func WithName(name string) BaseCLIManagerOption {
	return func(m *BaseCLIManager) {
		m.name = name
	}
}

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) BaseCLIManagerOption {
	return func(m *BaseCLIManager) {
		m.execCommand = fn
	}
}

// WithSandboxType overrides the detected sandbox type for testing.
func WithSandboxType(st platform.SandboxType) BaseCLIManagerOption {
	return func(m *BaseCLIManager) {
		m.sandbox = st
	}
}

// --- Constructor ---

// NewBaseCLIManager creates a new base manager with the given binary path.
func NewBaseCLIManager(binaryPath string, opts ...BaseCLIManagerOption) *BaseCLIManager {
	m := &BaseCLIManager{
		binaryPath:  binaryPath,
		execCommand: exec.CommandContext,
		sandbox:     platform.DetectSandbox(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// --- Accessor Methods ---

// Name returns the manager name used in error messages.
func (m *BaseCLIManager) Name() string {
	return m.name
}

// BinaryPath returns the path to the package manager binary.
func (m *BaseCLIManager) BinaryPath() string {
	return m.binaryPath
}

// --- Command Execution ---

// CreateCommand creates an exec.Cmd invoking the manager's own binary.
func (m *BaseCLIManager) CreateCommand(ctx context.Context, args ...string) *exec.Cmd {
	return m.CreateCommandFor(ctx, m.binaryPath, args...)
}

// CreateCommandFor creates an exec.Cmd for an arbitrary binary, applying the
// sandbox host-spawn prefix when needed. Query tools that ship alongside a
// manager (dpkg-query, rpm) go through this so they run on the host too.
func (m *BaseCLIManager) CreateCommandFor(ctx context.Context, binary string, args ...string) *exec.Cmd {
	if m.sandbox == platform.SandboxNone {
		return m.execCommand(ctx, binary, args...)
	}

	spawnCmd := platform.SpawnCommandFor(m.sandbox)
	spawnArgs := platform.SpawnArgsFor(m.sandbox)

	full := make([]string, 0, len(spawnArgs)+1+len(args))
	full = append(full, spawnArgs...)
	full = append(full, binary)
	full = append(full, args...)

	return m.execCommand(ctx, spawnCmd, full...)
}

// RunCommandStatus executes a command and returns only the error status.
func (m *BaseCLIManager) RunCommandStatus(ctx context.Context, args ...string) error {
	cmd := m.CreateCommand(ctx, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("command %s %v failed: %w", m.binaryPath, args, err)
	}
	return nil
}

// RunCommandCombined executes a command and returns combined stdout/stderr.
func (m *BaseCLIManager) RunCommandCombined(ctx context.Context, args ...string) ([]byte, error) {
	cmd := m.CreateCommand(ctx, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("command %s %v failed: %w", m.binaryPath, args, err)
	}
	return out, nil
}

// RunCommandWithOutput executes a command with stdout captured to a buffer.
func (m *BaseCLIManager) RunCommandWithOutput(ctx context.Context, args ...string) (string, error) {
	cmd := m.CreateCommand(ctx, args...)
	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("command %s %v failed: %w", m.binaryPath, args, err)
	}

	return out.String(), nil
}

// commandOutputError attaches trimmed command output to an execution error.
// Package manager failures are diagnosed from the tool's own output, so the
// tail matters more than the Go-side error string.
func commandOutputError(action string, out []byte, err error) error {
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return fmt.Errorf("failed to %s: %w: %s", action, err, msg)
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}
