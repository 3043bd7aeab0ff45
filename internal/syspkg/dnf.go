// SPDX-License-Identifier: MPL-2.0

package syspkg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// rpmBinary is the RPM database query tool. Resolved from PATH at run time;
// its presence is implied by dnf's.
const rpmBinary = "rpm"

// DnfManager implements the Manager interface using the dnf CLI.
// It embeds BaseCLIManager for common CLI operations.
type DnfManager struct {
	*BaseCLIManager
}

// NewDnfManager creates a new dnf manager.
func NewDnfManager(opts ...BaseCLIManagerOption) *DnfManager {
	path, _ := exec.LookPath("dnf")
	allOpts := append([]BaseCLIManagerOption{WithName(string(ManagerDnf))}, opts...)
	return &DnfManager{
		BaseCLIManager: NewBaseCLIManager(path, allOpts...),
	}
}

// Available checks if dnf is available.
func (m *DnfManager) Available() bool {
	if m.BinaryPath() == "" {
		return false
	}
	cmd := m.CreateCommand(context.Background(), "--version")
	return cmd.Run() == nil
}

// UpdateIndex refreshes the dnf metadata cache.
func (m *DnfManager) UpdateIndex(ctx context.Context) error {
	out, err := m.RunCommandCombined(ctx, "makecache")
	if err != nil {
		return commandOutputError("refresh dnf metadata cache", out, err)
	}
	return nil
}

// Install installs packages non-interactively.
func (m *DnfManager) Install(ctx context.Context, pkgs ...string) error {
	args := append([]string{"install", "-y"}, pkgs...)
	out, err := m.RunCommandCombined(ctx, args...)
	if err != nil {
		return commandOutputError("install "+strings.Join(pkgs, " "), out, err)
	}
	return nil
}

// IsPackageInstalled checks the RPM database for an installed package.
// rpm -q exits zero only when the package is installed.
func (m *DnfManager) IsPackageInstalled(ctx context.Context, pkg string) (bool, error) {
	cmd := m.CreateCommandFor(ctx, rpmBinary, "-q", pkg)
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("failed to query package %s: %w", pkg, err)
	}
	return true, nil
}
