// SPDX-License-Identifier: MPL-2.0

package syspkg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// dpkgQueryBinary is the Debian package database query tool. It is resolved
// from PATH at run time; its presence is implied by apt-get's.
const dpkgQueryBinary = "dpkg-query"

// AptGetManager implements the Manager interface using the apt-get CLI.
// It embeds BaseCLIManager for common CLI operations.
type AptGetManager struct {
	*BaseCLIManager
}

// NewAptGetManager creates a new apt-get manager.
func NewAptGetManager(opts ...BaseCLIManagerOption) *AptGetManager {
	path, _ := exec.LookPath("apt-get")
	allOpts := append([]BaseCLIManagerOption{WithName(string(ManagerAptGet))}, opts...)
	return &AptGetManager{
		BaseCLIManager: NewBaseCLIManager(path, allOpts...),
	}
}

// Available checks if apt-get is available.
func (m *AptGetManager) Available() bool {
	if m.BinaryPath() == "" {
		return false
	}
	cmd := m.CreateCommand(context.Background(), "--version")
	return cmd.Run() == nil
}

// UpdateIndex refreshes the apt package index.
func (m *AptGetManager) UpdateIndex(ctx context.Context) error {
	out, err := m.RunCommandCombined(ctx, "update")
	if err != nil {
		return commandOutputError("update apt package index", out, err)
	}
	return nil
}

// Install installs packages non-interactively.
func (m *AptGetManager) Install(ctx context.Context, pkgs ...string) error {
	args := append([]string{"install", "-y"}, pkgs...)
	out, err := m.RunCommandCombined(ctx, args...)
	if err != nil {
		return commandOutputError("install "+strings.Join(pkgs, " "), out, err)
	}
	return nil
}

// IsPackageInstalled checks the dpkg database for an installed package.
// dpkg-query reports a status line; only "install ok installed" counts,
// because removed-but-not-purged packages still have a status entry.
func (m *AptGetManager) IsPackageInstalled(ctx context.Context, pkg string) (bool, error) {
	cmd := m.CreateCommandFor(ctx, dpkgQueryBinary, "-W", "-f=${Status}", pkg)
	out, err := cmd.Output()
	if err != nil {
		// dpkg-query exits non-zero for unknown packages.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("failed to query package %s: %w", pkg, err)
	}
	return strings.Contains(string(out), "install ok installed"), nil
}
