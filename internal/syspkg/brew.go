// SPDX-License-Identifier: MPL-2.0

package syspkg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// BrewManager implements the Manager interface using the Homebrew CLI.
// It embeds BaseCLIManager for common CLI operations.
type BrewManager struct {
	*BaseCLIManager
}

// NewBrewManager creates a new Homebrew manager.
func NewBrewManager(opts ...BaseCLIManagerOption) *BrewManager {
	path, _ := exec.LookPath("brew")
	allOpts := append([]BaseCLIManagerOption{WithName(string(ManagerBrew))}, opts...)
	return &BrewManager{
		BaseCLIManager: NewBaseCLIManager(path, allOpts...),
	}
}

// Available checks if brew is available.
func (m *BrewManager) Available() bool {
	if m.BinaryPath() == "" {
		return false
	}
	cmd := m.CreateCommand(context.Background(), "--version")
	return cmd.Run() == nil
}

// UpdateIndex refreshes the Homebrew formulae.
func (m *BrewManager) UpdateIndex(ctx context.Context) error {
	out, err := m.RunCommandCombined(ctx, "update")
	if err != nil {
		return commandOutputError("update Homebrew formulae", out, err)
	}
	return nil
}

// Install installs packages. Homebrew never prompts, so no -y flag exists.
func (m *BrewManager) Install(ctx context.Context, pkgs ...string) error {
	args := append([]string{"install"}, pkgs...)
	out, err := m.RunCommandCombined(ctx, args...)
	if err != nil {
		return commandOutputError("install "+strings.Join(pkgs, " "), out, err)
	}
	return nil
}

// IsPackageInstalled checks the list of installed formulae.
// brew list --versions exits zero with version output only for installed
// formulae.
func (m *BrewManager) IsPackageInstalled(ctx context.Context, pkg string) (bool, error) {
	out, err := m.RunCommandWithOutput(ctx, "list", "--versions", pkg)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, fmt.Errorf("failed to query formula %s: %w", pkg, err)
	}
	return strings.TrimSpace(out) != "", nil
}
