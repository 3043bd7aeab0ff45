// SPDX-License-Identifier: MPL-2.0

package syspkg

import (
	"context"
	"fmt"
	"runtime"

	"github.com/RockerzXY/pdfiler/pkg/platform"
)

// Manager defines the interface for system package manager operations
type Manager interface {
	// Name returns the manager name (apt-get, dnf, or brew)
	Name() string
	// Available checks if the manager is usable on this system
	Available() bool
	// UpdateIndex refreshes the package index before installing tools
	UpdateIndex(ctx context.Context) error
	// Install installs one or more packages
	Install(ctx context.Context, pkgs ...string) error
	// IsPackageInstalled consults the installed-package database
	IsPackageInstalled(ctx context.Context, pkg string) (bool, error)
}

// ManagerType identifies the package manager type
type ManagerType string

const (
	ManagerAptGet ManagerType = "apt-get"
	ManagerDnf    ManagerType = "dnf"
	ManagerBrew   ManagerType = "brew"
)

// ErrManagerNotAvailable is returned when a package manager is not available
type ErrManagerNotAvailable struct {
	Manager string
	Reason  string
}

func (e *ErrManagerNotAvailable) Error() string {
	return fmt.Sprintf("package manager '%s' is not available: %s", e.Manager, e.Reason)
}

// NewManager creates a package manager based on preference.
// When the preferred manager is unavailable, the remaining managers are
// probed in platform detection order.
func NewManager(preferredType ManagerType) (Manager, error) {
	var preferred Manager
	switch preferredType {
	case ManagerAptGet:
		preferred = NewAptGetManager()
	case ManagerDnf:
		preferred = NewDnfManager()
	case ManagerBrew:
		preferred = NewBrewManager()
	default:
		return nil, fmt.Errorf("unknown package manager type: %s", preferredType)
	}

	if preferred.Available() {
		return preferred, nil
	}

	for _, m := range detectionOrder() {
		if m.Name() == preferred.Name() {
			continue
		}
		if m.Available() {
			return m, nil
		}
	}

	return nil, &ErrManagerNotAvailable{
		Manager: string(preferredType),
		Reason:  fmt.Sprintf("%s is not installed or not accessible, and no fallback manager is available", preferredType),
	}
}

// AutoDetectManager tries to find an available package manager
func AutoDetectManager() (Manager, error) {
	for _, m := range detectionOrder() {
		if m.Available() {
			return m, nil
		}
	}

	return nil, &ErrManagerNotAvailable{
		Manager: "any",
		Reason:  "no package manager (apt-get, dnf, or brew) is available on this system",
	}
}

// detectionOrder returns candidate managers, most likely first for the
// current platform.
func detectionOrder() []Manager {
	if runtime.GOOS == platform.Darwin {
		return []Manager{NewBrewManager(), NewAptGetManager(), NewDnfManager()}
	}
	return []Manager{NewAptGetManager(), NewDnfManager(), NewBrewManager()}
}
