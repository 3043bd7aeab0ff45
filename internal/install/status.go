// SPDX-License-Identifier: MPL-2.0

package install

import (
	"errors"
	"fmt"
	"os"

	"github.com/RockerzXY/pdfiler/internal/fsops"
	"github.com/RockerzXY/pdfiler/internal/receipt"
)

type (
	// StatusReport describes how much of an installation is present on
	// disk. Path probes and the receipt are independent: the receipt can
	// be missing while the files are there, and vice versa.
	StatusReport struct {
		// Receipt is the last recorded install; nil when none was found.
		Receipt *receipt.Receipt
		// ReceiptErr is set when a receipt exists but could not be read.
		ReceiptErr error

		InstallDirPresent bool
		LauncherPresent   bool
		EnvPresent        bool
		EntrypointPresent bool
	}

	// UninstallResult reports what Uninstall removed.
	UninstallResult struct {
		LauncherRemoved   bool
		InstallDirRemoved bool
	}
)

// Installed reports whether the on-disk layout looks complete.
func (s *StatusReport) Installed() bool {
	return s.InstallDirPresent && s.LauncherPresent && s.EnvPresent && s.EntrypointPresent
}

// Status probes the configured paths and loads the receipt if one exists.
// Absence of a receipt is a normal state, not an error; an unreadable
// receipt is surfaced via ReceiptErr so the caller can warn without dying.
func (e *Engine) Status() *StatusReport {
	report := &StatusReport{
		InstallDirPresent: fsops.Exists(e.installDir()),
		LauncherPresent:   fsops.Exists(e.launcherPath()),
		EnvPresent:        fsops.Exists(e.envPath()),
		EntrypointPresent: fsops.Exists(e.entrypointPath()),
	}

	r, err := receipt.Load(e.installDir())
	switch {
	case err == nil:
		report.Receipt = r
	case errors.Is(err, receipt.ErrNoReceipt):
	default:
		report.ReceiptErr = err
	}
	return report
}

// Uninstall removes the launcher and the install directory, receipt
// included. Missing pieces are not an error; the result reports what was
// actually removed.
func (e *Engine) Uninstall() (*UninstallResult, error) {
	res := &UninstallResult{}

	launcherPath := e.launcherPath()
	switch err := os.Remove(string(launcherPath)); {
	case err == nil:
		res.LauncherRemoved = true
		e.logger.Info("launcher removed", "path", launcherPath)
	case errors.Is(err, os.ErrNotExist):
	default:
		return res, fmt.Errorf("removing launcher %s: %w", launcherPath, err)
	}

	removed, err := fsops.RemoveTree(e.installDir())
	if err != nil {
		return res, fmt.Errorf("removing install dir %s: %w", e.installDir(), err)
	}
	res.InstallDirRemoved = removed
	if removed {
		e.logger.Info("install directory removed", "dir", e.installDir())
	}
	return res, nil
}
