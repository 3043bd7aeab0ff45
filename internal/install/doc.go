// SPDX-License-Identifier: MPL-2.0

// Package install runs the installation sequence for the pdfiler application.
//
// The Engine executes an ordered list of steps: ensure the required tools
// and the virtualenv support package are present, fetch the application
// sources, deploy them into the install directory, provision the Python
// environment, register the launcher, record a receipt, and remove the
// staging clone directory. Step order is computed from each step's declared
// prerequisites via topological sort, so the plan command and the runner
// share one source of truth.
//
// A run is strictly sequential and fail-fast: the first failing step aborts
// the run, later steps never execute, and nothing is rolled back. A
// half-populated install directory after a failure is the documented
// contract, not an accident.
//
// All collaborators (package manager, fetcher, provisioner, launcher
// registrar, receipt writer, reporter, logger) are injected, so tests can
// redirect every path into temporary roots.
package install
