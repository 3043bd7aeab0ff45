// SPDX-License-Identifier: MPL-2.0

// Command pdfiler-setup installs and manages the pdfiler PDF tool.
//
// The bare command runs a full installation: it ensures the required tools
// are present, fetches the pdfiler sources, deploys them system-wide,
// provisions an isolated Python environment, and registers a launcher.
// Subcommands inspect the plan, report installation status, uninstall, and
// manage configuration.
package main
