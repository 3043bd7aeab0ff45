// SPDX-License-Identifier: MPL-2.0

// Package receipt records what an installation run produced.
//
// A receipt is a small TOML file written into the install directory after a
// successful run. It captures where the sources came from, where everything
// landed, and a digest of the dependency manifest, so a later status or
// uninstall command can reason about the installation without guessing.
package receipt
