// SPDX-License-Identifier: MPL-2.0

// Package fetch acquires the application sources. Three interchangeable
// strategies implement the Fetcher interface: the system git CLI (default),
// an in-process go-git clone, and a tarball snapshot download. A Registry
// maps configured strategy names to constructed fetchers.
//
// Fetchers only ever materialize a source tree at a destination path.
// Whether to fetch at all (the destination may already exist from an
// earlier run) is the install engine's decision.
package fetch
