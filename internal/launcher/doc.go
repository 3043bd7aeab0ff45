// SPDX-License-Identifier: MPL-2.0

// Package launcher generates and registers the wrapper script that makes an
// installed application invocable by name.
//
// The wrapper activates the application's virtualenv and execs the
// entrypoint, forwarding all arguments. Script generation shell-quotes every
// embedded path and parse-validates the result before anything touches disk,
// so a quoting bug surfaces as an install-time error rather than a broken
// executable on PATH.
package launcher
