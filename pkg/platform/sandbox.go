// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

// SandboxType identifies the application sandbox the process runs in, if any.
// System package managers live on the host, so a sandboxed setup binary has
// to route apt-get/dnf/brew invocations through the sandbox's host-spawn
// mechanism instead of executing them directly.
type SandboxType string

const (
	// SandboxNone indicates no sandbox environment detected.
	SandboxNone SandboxType = ""
	// SandboxFlatpak indicates a Flatpak sandbox environment.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap indicates a Snap sandbox environment.
	SandboxSnap SandboxType = "snap"
)

// detectOnce caches the detection result for the process lifetime; the
// sandbox cannot change while the installer runs.
//
// INVARIANT: detectSandboxFrom must not panic. sync.OnceValue re-propagates
// a panic on every subsequent call, which would turn one bad lookup into a
// permanent crash.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// DetectSandbox returns the sandbox the current process runs in. The first
// call probes the environment; later calls return the cached result.
//
// Flatpak is recognized by the /.flatpak-info file, Snap by the SNAP_NAME
// environment variable.
func DetectSandbox() SandboxType {
	return detectOnce()
}

// IsInSandbox reports whether the current process runs inside a sandbox.
func IsInSandbox() bool {
	return DetectSandbox() != SandboxNone
}

// SpawnCommandFor returns the host-spawn command for a sandbox type, or ""
// when commands can run directly. Pure so tests can cover every type without
// touching the cached detection state.
func SpawnCommandFor(st SandboxType) string {
	switch st {
	case SandboxFlatpak:
		return "flatpak-spawn"
	case SandboxSnap:
		return "snap"
	default:
		return ""
	}
}

// SpawnArgsFor returns the arguments that precede the real command when
// spawning on the host: ["--host"] for Flatpak, ["run", "--shell"] for Snap,
// nil otherwise.
func SpawnArgsFor(st SandboxType) []string {
	switch st {
	case SandboxFlatpak:
		return []string{"--host"}
	case SandboxSnap:
		return []string{"run", "--shell"}
	default:
		return nil
	}
}

// detectSandboxFrom performs the actual probes. The env and stat lookups are
// parameters so tests can drive both branches without creating files or
// mutating the process environment.
func detectSandboxFrom(lookupEnv func(string) string, statFile func(string) error) SandboxType {
	// Flatpak wins when both markers are present; /.flatpak-info exists in
	// every Flatpak sandbox.
	if err := statFile("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}
	if lookupEnv("SNAP_NAME") != "" {
		return SandboxSnap
	}
	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
