// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"testing"
)

var errNotFound = errors.New("file not found")

func TestDetectSandboxFrom(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		env      map[string]string
		files    map[string]bool
		expected SandboxType
	}{
		{
			name:     "no sandbox",
			env:      map[string]string{},
			files:    map[string]bool{},
			expected: SandboxNone,
		},
		{
			name:     "flatpak via info file",
			env:      map[string]string{},
			files:    map[string]bool{"/.flatpak-info": true},
			expected: SandboxFlatpak,
		},
		{
			name:     "snap via env",
			env:      map[string]string{"SNAP_NAME": "test-snap"},
			files:    map[string]bool{},
			expected: SandboxSnap,
		},
		{
			name:     "flatpak takes precedence over snap",
			env:      map[string]string{"SNAP_NAME": "test-snap"},
			files:    map[string]bool{"/.flatpak-info": true},
			expected: SandboxFlatpak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			lookupEnv := func(key string) string { return tt.env[key] }
			stat := func(path string) error {
				if tt.files[path] {
					return nil
				}
				return errNotFound
			}

			got := detectSandboxFrom(lookupEnv, stat)
			if got != tt.expected {
				t.Errorf("detectSandboxFrom() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSpawnCommandFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sandbox  SandboxType
		expected string
	}{
		{name: "no sandbox", sandbox: SandboxNone, expected: ""},
		{name: "flatpak", sandbox: SandboxFlatpak, expected: "flatpak-spawn"},
		{name: "snap", sandbox: SandboxSnap, expected: "snap"},
		{name: "unknown", sandbox: SandboxType("bogus"), expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SpawnCommandFor(tt.sandbox); got != tt.expected {
				t.Errorf("SpawnCommandFor(%q) = %q, want %q", tt.sandbox, got, tt.expected)
			}
		})
	}
}

func TestSpawnArgsFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sandbox  SandboxType
		expected []string
	}{
		{name: "no sandbox", sandbox: SandboxNone, expected: nil},
		{name: "flatpak", sandbox: SandboxFlatpak, expected: []string{"--host"}},
		{name: "snap", sandbox: SandboxSnap, expected: []string{"run", "--shell"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := SpawnArgsFor(tt.sandbox)
			if len(got) != len(tt.expected) {
				t.Fatalf("SpawnArgsFor(%q) = %v, want %v", tt.sandbox, got, tt.expected)
			}
			for i, v := range got {
				if v != tt.expected[i] {
					t.Errorf("SpawnArgsFor(%q)[%d] = %q, want %q", tt.sandbox, i, v, tt.expected[i])
				}
			}
		})
	}
}

func TestDetectSandboxCaching(t *testing.T) {
	// DetectSandbox caches process-wide, so two calls must agree regardless
	// of environment changes in between.
	first := DetectSandbox()
	t.Setenv("SNAP_NAME", "test-snap")
	second := DetectSandbox()

	if first != second {
		t.Errorf("DetectSandbox should return cached result: first=%q, second=%q", first, second)
	}

	if IsInSandbox() != (first != SandboxNone) {
		t.Error("IsInSandbox inconsistent with DetectSandbox")
	}
}
