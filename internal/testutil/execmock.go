// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"testing"
)

type (
	// MockCommandRecorder captures arguments passed to exec.Command for verification.
	// It uses the TestHelperProcess pattern to simulate command execution.
	//
	// Packages with an execCommand seam swap it for CommandFunc/ContextCommandFunc
	// and declare a one-line TestHelperProcess in their own test file:
	//
	//	func TestHelperProcess(t *testing.T) { testutil.HelperProcess() }
	MockCommandRecorder struct {
		// Invocations records each call to the mock exec.Command
		Invocations []MockInvocation
		// ExitCode is the exit code to return (0 = success)
		ExitCode int
		// Stdout is the output to write to stdout
		Stdout string
		// Stderr is the output to write to stderr
		Stderr string
		// Rules override the default outcome for matching invocations.
		// The first rule whose Match is a substring of "name arg1 arg2 ..."
		// wins. A sequenced command mix (index probe, install, version check)
		// needs per-command outcomes, which the global fields cannot express.
		Rules []MockRule
	}

	// MockRule configures the outcome for invocations matching a substring
	// of the full command line.
	MockRule struct {
		Match    string
		ExitCode int
		Stdout   string
		Stderr   string
	}

	// MockInvocation represents a single invocation of exec.Command.
	MockInvocation struct {
		// Name is the command name (e.g., "apt-get", "python3")
		Name string
		// Args are the arguments passed to the command
		Args []string
	}
)

// NewMockCommandRecorder creates a new recorder with default settings (success, no output).
func NewMockCommandRecorder() *MockCommandRecorder {
	return &MockCommandRecorder{
		Invocations: make([]MockInvocation, 0),
		ExitCode:    0,
	}
}

// CommandFunc returns a function that can replace an execCommand seam for testing.
// The function records invocations and returns a command that runs TestHelperProcess.
func (m *MockCommandRecorder) CommandFunc(t *testing.T) func(name string, args ...string) *exec.Cmd {
	t.Helper()
	return func(name string, args ...string) *exec.Cmd {
		m.Invocations = append(m.Invocations, MockInvocation{
			Name: name,
			Args: args,
		})

		exitCode, stdout, stderr := m.outcomeFor(name, args)

		// Build a helper process command that will return the configured output
		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, args...)
		cmd := exec.Command(os.Args[0], cs...)
		cmd.Env = []string{
			"GO_WANT_HELPER_PROCESS=1",
			fmt.Sprintf("GO_HELPER_EXIT_CODE=%d", exitCode),
			fmt.Sprintf("GO_HELPER_STDOUT=%s", stdout),
			fmt.Sprintf("GO_HELPER_STDERR=%s", stderr),
		}
		return cmd
	}
}

// ContextCommandFunc returns a function that can replace an execCommandContext seam for testing.
func (m *MockCommandRecorder) ContextCommandFunc(t *testing.T) func(ctx context.Context, name string, args ...string) *exec.Cmd {
	t.Helper()
	cmdFunc := m.CommandFunc(t)
	return func(_ context.Context, name string, args ...string) *exec.Cmd {
		return cmdFunc(name, args...)
	}
}

// outcomeFor resolves the exit code and output for an invocation, consulting
// Rules before the global defaults.
func (m *MockCommandRecorder) outcomeFor(name string, args []string) (int, string, string) {
	line := name
	if len(args) > 0 {
		line += " " + strings.Join(args, " ")
	}
	for _, r := range m.Rules {
		if strings.Contains(line, r.Match) {
			return r.ExitCode, r.Stdout, r.Stderr
		}
	}
	return m.ExitCode, m.Stdout, m.Stderr
}

// LastInvocation returns the most recent invocation, or nil if none.
func (m *MockCommandRecorder) LastInvocation() *MockInvocation {
	if len(m.Invocations) == 0 {
		return nil
	}
	return &m.Invocations[len(m.Invocations)-1]
}

// LastArgs returns the arguments from the most recent invocation.
func (m *MockCommandRecorder) LastArgs() []string {
	if inv := m.LastInvocation(); inv != nil {
		return inv.Args
	}
	return nil
}

// AssertCommandName verifies the last command name matches.
func (m *MockCommandRecorder) AssertCommandName(t *testing.T, expected string) {
	t.Helper()
	if inv := m.LastInvocation(); inv == nil {
		t.Errorf("expected command %q but no commands were invoked", expected)
	} else if inv.Name != expected {
		t.Errorf("expected command %q, got %q", expected, inv.Name)
	}
}

// AssertArgsContain verifies that the last invocation args contain the expected string.
func (m *MockCommandRecorder) AssertArgsContain(t *testing.T, expected string) {
	t.Helper()
	args := m.LastArgs()
	argsStr := strings.Join(args, " ")
	if !strings.Contains(argsStr, expected) {
		t.Errorf("expected args to contain %q, got: %v", expected, args)
	}
}

// AssertArgsContainAll verifies that the last invocation args contain all expected strings.
func (m *MockCommandRecorder) AssertArgsContainAll(t *testing.T, expected []string) {
	t.Helper()
	args := m.LastArgs()
	argsStr := strings.Join(args, " ")
	for _, exp := range expected {
		if !strings.Contains(argsStr, exp) {
			t.Errorf("expected args to contain %q, got: %v", exp, args)
		}
	}
}

// AssertArgsNotContain verifies that the last invocation args do NOT contain the expected string.
func (m *MockCommandRecorder) AssertArgsNotContain(t *testing.T, unexpected string) {
	t.Helper()
	args := m.LastArgs()
	argsStr := strings.Join(args, " ")
	if strings.Contains(argsStr, unexpected) {
		t.Errorf("expected args to NOT contain %q, got: %v", unexpected, args)
	}
}

// AssertFirstArg verifies the first argument (subcommand) matches.
func (m *MockCommandRecorder) AssertFirstArg(t *testing.T, expected string) {
	t.Helper()
	args := m.LastArgs()
	if len(args) == 0 {
		t.Errorf("expected first arg %q but args are empty", expected)
		return
	}
	if args[0] != expected {
		t.Errorf("expected first arg %q, got %q", expected, args[0])
	}
}

// AssertInvocationCount verifies the number of command invocations.
func (m *MockCommandRecorder) AssertInvocationCount(t *testing.T, expected int) {
	t.Helper()
	if len(m.Invocations) != expected {
		t.Errorf("expected %d invocations, got %d", expected, len(m.Invocations))
	}
}

// HasArg checks if the last invocation contains a specific argument.
func (m *MockCommandRecorder) HasArg(arg string) bool {
	return slices.Contains(m.LastArgs(), arg)
}

// HasArgPair checks if the last invocation contains a flag-value pair (e.g., "-r", "requirements.txt").
func (m *MockCommandRecorder) HasArgPair(flag, value string) bool {
	args := m.LastArgs()
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

// Reset clears all recorded invocations.
func (m *MockCommandRecorder) Reset() {
	m.Invocations = m.Invocations[:0]
}

// HelperProcess simulates command execution inside the re-executed test
// binary. It reads configuration from environment variables and outputs
// accordingly, then exits the process. Call it from a package-level
// TestHelperProcess; it returns immediately when the helper env marker is
// absent (i.e., during a normal test run).
func HelperProcess() {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	if stdout := os.Getenv("GO_HELPER_STDOUT"); stdout != "" {
		fmt.Fprint(os.Stdout, stdout)
	}
	if stderr := os.Getenv("GO_HELPER_STDERR"); stderr != "" {
		fmt.Fprint(os.Stderr, stderr)
	}

	exitCode := 0
	if code := os.Getenv("GO_HELPER_EXIT_CODE"); code != "" {
		fmt.Sscanf(code, "%d", &exitCode)
	}

	os.Exit(exitCode)
}
