// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/RockerzXY/pdfiler/internal/fsops"
	"github.com/RockerzXY/pdfiler/pkg/fspath"
	"github.com/RockerzXY/pdfiler/pkg/types"

	"mvdan.cc/sh/v3/syntax"
)

// ErrRegistrationFailed indicates the launcher script could not be generated
// or written.
var ErrRegistrationFailed = errors.New("launcher registration failed")

type (
	// Spec describes the launcher to register: where the wrapper script
	// lives and what it wraps.
	Spec struct {
		// LauncherPath is the wrapper script destination (e.g.
		// /usr/local/bin/pdfiler).
		LauncherPath types.FilesystemPath
		// EnvPath is the virtualenv root whose activate script the
		// wrapper sources.
		EnvPath types.FilesystemPath
		// Entrypoint is the program file the wrapper execs.
		Entrypoint types.FilesystemPath
	}

	// Registrar writes launcher scripts to their destination.
	Registrar interface {
		Register(spec Spec) error
	}

	// FileRegistrar is the default Registrar. It renders the wrapper,
	// overwrites the launcher path with it, and marks both the launcher
	// and the entrypoint executable.
	FileRegistrar struct{}

	// RegistrationError wraps a failure to register a launcher.
	RegistrationError struct {
		Path  types.FilesystemPath
		Cause error
	}
)

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registering launcher %q: %v", e.Path, e.Cause)
}

func (e *RegistrationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrRegistrationFailed}
	}
	return []error{ErrRegistrationFailed, e.Cause}
}

// NewFileRegistrar creates a FileRegistrar.
func NewFileRegistrar() *FileRegistrar {
	return &FileRegistrar{}
}

// Script renders the wrapper script for spec. Each embedded path is shell
// quoted, and the assembled script must parse as shell before it is returned.
// The trailing `"$@"` under exec is the argument-forwarding contract:
// whatever the user passes to the launcher reaches the entrypoint unchanged.
func Script(spec Spec) (string, error) {
	activate := fspath.JoinStr(spec.EnvPath, "bin", "activate")
	quotedActivate, err := syntax.Quote(string(activate), syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("quoting activate path %q: %w", activate, err)
	}
	quotedEntrypoint, err := syntax.Quote(string(spec.Entrypoint), syntax.LangBash)
	if err != nil {
		return "", fmt.Errorf("quoting entrypoint path %q: %w", spec.Entrypoint, err)
	}

	var b strings.Builder
	b.WriteString("#!/usr/bin/env bash\n")
	fmt.Fprintf(&b, ". %s\n", quotedActivate)
	fmt.Fprintf(&b, "exec python %s \"$@\"\n", quotedEntrypoint)
	script := b.String()

	if _, err := syntax.NewParser().Parse(strings.NewReader(script), "launcher"); err != nil {
		return "", fmt.Errorf("launcher script syntax error: %w", err)
	}
	return script, nil
}

// Register implements Registrar.
func (r *FileRegistrar) Register(spec Spec) error {
	script, err := Script(spec)
	if err != nil {
		return &RegistrationError{Path: spec.LauncherPath, Cause: err}
	}

	if err := fsops.EnsureDir(fspath.Dir(spec.LauncherPath)); err != nil {
		return &RegistrationError{Path: spec.LauncherPath, Cause: err}
	}

	// An existing launcher keeps its old mode through WriteFile, hence the
	// explicit chmod afterwards.
	if err := os.WriteFile(string(spec.LauncherPath), []byte(script), 0o755); err != nil {
		return &RegistrationError{Path: spec.LauncherPath, Cause: err}
	}
	if err := fsops.MarkExecutable(spec.LauncherPath); err != nil {
		return &RegistrationError{Path: spec.LauncherPath, Cause: err}
	}
	if err := fsops.MarkExecutable(spec.Entrypoint); err != nil {
		return &RegistrationError{Path: spec.LauncherPath, Cause: err}
	}
	return nil
}
