// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"
)

// Compile-time interface check
var _ Fetcher = (*GitCLIFetcher)(nil)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// Tests substitute it to intercept subprocess execution.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// GitCLIFetcher clones the repository with the system git binary. This
	// is the default strategy: it honors the user's git configuration
	// (credentials, proxies) and is the reason git is a tool dependency of
	// the installer.
	GitCLIFetcher struct {
		binary      string
		execCommand ExecCommandFunc
	}

	// GitCLIOption configures a GitCLIFetcher during construction.
	GitCLIOption func(*GitCLIFetcher)
)

// WithGitBinary overrides the git binary name or path.
func WithGitBinary(binary string) GitCLIOption {
	return func(f *GitCLIFetcher) {
		f.binary = binary
	}
}

// WithGitExecCommand overrides how subprocesses are created, for tests.
func WithGitExecCommand(fn ExecCommandFunc) GitCLIOption {
	return func(f *GitCLIFetcher) {
		f.execCommand = fn
	}
}

// NewGitCLIFetcher creates a git CLI fetcher.
func NewGitCLIFetcher(opts ...GitCLIOption) *GitCLIFetcher {
	f := &GitCLIFetcher{
		binary:      "git",
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the strategy name.
func (f *GitCLIFetcher) Name() string { return "git" }

// Fetch runs "git clone [--depth N] [--branch ref] URL dest". Git's own
// stderr is captured into the returned error; clone failures are diagnosed
// from git's output, not from the exit status.
func (f *GitCLIFetcher) Fetch(ctx context.Context, opts FetchOptions) error {
	args := []string{"clone"}
	if opts.Depth > 0 {
		args = append(args, "--depth", strconv.Itoa(opts.Depth))
	}
	if opts.Ref != "" {
		args = append(args, "--branch", string(opts.Ref))
	}
	args = append(args, string(opts.URL), string(opts.Dest))

	cmd := f.execCommand(ctx, f.binary, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return &FetchFailureError{
			Strategy: f.Name(),
			URL:      opts.URL,
			Output:   strings.TrimSpace(stderr.String()),
			Cause:    err,
		}
	}
	return nil
}
