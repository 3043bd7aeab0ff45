// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/RockerzXY/pdfiler/internal/config"
	"github.com/RockerzXY/pdfiler/pkg/types"
)

var (
	// ErrFetchFailed is the sentinel error wrapped by FetchFailureError.
	ErrFetchFailed = errors.New("source fetch failed")

	// ErrUnknownStrategy is the sentinel error wrapped by UnknownStrategyError.
	ErrUnknownStrategy = errors.New("unknown fetch strategy")
)

type (
	// FetchOptions describes one acquisition: what to fetch and where to
	// put it.
	FetchOptions struct {
		// URL is the repository to fetch.
		URL config.SourceURL
		// Ref optionally pins a branch, tag, or commit. Empty means the
		// repository's default branch.
		Ref config.GitRef
		// Dest is the directory the sources are materialized into. It must
		// not exist yet; fetchers create it.
		Dest types.FilesystemPath
		// Depth limits git history depth. Zero means full history.
		Depth int
	}

	// Fetcher materializes a source tree at a destination path.
	Fetcher interface {
		// Name returns the strategy name for logs and errors.
		Name() string
		// Fetch acquires the sources described by opts.
		Fetch(ctx context.Context, opts FetchOptions) error
	}

	// FetchFailureError is returned when a strategy could not materialize
	// the sources. Output carries the tool's own diagnostics (git stderr,
	// HTTP status) when available.
	FetchFailureError struct {
		// Strategy is the name of the fetcher that failed.
		Strategy string
		// URL is the repository that was being fetched.
		URL config.SourceURL
		// Output is trimmed diagnostic output, empty when none was captured.
		Output string
		// Cause is the underlying error.
		Cause error
	}

	// UnknownStrategyError is returned when a Registry lookup does not match
	// any registered fetcher.
	UnknownStrategyError struct {
		Value config.FetchStrategy
	}

	// Registry maps fetch strategies to constructed fetchers.
	Registry struct {
		fetchers map[config.FetchStrategy]Fetcher
	}
)

// Error implements the error interface for FetchFailureError.
func (e *FetchFailureError) Error() string {
	msg := fmt.Sprintf("fetching %s with %s: %v", e.URL, e.Strategy, e.Cause)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

// Unwrap returns both the classification sentinel and the underlying cause,
// so errors.Is matches ErrFetchFailed as well as e.g. context.Canceled.
func (e *FetchFailureError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrFetchFailed}
	}
	return []error{ErrFetchFailed, e.Cause}
}

// Error implements the error interface for UnknownStrategyError.
func (e *UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown fetch strategy %q (valid: %s, %s, %s)",
		e.Value, config.StrategyGit, config.StrategyGoGit, config.StrategyArchive)
}

// Unwrap returns ErrUnknownStrategy for errors.Is() compatibility.
func (e *UnknownStrategyError) Unwrap() error { return ErrUnknownStrategy }

// NewRegistry creates a registry with all built-in strategies registered.
func NewRegistry() *Registry {
	r := &Registry{fetchers: make(map[config.FetchStrategy]Fetcher)}
	r.Register(config.StrategyGit, NewGitCLIFetcher())
	r.Register(config.StrategyGoGit, NewGoGitFetcher())
	r.Register(config.StrategyArchive, NewArchiveFetcher())
	return r
}

// Register adds or replaces the fetcher for a strategy.
func (r *Registry) Register(strategy config.FetchStrategy, f Fetcher) {
	r.fetchers[strategy] = f
}

// For returns the fetcher registered for the strategy.
func (r *Registry) For(strategy config.FetchStrategy) (Fetcher, error) {
	f, ok := r.fetchers[strategy]
	if !ok {
		return nil, &UnknownStrategyError{Value: strategy}
	}
	return f, nil
}
