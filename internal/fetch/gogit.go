// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Compile-time interface check
var _ Fetcher = (*GoGitFetcher)(nil)

// GoGitFetcher clones the repository in-process with go-git. It needs no
// git binary, which makes it the strategy of choice on hosts where
// installing git is not an option, and lets tests clone local fixture
// repositories without touching the network.
type GoGitFetcher struct{}

// NewGoGitFetcher creates a go-git fetcher.
func NewGoGitFetcher() *GoGitFetcher {
	return &GoGitFetcher{}
}

// Name returns the strategy name.
func (f *GoGitFetcher) Name() string { return "go-git" }

// Fetch clones the repository. A ref is tried as a branch first, then as a
// tag; a failed attempt removes the partial clone before the next one. A
// ref that matches neither but looks like a commit hash gets a full clone
// followed by a detached checkout.
func (f *GoGitFetcher) Fetch(ctx context.Context, opts FetchOptions) error {
	dest := string(opts.Dest)

	if opts.Ref == "" {
		_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
			URL:      string(opts.URL),
			Depth:    opts.Depth,
			Progress: nil,
		})
		if err != nil {
			_ = os.RemoveAll(dest)
			return f.failure(opts, err)
		}
		return nil
	}

	refNames := []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(string(opts.Ref)),
		plumbing.NewTagReferenceName(string(opts.Ref)),
	}

	var lastErr error
	for _, refName := range refNames {
		_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
			URL:           string(opts.URL),
			ReferenceName: refName,
			SingleBranch:  true,
			Depth:         opts.Depth,
			Progress:      nil,
		})
		if err == nil {
			return nil
		}
		lastErr = err
		// Clean up failed attempt (best-effort)
		_ = os.RemoveAll(dest)
		if ctx.Err() != nil {
			return f.failure(opts, err)
		}
	}

	if isHexHash(string(opts.Ref)) {
		if err := f.cloneAtCommit(ctx, opts); err != nil {
			_ = os.RemoveAll(dest)
			return f.failure(opts, err)
		}
		return nil
	}

	return f.failure(opts, fmt.Errorf("ref %q not found as branch or tag: %w", opts.Ref, lastErr))
}

// cloneAtCommit clones the full history and checks out a commit hash.
// Shallow clones cannot reach arbitrary commits, so Depth is ignored here.
func (f *GoGitFetcher) cloneAtCommit(ctx context.Context, opts FetchOptions) error {
	repo, err := git.PlainCloneContext(ctx, string(opts.Dest), false, &git.CloneOptions{
		URL:      string(opts.URL),
		Progress: nil,
	})
	if err != nil {
		return err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	err = worktree.Checkout(&git.CheckoutOptions{
		Hash:  plumbing.NewHash(string(opts.Ref)),
		Force: true,
	})
	if err != nil {
		return fmt.Errorf("failed to checkout %s: %w", opts.Ref, err)
	}
	return nil
}

func (f *GoGitFetcher) failure(opts FetchOptions, err error) error {
	return &FetchFailureError{
		Strategy: f.Name(),
		URL:      opts.URL,
		Cause:    err,
	}
}

// isHexHash reports whether s is a full 40-character commit hash. go-git
// cannot resolve abbreviated hashes on checkout, so short forms are treated
// as ordinary ref names and fail the branch/tag lookup instead.
func isHexHash(s string) bool {
	if len(s) != 40 {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') {
			return false
		}
	}
	return true
}
