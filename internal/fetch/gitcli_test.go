// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/RockerzXY/pdfiler/internal/testutil"
	"github.com/RockerzXY/pdfiler/pkg/types"
)

// TestHelperProcess is re-executed by the mock command recorder to simulate
// git subprocesses.
func TestHelperProcess(t *testing.T) { testutil.HelperProcess() }

func TestGitCLIFetcher_Name(t *testing.T) {
	if got := NewGitCLIFetcher().Name(); got != "git" {
		t.Errorf("Name() = %q, want git", got)
	}
}

func TestGitCLIFetcher_Fetch_PlainClone(t *testing.T) {
	recorder := testutil.NewMockCommandRecorder()
	f := NewGitCLIFetcher(WithGitExecCommand(recorder.ContextCommandFunc(t)))

	dest := filepath.Join(t.TempDir(), "pdfiler_tmp")
	err := f.Fetch(context.Background(), FetchOptions{
		URL:  "https://github.com/RockerzXY/pdfiler.git",
		Dest: types.FilesystemPath(dest),
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	recorder.AssertInvocationCount(t, 1)
	recorder.AssertCommandName(t, "git")
	want := []string{"clone", "https://github.com/RockerzXY/pdfiler.git", dest}
	if !slices.Equal(recorder.LastArgs(), want) {
		t.Errorf("args = %v, want %v", recorder.LastArgs(), want)
	}
}

func TestGitCLIFetcher_Fetch_DepthAndRef(t *testing.T) {
	recorder := testutil.NewMockCommandRecorder()
	f := NewGitCLIFetcher(WithGitExecCommand(recorder.ContextCommandFunc(t)))

	dest := filepath.Join(t.TempDir(), "pdfiler_tmp")
	err := f.Fetch(context.Background(), FetchOptions{
		URL:   "https://github.com/RockerzXY/pdfiler.git",
		Ref:   "v2.1",
		Dest:  types.FilesystemPath(dest),
		Depth: 1,
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	want := []string{"clone", "--depth", "1", "--branch", "v2.1", "https://github.com/RockerzXY/pdfiler.git", dest}
	if !slices.Equal(recorder.LastArgs(), want) {
		t.Errorf("args = %v, want %v", recorder.LastArgs(), want)
	}
}

func TestGitCLIFetcher_Fetch_CustomBinary(t *testing.T) {
	recorder := testutil.NewMockCommandRecorder()
	f := NewGitCLIFetcher(
		WithGitBinary("/opt/git/bin/git"),
		WithGitExecCommand(recorder.ContextCommandFunc(t)),
	)

	err := f.Fetch(context.Background(), FetchOptions{
		URL:  "https://github.com/RockerzXY/pdfiler.git",
		Dest: types.FilesystemPath(filepath.Join(t.TempDir(), "dst")),
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	recorder.AssertCommandName(t, "/opt/git/bin/git")
}

func TestGitCLIFetcher_Fetch_CapturesStderr(t *testing.T) {
	recorder := testutil.NewMockCommandRecorder()
	recorder.ExitCode = 128
	recorder.Stderr = "fatal: repository 'https://github.com/RockerzXY/missing.git/' not found"
	f := NewGitCLIFetcher(WithGitExecCommand(recorder.ContextCommandFunc(t)))

	err := f.Fetch(context.Background(), FetchOptions{
		URL:  "https://github.com/RockerzXY/missing.git",
		Dest: types.FilesystemPath(filepath.Join(t.TempDir(), "dst")),
	})
	if err == nil {
		t.Fatal("expected error for failed clone")
	}

	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed, got %v", err)
	}
	var fetchErr *FetchFailureError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchFailureError, got %T", err)
	}
	if fetchErr.Strategy != "git" {
		t.Errorf("expected strategy git, got %q", fetchErr.Strategy)
	}
	if !strings.Contains(fetchErr.Output, "not found") {
		t.Errorf("expected git stderr in Output, got %q", fetchErr.Output)
	}
}
