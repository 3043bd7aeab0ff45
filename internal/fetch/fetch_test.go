// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"errors"
	"strings"
	"testing"

	"github.com/RockerzXY/pdfiler/internal/config"
)

func TestRegistry_BuiltinStrategies(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		strategy config.FetchStrategy
		wantName string
	}{
		{config.StrategyGit, "git"},
		{config.StrategyGoGit, "go-git"},
		{config.StrategyArchive, "archive"},
	}

	for _, tt := range tests {
		f, err := r.For(tt.strategy)
		if err != nil {
			t.Fatalf("For(%s) failed: %v", tt.strategy, err)
		}
		if f.Name() != tt.wantName {
			t.Errorf("For(%s).Name() = %q, want %q", tt.strategy, f.Name(), tt.wantName)
		}
	}
}

func TestRegistry_UnknownStrategy(t *testing.T) {
	r := NewRegistry()

	_, err := r.For(config.FetchStrategy("svn"))
	if err == nil {
		t.Fatal("expected error for unknown strategy")
	}
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Errorf("expected ErrUnknownStrategy, got %v", err)
	}
	var unknownErr *UnknownStrategyError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected *UnknownStrategyError, got %T", err)
	}
	if unknownErr.Value != "svn" {
		t.Errorf("expected value svn, got %q", unknownErr.Value)
	}
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(config.StrategyGit, NewGitCLIFetcher(WithGitBinary("/opt/git/bin/git")))

	f, err := r.For(config.StrategyGit)
	if err != nil {
		t.Fatalf("For failed: %v", err)
	}
	gitFetcher, ok := f.(*GitCLIFetcher)
	if !ok {
		t.Fatalf("expected *GitCLIFetcher, got %T", f)
	}
	if gitFetcher.binary != "/opt/git/bin/git" {
		t.Errorf("expected replaced fetcher, got binary %q", gitFetcher.binary)
	}
}

func TestFetchFailureError_Unwrap(t *testing.T) {
	cause := errors.New("exit status 128")
	err := error(&FetchFailureError{
		Strategy: "git",
		URL:      "https://github.com/RockerzXY/pdfiler.git",
		Output:   "fatal: repository not found",
		Cause:    cause,
	})

	if !errors.Is(err, ErrFetchFailed) {
		t.Error("expected errors.Is(err, ErrFetchFailed)")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is(err, cause)")
	}

	msg := err.Error()
	for _, want := range []string{"git", "pdfiler.git", "repository not found", "exit status 128"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message should contain %q, got: %v", want, msg)
		}
	}
}

func TestFetchFailureError_NilCause(t *testing.T) {
	err := error(&FetchFailureError{Strategy: "archive", URL: "https://github.com/x/y"})
	if !errors.Is(err, ErrFetchFailed) {
		t.Error("expected errors.Is(err, ErrFetchFailed) with nil cause")
	}
}
