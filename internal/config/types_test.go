// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestFetchStrategy_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		strategy FetchStrategy
		want     bool
		wantErr  bool
	}{
		{StrategyGit, true, false},
		{StrategyGoGit, true, false},
		{StrategyArchive, true, false},
		{"", false, true},
		{"invalid", false, true},
		{"GIT", false, true},
		{"gogit", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.strategy.IsValid()
			if isValid != tt.want {
				t.Errorf("FetchStrategy(%q).IsValid() = %v, want %v", tt.strategy, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("FetchStrategy(%q).IsValid() returned no errors, want error", tt.strategy)
				}
				if !errors.Is(errs[0], ErrInvalidFetchStrategy) {
					t.Errorf("error should wrap ErrInvalidFetchStrategy, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("FetchStrategy(%q).IsValid() returned unexpected errors: %v", tt.strategy, errs)
			}
		})
	}
}

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		scheme  ColorScheme
		want    bool
		wantErr bool
	}{
		{ColorSchemeAuto, true, false},
		{ColorSchemeDark, true, false},
		{ColorSchemeLight, true, false},
		{"", false, true},
		{"garbage", false, true},
		{"AUTO", false, true},
		{"Dark", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.scheme), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.scheme.IsValid()
			if isValid != tt.want {
				t.Errorf("ColorScheme(%q).IsValid() = %v, want %v", tt.scheme, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("ColorScheme(%q).IsValid() returned no errors, want error", tt.scheme)
				}
				if !errors.Is(errs[0], ErrInvalidColorScheme) {
					t.Errorf("error should wrap ErrInvalidColorScheme, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("ColorScheme(%q).IsValid() returned unexpected errors: %v", tt.scheme, errs)
			}
		})
	}
}

func TestSourceURL_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     SourceURL
		want    bool
		wantErr bool
	}{
		{"https URL", "https://github.com/RockerzXY/pdfiler.git", true, false},
		{"scp-style remote", "git@github.com:RockerzXY/pdfiler.git", true, false},
		{"file URL", "file:///srv/git/pdfiler.git", true, false},
		{"empty", "", false, true},
		{"whitespace only", "   ", false, true},
		{"embedded space", "https://example.com/a repo.git", false, true},
		{"embedded tab", "https://example.com/\trepo.git", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.url.IsValid()
			if isValid != tt.want {
				t.Errorf("SourceURL(%q).IsValid() = %v, want %v", tt.url, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("SourceURL(%q).IsValid() returned no errors, want error", tt.url)
				}
				if !errors.Is(errs[0], ErrInvalidSourceURL) {
					t.Errorf("error should wrap ErrInvalidSourceURL, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("SourceURL(%q).IsValid() returned unexpected errors: %v", tt.url, errs)
			}
		})
	}
}

func TestGitRef_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ref     GitRef
		want    bool
	}{
		{"empty means default branch", "", true},
		{"branch name", "main", true},
		{"tag", "v2.1.0", true},
		{"commit", "3f2c1aab", true},
		{"whitespace only", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.ref.IsValid()
			if isValid != tt.want {
				t.Errorf("GitRef(%q).IsValid() = %v, want %v", tt.ref, isValid, tt.want)
			}
			if !tt.want && !errors.Is(errs[0], ErrInvalidGitRef) {
				t.Errorf("error should wrap ErrInvalidGitRef, got: %v", errs[0])
			}
		})
	}
}

func TestBaseName_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		baseName BaseName
		want     bool
	}{
		{"env dir name", "pdfiler_env", true},
		{"manifest name", "requirements.txt", true},
		{"entrypoint name", "pdfiler.py", true},
		{"hidden name", ".venv", true},
		{"empty", "", false},
		{"whitespace only", "  ", false},
		{"dot", ".", false},
		{"dot dot", "..", false},
		{"forward slash", "env/bin", false},
		{"backslash", "env\\bin", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.baseName.IsValid()
			if isValid != tt.want {
				t.Errorf("BaseName(%q).IsValid() = %v, want %v", tt.baseName, isValid, tt.want)
			}
			if !tt.want && !errors.Is(errs[0], ErrInvalidBaseName) {
				t.Errorf("error should wrap ErrInvalidBaseName, got: %v", errs[0])
			}
		})
	}
}

func TestSourceConfig_IsValid(t *testing.T) {
	t.Parallel()

	valid := SourceConfig{
		URL:      "https://github.com/RockerzXY/pdfiler.git",
		Ref:      "main",
		Strategy: StrategyGit,
	}
	if isValid, errs := valid.IsValid(); !isValid {
		t.Errorf("valid SourceConfig reported invalid: %v", errs)
	}

	invalid := SourceConfig{
		URL:      "",
		Ref:      "  ",
		Strategy: "rsync",
	}
	isValid, errs := invalid.IsValid()
	if isValid {
		t.Fatal("SourceConfig with three bad fields reported valid")
	}
	if !errors.Is(errs[0], ErrInvalidSourceConfig) {
		t.Errorf("error should wrap ErrInvalidSourceConfig, got: %v", errs[0])
	}
	var cfgErr *InvalidSourceConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("error should be *InvalidSourceConfigError, got: %T", errs[0])
	}
	if len(cfgErr.FieldErrors) != 3 {
		t.Errorf("expected 3 field errors, got %d: %v", len(cfgErr.FieldErrors), cfgErr.FieldErrors)
	}
}

func TestPathsConfig_IsValid(t *testing.T) {
	t.Parallel()

	valid := PathsConfig{
		CloneDir:   "/home/user/pdfiler_tmp",
		InstallDir: "/usr/local/pdfiler",
		Launcher:   "/usr/local/bin/pdfiler",
	}
	if isValid, errs := valid.IsValid(); !isValid {
		t.Errorf("valid PathsConfig reported invalid: %v", errs)
	}

	invalid := PathsConfig{
		CloneDir:   " ",
		InstallDir: "",
		Launcher:   "/usr/local/bin/pdfiler",
	}
	isValid, errs := invalid.IsValid()
	if isValid {
		t.Fatal("PathsConfig with empty dirs reported valid")
	}
	if !errors.Is(errs[0], ErrInvalidPathsConfig) {
		t.Errorf("error should wrap ErrInvalidPathsConfig, got: %v", errs[0])
	}
	var cfgErr *InvalidPathsConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("error should be *InvalidPathsConfigError, got: %T", errs[0])
	}
	if len(cfgErr.FieldErrors) != 2 {
		t.Errorf("expected 2 field errors, got %d: %v", len(cfgErr.FieldErrors), cfgErr.FieldErrors)
	}
}

func TestPythonConfig_IsValid(t *testing.T) {
	t.Parallel()

	valid := PythonConfig{
		Interpreter: "python3",
		EnvDir:      "pdfiler_env",
		Manifest:    "requirements.txt",
		Entrypoint:  "pdfiler.py",
	}
	if isValid, errs := valid.IsValid(); !isValid {
		t.Errorf("valid PythonConfig reported invalid: %v", errs)
	}
}

func TestPythonConfig_IsValid_RejectsNameCollisions(t *testing.T) {
	t.Parallel()

	collided := PythonConfig{
		Interpreter: "python3",
		EnvDir:      "requirements.txt",
		Manifest:    "requirements.txt",
		Entrypoint:  "pdfiler.py",
	}
	isValid, errs := collided.IsValid()
	if isValid {
		t.Fatal("PythonConfig with env_dir == manifest reported valid")
	}
	if !errors.Is(errs[0], ErrInvalidPythonConfig) {
		t.Errorf("error should wrap ErrInvalidPythonConfig, got: %v", errs[0])
	}
}

func TestPythonConfig_IsValid_RejectsBadInterpreter(t *testing.T) {
	t.Parallel()

	bad := PythonConfig{
		Interpreter: "/usr/bin/python3",
		EnvDir:      "pdfiler_env",
		Manifest:    "requirements.txt",
		Entrypoint:  "pdfiler.py",
	}
	isValid, _ := bad.IsValid()
	if isValid {
		t.Error("PythonConfig with path-qualified interpreter reported valid")
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if isValid, errs := cfg.IsValid(); !isValid {
		t.Errorf("DefaultConfig() reported invalid: %v", errs)
	}
}

func TestConfig_IsValid_AggregatesSubErrors(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Source.Strategy = "bogus"
	cfg.UI.ColorScheme = "neon"

	isValid, errs := cfg.IsValid()
	if isValid {
		t.Fatal("Config with bad strategy and color scheme reported valid")
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got: %v", errs[0])
	}
	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("error should be *InvalidConfigError, got: %T", errs[0])
	}
	if len(cfgErr.FieldErrors) != 2 {
		t.Errorf("expected 2 sub-config errors, got %d: %v", len(cfgErr.FieldErrors), cfgErr.FieldErrors)
	}
}

func TestFetchStrategyConstants(t *testing.T) {
	if StrategyGit != "git" {
		t.Errorf("StrategyGit = %s, want git", StrategyGit)
	}
	if StrategyGoGit != "go-git" {
		t.Errorf("StrategyGoGit = %s, want go-git", StrategyGoGit)
	}
	if StrategyArchive != "archive" {
		t.Errorf("StrategyArchive = %s, want archive", StrategyArchive)
	}
}
