// SPDX-License-Identifier: MPL-2.0

package receipt

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/RockerzXY/pdfiler/internal/config"
	"github.com/RockerzXY/pdfiler/internal/testutil"
	"github.com/RockerzXY/pdfiler/pkg/manifest"
	"github.com/RockerzXY/pdfiler/pkg/types"
)

func sampleReceipt() *Receipt {
	return &Receipt{
		Schema:      SchemaVersion,
		InstalledAt: time.Date(2026, 8, 24, 12, 30, 0, 0, time.UTC),
		Source: Source{
			URL:      "https://github.com/RockerzXY/pdfiler.git",
			Ref:      "v1.2.0",
			Strategy: config.StrategyGit,
		},
		Paths: Paths{
			InstallDir: "/usr/local/pdfiler",
			Launcher:   "/usr/local/bin/pdfiler",
			EnvDir:     "/usr/local/pdfiler/pdfiler_env",
			Entrypoint: "/usr/local/pdfiler/pdfiler.py",
		},
		Deploy: Deploy{FileCount: 12},
		Manifest: Summary{
			SHA256:   "aa11bb22",
			Packages: []manifest.RequirementName{"PyPDF2", "reportlab"},
		},
	}
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	dir := types.FilesystemPath(t.TempDir())
	want := sampleReceipt()

	if err := Write(dir, want); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if got.Schema != want.Schema {
		t.Errorf("schema = %d, want %d", got.Schema, want.Schema)
	}
	if !got.InstalledAt.Equal(want.InstalledAt) {
		t.Errorf("installed_at = %v, want %v", got.InstalledAt, want.InstalledAt)
	}
	if got.Source != want.Source {
		t.Errorf("source = %+v, want %+v", got.Source, want.Source)
	}
	if got.Paths != want.Paths {
		t.Errorf("paths = %+v, want %+v", got.Paths, want.Paths)
	}
	if got.Deploy != want.Deploy {
		t.Errorf("deploy = %+v, want %+v", got.Deploy, want.Deploy)
	}
	if got.Manifest.SHA256 != want.Manifest.SHA256 {
		t.Errorf("manifest sha256 = %q, want %q", got.Manifest.SHA256, want.Manifest.SHA256)
	}
	if len(got.Manifest.Packages) != 2 || got.Manifest.Packages[0] != "PyPDF2" || got.Manifest.Packages[1] != "reportlab" {
		t.Errorf("manifest packages = %v, want [PyPDF2 reportlab]", got.Manifest.Packages)
	}
}

func TestWrite_OverwritesExisting(t *testing.T) {
	dir := types.FilesystemPath(t.TempDir())

	first := sampleReceipt()
	if err := Write(dir, first); err != nil {
		t.Fatalf("first Write failed: %v", err)
	}

	second := sampleReceipt()
	second.Deploy.FileCount = 99
	if err := Write(dir, second); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Deploy.FileCount != 99 {
		t.Errorf("file count = %d, want 99", got.Deploy.FileCount)
	}
}

func TestLoad_NoReceipt(t *testing.T) {
	dir := types.FilesystemPath(t.TempDir())

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for missing receipt")
	}
	if !errors.Is(err, ErrNoReceipt) {
		t.Errorf("expected ErrNoReceipt, got %v", err)
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, FileName), []byte("schema = [not toml"), 0o644)

	_, err := Load(types.FilesystemPath(dir))
	if err == nil {
		t.Fatal("expected error for malformed receipt")
	}
	if errors.Is(err, ErrNoReceipt) {
		t.Error("malformed receipt must not read as absent")
	}
}

func TestLoad_UnsupportedSchema(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, FileName), []byte("schema = 99\n"), 0o644)

	_, err := Load(types.FilesystemPath(dir))
	if err == nil {
		t.Fatal("expected error for future schema")
	}
	if !errors.Is(err, ErrUnsupportedSchema) {
		t.Errorf("expected ErrUnsupportedSchema, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	dir := types.FilesystemPath(t.TempDir())

	existed, err := Remove(dir)
	if err != nil {
		t.Fatalf("Remove on empty dir failed: %v", err)
	}
	if existed {
		t.Error("Remove reported a receipt that was never written")
	}

	if err := Write(dir, sampleReceipt()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	existed, err = Remove(dir)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if !existed {
		t.Error("Remove did not report the written receipt")
	}

	if _, err := Load(dir); !errors.Is(err, ErrNoReceipt) {
		t.Errorf("expected ErrNoReceipt after Remove, got %v", err)
	}
}

func TestSummarizeManifest(t *testing.T) {
	dir := t.TempDir()
	content := []byte("PyPDF2==3.0.1\nreportlab>=4.0\n\n# comment\n")
	path := filepath.Join(dir, "requirements.txt")
	testutil.MustWriteFile(t, path, content, 0o644)

	summary, err := SummarizeManifest(types.FilesystemPath(path))
	if err != nil {
		t.Fatalf("SummarizeManifest failed: %v", err)
	}

	digest := sha256.Sum256(content)
	if summary.SHA256 != hex.EncodeToString(digest[:]) {
		t.Errorf("sha256 = %q, want %q", summary.SHA256, hex.EncodeToString(digest[:]))
	}
	if len(summary.Packages) != 2 || summary.Packages[0] != "PyPDF2" || summary.Packages[1] != "reportlab" {
		t.Errorf("packages = %v, want [PyPDF2 reportlab]", summary.Packages)
	}
}

func TestSummarizeManifest_UnparseableStillHashes(t *testing.T) {
	dir := t.TempDir()
	content := []byte("===broken===\n")
	path := filepath.Join(dir, "requirements.txt")
	testutil.MustWriteFile(t, path, content, 0o644)

	summary, err := SummarizeManifest(types.FilesystemPath(path))
	if err != nil {
		t.Fatalf("SummarizeManifest failed: %v", err)
	}

	digest := sha256.Sum256(content)
	if summary.SHA256 != hex.EncodeToString(digest[:]) {
		t.Errorf("sha256 = %q, want %q", summary.SHA256, hex.EncodeToString(digest[:]))
	}
	if len(summary.Packages) != 0 {
		t.Errorf("packages = %v, want none for unparseable manifest", summary.Packages)
	}
}

func TestSummarizeManifest_Missing(t *testing.T) {
	_, err := SummarizeManifest(types.FilesystemPath(filepath.Join(t.TempDir(), "requirements.txt")))
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}
