// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/RockerzXY/pdfiler/internal/testutil"
	"github.com/RockerzXY/pdfiler/pkg/types"
)

// buildSnapshot assembles an in-memory tar.gz the way forges wrap source
// snapshots: every entry nested under a single top-level directory.
func buildSnapshot(t *testing.T, topDir string, files map[string]string) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	if err := tw.WriteHeader(&tar.Header{
		Name:     topDir + "/",
		Mode:     0o755,
		Typeflag: tar.TypeDir,
	}); err != nil {
		t.Fatalf("failed to write dir header: %v", err)
	}

	for name, content := range files {
		hdr := &tar.Header{
			Name:     topDir + "/" + name,
			Mode:     0o644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("failed to write header for %s: %v", name, err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write content for %s: %v", name, err)
		}
	}

	testutil.MustClose(t, tw)
	testutil.MustClose(t, gz)
	return buf.Bytes()
}

func TestArchiveFetcher_Name(t *testing.T) {
	if got := NewArchiveFetcher().Name(); got != "archive" {
		t.Errorf("Name() = %q, want archive", got)
	}
}

func TestArchiveFetcher_Fetch(t *testing.T) {
	snapshot := buildSnapshot(t, "pdfiler-HEAD", map[string]string{
		"pdfiler.py":       "print('pdf')\n",
		"requirements.txt": "PyPDF2==3.0.1\n",
		"lib/merge.py":     "def merge(): pass\n",
	})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/RockerzXY/pdfiler/archive/HEAD.tar.gz" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(snapshot)
	}))
	defer srv.Close()

	f := NewArchiveFetcher(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))

	dest := filepath.Join(t.TempDir(), "pdfiler_tmp")
	err := f.Fetch(context.Background(), FetchOptions{
		URL:  "https://github.com/RockerzXY/pdfiler.git",
		Dest: types.FilesystemPath(dest),
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	// Top-level wrapper directory is stripped
	data, err := os.ReadFile(filepath.Join(dest, "pdfiler.py"))
	if err != nil {
		t.Fatalf("expected pdfiler.py at destination root: %v", err)
	}
	if string(data) != "print('pdf')\n" {
		t.Errorf("unexpected content %q", string(data))
	}
	if _, err := os.Stat(filepath.Join(dest, "lib", "merge.py")); err != nil {
		t.Errorf("expected nested file extracted: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dest, "pdfiler-HEAD")); !os.IsNotExist(err) {
		t.Error("expected wrapper directory to be stripped")
	}
}

func TestArchiveFetcher_Fetch_RefInURL(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write(buildSnapshot(t, "pdfiler-2.1", map[string]string{"pdfiler.py": "x"}))
	}))
	defer srv.Close()

	f := NewArchiveFetcher(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	err := f.Fetch(context.Background(), FetchOptions{
		URL:  "https://github.com/RockerzXY/pdfiler.git",
		Ref:  "v2.1",
		Dest: types.FilesystemPath(filepath.Join(t.TempDir(), "dst")),
	})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if gotPath != "/RockerzXY/pdfiler/archive/v2.1.tar.gz" {
		t.Errorf("requested path = %q, want ref-pinned archive path", gotPath)
	}
}

func TestArchiveFetcher_Fetch_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer srv.Close()

	f := NewArchiveFetcher(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	err := f.Fetch(context.Background(), FetchOptions{
		URL:  "https://github.com/RockerzXY/missing.git",
		Dest: types.FilesystemPath(filepath.Join(t.TempDir(), "dst")),
	})
	if err == nil {
		t.Fatal("expected error for 404")
	}

	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("expected ErrFetchFailed, got %v", err)
	}
	var fetchErr *FetchFailureError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchFailureError, got %T", err)
	}
	if !strings.Contains(fetchErr.Output, "404") {
		t.Errorf("expected HTTP status in Output, got %q", fetchErr.Output)
	}
}

func TestArchiveFetcher_Fetch_NonGitHubURL(t *testing.T) {
	f := NewArchiveFetcher()
	err := f.Fetch(context.Background(), FetchOptions{
		URL:  "https://gitlab.example.org/x/y.git",
		Dest: types.FilesystemPath(filepath.Join(t.TempDir(), "dst")),
	})
	if err == nil {
		t.Fatal("expected error for non-github URL")
	}
	if !strings.Contains(err.Error(), "github.com URLs only") {
		t.Errorf("expected host diagnosis, got: %v", err)
	}
}

func TestArchiveFetcher_Fetch_TraversalRejected(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	hdr := &tar.Header{Name: "top/../../evil.txt", Mode: 0o644, Size: 4, Typeflag: tar.TypeReg}
	if err := tw.WriteHeader(hdr); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	if _, err := tw.Write([]byte("evil")); err != nil {
		t.Fatalf("failed to write content: %v", err)
	}
	testutil.MustClose(t, tw)
	testutil.MustClose(t, gz)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	parent := t.TempDir()
	f := NewArchiveFetcher(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	err := f.Fetch(context.Background(), FetchOptions{
		URL:  "https://github.com/RockerzXY/pdfiler.git",
		Dest: types.FilesystemPath(filepath.Join(parent, "deep", "dst")),
	})
	if err == nil {
		t.Fatal("expected error for traversal entry")
	}
	if !strings.Contains(err.Error(), "escapes destination") {
		t.Errorf("expected traversal diagnosis, got: %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(parent, "evil.txt")); !os.IsNotExist(statErr) {
		t.Error("traversal entry must not be written")
	}
}

func TestSnapshotPath(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		ref     string
		want    string
		wantErr bool
	}{
		{"default ref", "https://github.com/RockerzXY/pdfiler.git", "", "/RockerzXY/pdfiler/archive/HEAD.tar.gz", false},
		{"pinned ref", "https://github.com/RockerzXY/pdfiler.git", "v2.1", "/RockerzXY/pdfiler/archive/v2.1.tar.gz", false},
		{"no .git suffix", "https://github.com/RockerzXY/pdfiler", "main", "/RockerzXY/pdfiler/archive/main.tar.gz", false},
		{"other host", "https://gitlab.com/x/y.git", "", "", true},
		{"garbage", "://not-a-url", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := snapshotPath(tt.url, tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.url)
				}
				return
			}
			if err != nil {
				t.Fatalf("snapshotPath failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("snapshotPath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStripTopLevel(t *testing.T) {
	tests := []struct {
		name   string
		entry  string
		want   string
		wantOK bool
	}{
		{"nested file", "pdfiler-main/pdfiler.py", "pdfiler.py", true},
		{"deeply nested", "pdfiler-main/lib/merge.py", "lib/merge.py", true},
		{"wrapper dir itself", "pdfiler-main/", "", false},
		{"bare name", "pax_global_header", "", false},
		{"dot slash prefix", "./pdfiler-main/pdfiler.py", "pdfiler.py", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := stripTopLevel(tt.entry)
			if ok != tt.wantOK {
				t.Fatalf("stripTopLevel(%q) ok = %v, want %v", tt.entry, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("stripTopLevel(%q) = %q, want %q", tt.entry, got, tt.want)
			}
		})
	}
}
