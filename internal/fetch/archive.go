// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/RockerzXY/pdfiler/internal/fsops"
	"github.com/RockerzXY/pdfiler/pkg/types"
)

// maxArchiveBytes is the upper bound on the total extracted size (500 MB).
// It guards against decompression bombs; a real application checkout is
// orders of magnitude smaller.
const maxArchiveBytes = 500 << 20

// ErrArchiveTooLarge is returned when extraction exceeds maxArchiveBytes.
var ErrArchiveTooLarge = errors.New("archive exceeds size limit")

// Compile-time interface check
var _ Fetcher = (*ArchiveFetcher)(nil)

type (
	// ArchiveFetcher downloads the repository as a tar.gz snapshot via the
	// forge's archive endpoint. No git history is materialized; the
	// destination ends up containing exactly the tree at the requested ref.
	ArchiveFetcher struct {
		httpClient *http.Client
		baseURL    string
	}

	// ArchiveOption configures an ArchiveFetcher during construction.
	ArchiveOption func(*ArchiveFetcher)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy
// configurations.
func WithHTTPClient(c *http.Client) ArchiveOption {
	return func(f *ArchiveFetcher) {
		f.httpClient = c
	}
}

// WithBaseURL overrides the forge base URL, primarily for test servers.
func WithBaseURL(base string) ArchiveOption {
	return func(f *ArchiveFetcher) {
		f.baseURL = strings.TrimRight(base, "/")
	}
}

// NewArchiveFetcher creates an archive fetcher.
func NewArchiveFetcher(opts ...ArchiveOption) *ArchiveFetcher {
	f := &ArchiveFetcher{
		httpClient: http.DefaultClient,
		baseURL:    "https://github.com",
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the strategy name.
func (f *ArchiveFetcher) Name() string { return "archive" }

// Fetch downloads the snapshot tarball to a temp file and extracts it into
// opts.Dest, stripping the top-level directory the forge wraps the tree in.
func (f *ArchiveFetcher) Fetch(ctx context.Context, opts FetchOptions) (err error) {
	path, err := snapshotPath(string(opts.URL), string(opts.Ref))
	if err != nil {
		return f.failure(opts, "", err)
	}
	archiveURL := f.baseURL + path

	tmpDir, err := os.MkdirTemp("", "pdfiler-fetch-*")
	if err != nil {
		return fmt.Errorf("creating staging directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }() // Cleanup staging dir; error non-critical

	archivePath, status, err := f.download(ctx, archiveURL, tmpDir)
	if err != nil {
		return f.failure(opts, status, err)
	}

	if err := extractSnapshot(archivePath, opts.Dest); err != nil {
		// A half-extracted destination is worse than none.
		_ = os.RemoveAll(string(opts.Dest))
		return f.failure(opts, "", err)
	}
	return nil
}

func (f *ArchiveFetcher) failure(opts FetchOptions, output string, err error) error {
	return &FetchFailureError{
		Strategy: f.Name(),
		URL:      opts.URL,
		Output:   output,
		Cause:    err,
	}
}

// download fetches archiveURL into a temp file in dir and returns its path.
// The HTTP status line is returned separately so failures can surface it.
func (f *ArchiveFetcher) download(ctx context.Context, archiveURL, dir string) (_ string, status string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("building request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("downloading %s: %w", archiveURL, err)
	}
	defer func() { _ = resp.Body.Close() }() // read-only HTTP response body

	if resp.StatusCode != http.StatusOK {
		return "", resp.Status, fmt.Errorf("downloading %s: unexpected status %d", archiveURL, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(dir, "snapshot-*.tar.gz")
	if err != nil {
		return "", "", fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if closeErr := tmp.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err := io.Copy(tmp, io.LimitReader(resp.Body, maxArchiveBytes+1)); err != nil {
		return "", "", fmt.Errorf("writing to temp file: %w", err)
	}

	return tmp.Name(), "", nil
}

// snapshotPath derives the forge's tarball endpoint path from the
// repository URL. GitHub serves "/<owner>/<repo>/archive/<ref>.tar.gz" for
// branches, tags, and commits; an empty ref resolves to HEAD (the default
// branch). Other forges have incompatible archive layouts and are rejected.
func snapshotPath(repoURL, ref string) (string, error) {
	u, err := url.Parse(repoURL)
	if err != nil {
		return "", fmt.Errorf("parsing repository URL: %w", err)
	}
	if u.Host != "github.com" {
		return "", fmt.Errorf("archive strategy supports github.com URLs only, got host %q (use the git strategy instead)", u.Host)
	}

	path := strings.TrimSuffix(u.Path, ".git")
	if ref == "" {
		ref = "HEAD"
	}
	return path + "/archive/" + ref + ".tar.gz", nil
}

// extractSnapshot unpacks the tar.gz at archivePath into dest, stripping
// the single top-level directory. Total extracted bytes are capped at
// maxArchiveBytes.
func extractSnapshot(archivePath string, dest types.FilesystemPath) (err error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("opening archive: %w", err)
	}
	defer func() {
		// Read-only file handle; close errors are exotic.
		_ = f.Close()
	}()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("creating gzip reader: %w", err)
	}
	defer func() {
		// Gzip reader wraps the underlying file; close errors are not
		// actionable here since we only read from it.
		_ = gz.Close()
	}()

	if err := fsops.EnsureDir(dest); err != nil {
		return err
	}

	var total int64
	tr := tar.NewReader(gz)
	for {
		hdr, nextErr := tr.Next()
		if errors.Is(nextErr, io.EOF) {
			break
		}
		if nextErr != nil {
			return fmt.Errorf("reading tar entry: %w", nextErr)
		}

		rel, ok := stripTopLevel(hdr.Name)
		if !ok {
			continue
		}
		if !filepath.IsLocal(rel) {
			return fmt.Errorf("archive entry %q escapes destination", hdr.Name)
		}
		out := filepath.Join(string(dest), rel)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(out, 0o755); err != nil {
				return fmt.Errorf("creating directory %s: %w", out, err)
			}
		case tar.TypeReg:
			n, err := writeEntry(out, tr, hdr.FileInfo().Mode().Perm(), maxArchiveBytes-total)
			if err != nil {
				return err
			}
			total += n
			if total > maxArchiveBytes {
				return fmt.Errorf("%w (%d bytes)", ErrArchiveTooLarge, maxArchiveBytes)
			}
		default:
			// Symlinks and other special entries are skipped, matching the
			// tree copy semantics in fsops.
		}
	}
	return nil
}

// stripTopLevel removes the first path component. Entries without one (the
// wrapper directory itself, pax headers) report ok=false.
func stripTopLevel(name string) (string, bool) {
	name = strings.TrimPrefix(name, "./")
	_, rest, found := strings.Cut(name, "/")
	if !found || rest == "" {
		return "", false
	}
	return rest, true
}

// writeEntry writes one regular file from the tar stream, reading at most
// budget+1 bytes so oversized archives are detected rather than truncated.
func writeEntry(out string, tr *tar.Reader, perm os.FileMode, budget int64) (_ int64, err error) {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return 0, fmt.Errorf("creating directory %s: %w", filepath.Dir(out), err)
	}

	dst, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return 0, fmt.Errorf("creating file %s: %w", out, err)
	}
	defer func() {
		if closeErr := dst.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	n, err := io.Copy(dst, io.LimitReader(tr, budget+1))
	if err != nil {
		return n, fmt.Errorf("extracting %s: %w", out, err)
	}
	return n, nil
}
