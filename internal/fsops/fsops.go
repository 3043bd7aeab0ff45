// SPDX-License-Identifier: MPL-2.0

package fsops

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/RockerzXY/pdfiler/pkg/types"
)

// EnsureDir creates the directory at path, including parents. Existing
// directories are left untouched.
func EnsureDir(path types.FilesystemPath) error {
	if err := os.MkdirAll(string(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// CopyFile copies a regular file from src to dst, preserving the source
// file's mode. The destination is truncated when it already exists.
func CopyFile(src, dst types.FilesystemPath) (err error) {
	srcFile, err := os.Open(string(src))
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer func() { _ = srcFile.Close() }() // Read-only file; close error non-critical

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file: %w", err)
	}

	dstFile, err := os.OpenFile(string(dst), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode())
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer func() {
		if closeErr := dstFile.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close destination file: %w", closeErr)
		}
	}()

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	return nil
}

// CopyTree recursively copies the directory tree rooted at src into dst,
// creating dst and any subdirectories as needed. Regular file modes are
// preserved; existing destination files are overwritten, files only present
// in dst are left alone. Returns the number of files copied.
//
// Mode bits on an overwritten destination file are not re-applied when the
// file already exists (OpenFile's perm argument only applies at creation);
// the executable bits that matter are set explicitly by the launcher writer.
func CopyTree(src, dst types.FilesystemPath) (int, error) {
	srcInfo, err := os.Stat(string(src))
	if err != nil {
		return 0, fmt.Errorf("failed to stat source directory: %w", err)
	}
	if !srcInfo.IsDir() {
		return 0, fmt.Errorf("source %s is not a directory", src)
	}

	copied := 0
	err = filepath.WalkDir(string(src), func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(string(src), p)
		if err != nil {
			return err
		}
		out := filepath.Join(string(dst), rel)

		if d.IsDir() {
			if err := os.MkdirAll(out, 0o755); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", out, err)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			// Symlinks and other special files are skipped; an application
			// checkout has no business containing them.
			return nil
		}

		if err := CopyFile(types.FilesystemPath(p), types.FilesystemPath(out)); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, fmt.Errorf("failed to copy tree %s: %w", src, err)
	}

	return copied, nil
}

// MarkExecutable adds the executable bits to the file at path, keeping the
// rest of its mode (chmod +x semantics).
func MarkExecutable(path types.FilesystemPath) error {
	info, err := os.Stat(string(path))
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.Chmod(string(path), info.Mode().Perm()|0o111); err != nil {
		return fmt.Errorf("failed to mark %s executable: %w", path, err)
	}
	return nil
}

// RemoveTree removes the tree rooted at path. The boolean reports whether
// anything existed there before removal.
func RemoveTree(path types.FilesystemPath) (bool, error) {
	_, err := os.Lstat(string(path))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.RemoveAll(string(path)); err != nil {
		return true, fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return true, nil
}

// Exists reports whether anything exists at path.
func Exists(path types.FilesystemPath) bool {
	_, err := os.Lstat(string(path))
	return err == nil
}
