// SPDX-License-Identifier: MPL-2.0

package receipt

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/RockerzXY/pdfiler/internal/config"
	"github.com/RockerzXY/pdfiler/pkg/fspath"
	"github.com/RockerzXY/pdfiler/pkg/manifest"
	"github.com/RockerzXY/pdfiler/pkg/types"

	"github.com/pelletier/go-toml/v2"
)

const (
	// FileName is the receipt file name inside the install directory.
	FileName = "install-receipt.toml"

	// SchemaVersion identifies the receipt layout this build writes.
	SchemaVersion = 1
)

var (
	// ErrNoReceipt indicates the install directory holds no receipt.
	ErrNoReceipt = errors.New("no install receipt")

	// ErrUnsupportedSchema indicates a receipt written by a newer build.
	ErrUnsupportedSchema = errors.New("unsupported receipt schema")
)

type (
	// Receipt describes a completed installation.
	Receipt struct {
		Schema      int       `toml:"schema"`
		InstalledAt time.Time `toml:"installed_at"`
		Source      Source    `toml:"source"`
		Paths       Paths     `toml:"paths"`
		Deploy      Deploy    `toml:"deploy"`
		Manifest    Summary   `toml:"manifest"`
	}

	// Source records where the installed sources came from.
	Source struct {
		URL      config.SourceURL     `toml:"url"`
		Ref      config.GitRef        `toml:"ref,omitempty"`
		Strategy config.FetchStrategy `toml:"strategy"`
	}

	// Paths records the resolved installation layout.
	Paths struct {
		InstallDir types.FilesystemPath `toml:"install_dir"`
		Launcher   types.FilesystemPath `toml:"launcher"`
		EnvDir     types.FilesystemPath `toml:"env_dir"`
		Entrypoint types.FilesystemPath `toml:"entrypoint"`
	}

	// Deploy records what the deploy step copied.
	Deploy struct {
		FileCount int `toml:"file_count"`
	}

	// Summary is a digest of the dependency manifest at install time.
	Summary struct {
		SHA256   string                     `toml:"sha256"`
		Packages []manifest.RequirementName `toml:"packages,omitempty"`
	}
)

// PathIn returns the receipt location inside an install directory.
func PathIn(dir types.FilesystemPath) types.FilesystemPath {
	return fspath.JoinStr(dir, FileName)
}

// Write marshals r and places it in dir. An existing receipt is overwritten.
func Write(dir types.FilesystemPath, r *Receipt) error {
	data, err := toml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding receipt: %w", err)
	}
	path := PathIn(dir)
	if err := os.WriteFile(string(path), data, 0o644); err != nil {
		return fmt.Errorf("writing receipt %s: %w", path, err)
	}
	return nil
}

// Load reads the receipt from dir. A missing receipt is reported as
// ErrNoReceipt; a receipt with a schema newer than this build understands is
// reported as ErrUnsupportedSchema.
func Load(dir types.FilesystemPath) (*Receipt, error) {
	path := PathIn(dir)
	data, err := os.ReadFile(string(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w at %s", ErrNoReceipt, path)
		}
		return nil, fmt.Errorf("reading receipt %s: %w", path, err)
	}

	var r Receipt
	if err := toml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing receipt %s: %w", path, err)
	}
	if r.Schema > SchemaVersion {
		return nil, fmt.Errorf("%w: found %d, this build understands up to %d", ErrUnsupportedSchema, r.Schema, SchemaVersion)
	}
	return &r, nil
}

// Remove deletes the receipt from dir and reports whether one existed.
func Remove(dir types.FilesystemPath) (bool, error) {
	path := PathIn(dir)
	err := os.Remove(string(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("removing receipt %s: %w", path, err)
	}
	return true, nil
}

// SummarizeManifest hashes the dependency manifest at path and lists the
// requirement names it declares. The parse is best-effort bookkeeping: a
// manifest pip accepts but this parser does not still gets a digest, just no
// package list.
func SummarizeManifest(path types.FilesystemPath) (Summary, error) {
	data, err := os.ReadFile(string(path))
	if err != nil {
		return Summary{}, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	digest := sha256.Sum256(data)
	summary := Summary{SHA256: hex.EncodeToString(digest[:])}

	parsed, err := manifest.Parse(bytes.NewReader(data))
	if err != nil {
		return summary, nil
	}
	summary.Packages = parsed.Names()
	return summary, nil
}
