// SPDX-License-Identifier: MPL-2.0

package install

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// maxBinaryBytes is the upper bound on extracted binary size (500 MB).
// Prevents decompression bombs when expanding the language server gzip.
const maxBinaryBytes = 500 << 20

const (
	// StatusInstalled indicates the binary was downloaded and installed.
	StatusInstalled Status = iota
	// StatusAlreadyInstalled indicates the destination binary already
	// reports the resolved release version and nothing was downloaded.
	StatusAlreadyInstalled
)

//nolint:gochecknoglobals // Test seam for probing the installed binary.
var runVersionCommand = func(ctx context.Context, binPath string) (string, error) {
	out, err := exec.CommandContext(ctx, binPath, "--version").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

type (
	// Status describes the outcome of an install run.
	Status int

	// Result holds the outcome of an install run.
	Result struct {
		Status  Status
		Version string // Resolved release tag
		Path    string // Absolute path of the installed binary
	}

	// Options control a single install run.
	Options struct {
		// Version pins a specific release tag. Empty resolves the latest
		// stable release.
		Version string
		// Force reinstalls even when the destination binary already
		// reports the resolved version.
		Force bool
	}

	// Installer provisions the language server binary end to end: platform
	// detection, release resolution, retried download, artifact
	// verification, and atomic installation.
	Installer struct {
		client  *GitHubClient
		destDir string
	}

	// InstallerOption configures an Installer during construction.
	InstallerOption func(*Installer)
)

// String returns a human-readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusInstalled:
		return "installed"
	case StatusAlreadyInstalled:
		return "already installed"
	}
	return "unknown"
}

// WithClient overrides the default GitHubClient used by the Installer.
func WithClient(c *GitHubClient) InstallerOption {
	return func(i *Installer) {
		i.client = c
	}
}

// NewInstaller creates an Installer targeting destDir. An empty destDir
// resolves to DefaultDestDir at run time. If no WithClient option is
// provided, a default GitHubClient is created.
func NewInstaller(destDir string, opts ...InstallerOption) *Installer {
	i := &Installer{destDir: destDir}
	for _, opt := range opts {
		opt(i)
	}
	if i.client == nil {
		i.client = NewGitHubClient()
	}
	return i
}

// DefaultDestDir returns the conventional per-user binary directory,
// ~/.local/bin.
func DefaultDestDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, ".local", "bin"), nil
}

// Resolve determines the release to install. A non-empty version pins a
// specific tag; otherwise the latest stable release is selected.
func (i *Installer) Resolve(ctx context.Context, version string) (*Release, error) {
	if version != "" {
		r, err := i.client.GetReleaseByTag(ctx, version)
		if err != nil {
			return nil, fmt.Errorf("resolving release %s: %w", version, err)
		}
		return r, nil
	}

	releases, err := i.client.ListReleases(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving latest release: %w", err)
	}
	if len(releases) == 0 {
		return nil, fmt.Errorf("resolving latest release: no stable releases: %w", ErrReleaseNotFound)
	}

	// ListReleases returns results sorted newest first.
	return &releases[0], nil
}

// InstalledVersion probes the binary at binPath with --version and returns
// its output. The second return value is false when the binary is missing
// or cannot be executed.
func (i *Installer) InstalledVersion(ctx context.Context, binPath string) (string, bool) {
	if info, err := os.Stat(binPath); err != nil || info.IsDir() {
		return "", false
	}

	out, err := runVersionCommand(ctx, binPath)
	if err != nil {
		return "", false
	}
	return out, true
}

// Run executes the full install flow and reports what happened. The flow
// is idempotent: when the destination binary already reports the resolved
// release tag and Force is unset, nothing is downloaded or written.
func (i *Installer) Run(ctx context.Context, opts Options) (*Result, error) {
	triple, err := DetectPlatform()
	if err != nil {
		return nil, err
	}

	destDir := i.destDir
	if destDir == "" {
		destDir, err = DefaultDestDir()
		if err != nil {
			return nil, err
		}
	}
	destPath := filepath.Join(destDir, ServerBinaryName())

	release, err := i.Resolve(ctx, opts.Version)
	if err != nil {
		return nil, err
	}

	if !opts.Force {
		if reported, ok := i.InstalledVersion(ctx, destPath); ok && strings.Contains(reported, release.TagName) {
			return &Result{
				Status:  StatusAlreadyInstalled,
				Version: release.TagName,
				Path:    destPath,
			}, nil
		}
	}

	assetName := AssetName(triple)
	asset, err := findAsset(release.Assets, assetName)
	if err != nil {
		return nil, fmt.Errorf("release %s has no asset for %s: %w", release.TagName, triple, err)
	}

	// A companion "<asset>.sha256" file, when published, supplies the
	// expected hash for the artifact.
	expectedHash, err := i.expectedChecksum(ctx, release.Assets, assetName)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating destination directory %s: %w", destDir, err)
	}

	// Download to a temp file in the destination directory so the final
	// os.Rename is an atomic same-filesystem move.
	artifactPath, err := fetchToTempFile(ctx, i.client, asset.BrowserDownloadURL, destDir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(artifactPath) }()

	if err := verifyArtifact(artifactPath, expectedHash); err != nil {
		return nil, err
	}

	tempBinaryPath, err := expandGzipBinary(artifactPath, destDir)
	if err != nil {
		return nil, err
	}

	// Track whether the rename succeeded so the deferred cleanup knows
	// whether to remove the temp binary.
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tempBinaryPath)
		}
	}()

	if err := os.Chmod(tempBinaryPath, 0o755); err != nil {
		return nil, fmt.Errorf("setting binary permissions: %w", err)
	}

	if err := os.Rename(tempBinaryPath, destPath); err != nil {
		return nil, fmt.Errorf("installing binary to %s: %w", destPath, err)
	}
	renamed = true

	return &Result{
		Status:  StatusInstalled,
		Version: release.TagName,
		Path:    destPath,
	}, nil
}

// expectedChecksum downloads and parses the per-asset ".sha256" companion
// file when the release publishes one. An absent companion is not an
// error; verification then falls back to structural checks only.
func (i *Installer) expectedChecksum(ctx context.Context, assets []Asset, assetName string) (string, error) {
	companion, err := findAsset(assets, assetName+".sha256")
	if err != nil {
		return "", nil
	}

	body, err := i.client.DownloadAsset(ctx, companion.BrowserDownloadURL)
	if err != nil {
		return "", fmt.Errorf("downloading checksum for %s: %w", assetName, err)
	}
	defer func() { _ = body.Close() }() // read-only HTTP response body

	entries, err := ParseChecksums(body)
	if err != nil {
		return "", fmt.Errorf("parsing checksum for %s: %w", assetName, err)
	}

	hash, err := FindChecksum(entries, assetName)
	if err != nil {
		return "", fmt.Errorf("checksum for %s: %w", assetName, err)
	}
	return hash, nil
}

// verifyArtifact checks the downloaded artifact before expansion: it must
// be non-empty, carry the gzip magic bytes, and match the expected SHA256
// hash when one is available.
func verifyArtifact(path, expectedHash string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("inspecting artifact: %w", err)
	}
	if info.Size() == 0 {
		return &CorruptArtifactError{Path: path, Reason: "empty file"}
	}

	magic := make([]byte, 2)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("inspecting artifact: %w", err)
	}
	_, readErr := io.ReadFull(f, magic)
	_ = f.Close()
	if readErr != nil || magic[0] != 0x1f || magic[1] != 0x8b {
		return &CorruptArtifactError{Path: path, Reason: "not a gzip stream"}
	}

	if expectedHash != "" {
		if err := VerifyFile(path, expectedHash); err != nil {
			var csErr *ChecksumError
			if errors.As(err, &csErr) {
				return &CorruptArtifactError{Path: path, Reason: csErr.Error()}
			}
			return err
		}
	}

	return nil
}

// expandGzipBinary decompresses the single-file gzip artifact at
// artifactPath into a temp file inside destDir and returns its path. The
// caller owns the returned file.
func expandGzipBinary(artifactPath, destDir string) (_ string, err error) {
	f, err := os.Open(artifactPath)
	if err != nil {
		return "", fmt.Errorf("opening artifact: %w", err)
	}
	defer func() {
		// Read-only file handle; close errors are exotic.
		_ = f.Close()
	}()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return "", &CorruptArtifactError{Path: artifactPath, Reason: "invalid gzip stream"}
	}
	defer func() {
		// The gzip reader wraps the underlying file; close errors are not
		// actionable here since we only read from it.
		_ = gz.Close()
	}()

	tmp, err := os.CreateTemp(destDir, "wrench-install-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file for binary: %w", err)
	}

	if copyErr := func() (copyErr error) {
		defer func() {
			if closeErr := tmp.Close(); closeErr != nil && copyErr == nil {
				copyErr = closeErr
			}
		}()
		// Read one byte past maxBinaryBytes so oversized streams are
		// detected instead of silently truncated.
		n, copyErr := io.Copy(tmp, io.LimitReader(gz, maxBinaryBytes+1))
		if copyErr != nil {
			return &CorruptArtifactError{Path: artifactPath, Reason: "truncated gzip stream"}
		}
		if n > maxBinaryBytes {
			return &CorruptArtifactError{Path: artifactPath, Reason: fmt.Sprintf("decompressed size exceeds %d byte limit", int64(maxBinaryBytes))}
		}
		return nil
	}(); copyErr != nil {
		// Best-effort removal of partially written temp file.
		_ = os.Remove(tmp.Name())
		return "", copyErr
	}

	return tmp.Name(), nil
}

// findAsset scans the release assets for one with the given name. Returns
// ErrAssetNotFound if no match is found.
func findAsset(assets []Asset, name string) (*Asset, error) {
	for i := range assets {
		if assets[i].Name == name {
			return &assets[i], nil
		}
	}
	return nil, fmt.Errorf("asset %q: %w", name, ErrAssetNotFound)
}
