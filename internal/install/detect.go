// SPDX-License-Identifier: MPL-2.0

package install

import (
	"fmt"
	"runtime"
)

// ServerBinaryBase is the language server binary name without any
// platform-specific extension.
const ServerBinaryBase = "rust-analyzer"

var (
	// goos and goarch are test seams for runtime.GOOS/GOARCH so platform
	// detection can be exercised for every combination on one host.
	//
	//nolint:gochecknoglobals // Test seam requires a package-level variable.
	goos = runtime.GOOS
	//nolint:gochecknoglobals // Test seam requires a package-level variable.
	goarch = runtime.GOARCH
)

// triples maps GOOS/GOARCH pairs to the target triples the language server
// publishes release assets for.
//
//nolint:gochecknoglobals // Static lookup table.
var triples = map[string]string{
	"linux/amd64":   "x86_64-unknown-linux-gnu",
	"linux/arm64":   "aarch64-unknown-linux-gnu",
	"darwin/amd64":  "x86_64-apple-darwin",
	"darwin/arm64":  "aarch64-apple-darwin",
	"windows/amd64": "x86_64-pc-windows-msvc",
	"windows/arm64": "aarch64-pc-windows-msvc",
}

// DetectPlatform maps the host OS and architecture to the release target
// triple. Returns an UnsupportedPlatformError when no asset is published
// for the combination.
func DetectPlatform() (string, error) {
	triple, ok := triples[goos+"/"+goarch]
	if !ok {
		return "", &UnsupportedPlatformError{OS: goos, Arch: goarch}
	}
	return triple, nil
}

// AssetName returns the release asset filename for the given target triple,
// e.g. "rust-analyzer-x86_64-unknown-linux-gnu.gz".
func AssetName(triple string) string {
	return fmt.Sprintf("%s-%s.gz", ServerBinaryBase, triple)
}

// ServerBinaryName returns the installed binary filename for the host,
// appending .exe on Windows.
func ServerBinaryName() string {
	if goos == "windows" {
		return ServerBinaryBase + ".exe"
	}
	return ServerBinaryBase
}
