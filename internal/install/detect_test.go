// SPDX-License-Identifier: MPL-2.0

package install

import (
	"errors"
	"testing"
)

// setPlatform overrides the detected OS/arch for the duration of a test.
func setPlatform(t *testing.T, os, arch string) {
	t.Helper()
	origOS, origArch := goos, goarch
	goos, goarch = os, arch
	t.Cleanup(func() {
		goos, goarch = origOS, origArch
	})
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		os   string
		arch string
		want string
	}{
		{"linux", "amd64", "x86_64-unknown-linux-gnu"},
		{"linux", "arm64", "aarch64-unknown-linux-gnu"},
		{"darwin", "amd64", "x86_64-apple-darwin"},
		{"darwin", "arm64", "aarch64-apple-darwin"},
		{"windows", "amd64", "x86_64-pc-windows-msvc"},
		{"windows", "arm64", "aarch64-pc-windows-msvc"},
	}

	for _, tt := range tests {
		t.Run(tt.os+"/"+tt.arch, func(t *testing.T) {
			setPlatform(t, tt.os, tt.arch)

			got, err := DetectPlatform()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectPlatform() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectPlatform_Unsupported(t *testing.T) {
	tests := []struct {
		os   string
		arch string
	}{
		{"linux", "riscv64"},
		{"freebsd", "amd64"},
		{"plan9", "386"},
	}

	for _, tt := range tests {
		t.Run(tt.os+"/"+tt.arch, func(t *testing.T) {
			setPlatform(t, tt.os, tt.arch)

			_, err := DetectPlatform()
			if !errors.Is(err, ErrUnsupportedPlatform) {
				t.Fatalf("expected ErrUnsupportedPlatform, got: %v", err)
			}

			var platErr *UnsupportedPlatformError
			if !errors.As(err, &platErr) {
				t.Fatalf("expected *UnsupportedPlatformError, got %T", err)
			}
			if platErr.OS != tt.os || platErr.Arch != tt.arch {
				t.Errorf("error reports %s/%s, want %s/%s", platErr.OS, platErr.Arch, tt.os, tt.arch)
			}
		})
	}
}

func TestAssetName(t *testing.T) {
	t.Parallel()

	got := AssetName("x86_64-unknown-linux-gnu")
	want := "rust-analyzer-x86_64-unknown-linux-gnu.gz"
	if got != want {
		t.Errorf("AssetName() = %q, want %q", got, want)
	}
}

func TestServerBinaryName(t *testing.T) {
	setPlatform(t, "linux", "amd64")
	if got := ServerBinaryName(); got != "rust-analyzer" {
		t.Errorf("ServerBinaryName() = %q, want rust-analyzer", got)
	}

	setPlatform(t, "windows", "amd64")
	if got := ServerBinaryName(); got != "rust-analyzer.exe" {
		t.Errorf("ServerBinaryName() = %q, want rust-analyzer.exe", got)
	}
}
