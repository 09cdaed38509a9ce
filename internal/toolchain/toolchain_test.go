// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOverridesFor_WindowsMSVCBuiltin(t *testing.T) {
	t.Parallel()

	r := NewResolver()

	got := r.OverridesFor(TripleWindowsMSVC)
	want := "rust-lld"
	if got["CARGO_TARGET_X86_64_PC_WINDOWS_MSVC_LINKER"] != want {
		t.Errorf("overrides = %v, want linker %q", got, want)
	}
	if len(got) != 1 {
		t.Errorf("expected a single override, got %v", got)
	}
}

func TestOverridesFor_UnknownTripleIsEmpty(t *testing.T) {
	t.Parallel()

	r := NewResolver()

	for _, triple := range []string{"x86_64-unknown-linux-gnu", "aarch64-apple-darwin", ""} {
		if got := r.OverridesFor(triple); len(got) != 0 {
			t.Errorf("OverridesFor(%q) = %v, want empty", triple, got)
		}
	}
}

func TestOverridesFor_ReturnsCopy(t *testing.T) {
	t.Parallel()

	r := NewResolver()

	first := r.OverridesFor(TripleWindowsMSVC)
	first["CARGO_TARGET_X86_64_PC_WINDOWS_MSVC_LINKER"] = "mutated"
	first["EXTRA"] = "x"

	second := r.OverridesFor(TripleWindowsMSVC)
	if second["CARGO_TARGET_X86_64_PC_WINDOWS_MSVC_LINKER"] != "rust-lld" {
		t.Errorf("resolver state mutated through returned map: %v", second)
	}
	if _, ok := second["EXTRA"]; ok {
		t.Errorf("resolver state grew through returned map: %v", second)
	}
}

func TestNewResolver_ExtraProfilesMerge(t *testing.T) {
	t.Parallel()

	r := NewResolver(
		Profile{Triple: "aarch64-unknown-linux-musl", Env: map[string]string{"CC": "musl-gcc"}},
		Profile{Triple: TripleWindowsMSVC, Env: map[string]string{
			LinkerEnvVar(TripleWindowsMSVC): "lld-link",
		}},
	)

	if got := r.OverridesFor("aarch64-unknown-linux-musl")["CC"]; got != "musl-gcc" {
		t.Errorf("extra profile not applied, CC = %q", got)
	}

	// File-sourced value wins over the built-in for the same key.
	if got := r.OverridesFor(TripleWindowsMSVC)[LinkerEnvVar(TripleWindowsMSVC)]; got != "lld-link" {
		t.Errorf("extra profile should override built-in, linker = %q", got)
	}
}

func TestLinkerEnvVar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		triple string
		want   string
	}{
		{"x86_64-pc-windows-msvc", "CARGO_TARGET_X86_64_PC_WINDOWS_MSVC_LINKER"},
		{"aarch64-apple-darwin", "CARGO_TARGET_AARCH64_APPLE_DARWIN_LINKER"},
		{"thumbv7em-none-eabihf", "CARGO_TARGET_THUMBV7EM_NONE_EABIHF_LINKER"},
	}

	for _, tt := range tests {
		if got := LinkerEnvVar(tt.triple); got != tt.want {
			t.Errorf("LinkerEnvVar(%q) = %q, want %q", tt.triple, got, tt.want)
		}
	}
}

func TestActiveTriple_EnvWinsOverFile(t *testing.T) {
	// Not parallel: swaps the package-level getenv seam.
	orig := getenv
	t.Cleanup(func() { getenv = orig })

	cfg := &BuildConfig{Build: BuildSection{Target: "x86_64-unknown-linux-gnu"}}

	getenv = func(key string) string {
		if key == TargetEnvVar {
			return TripleWindowsMSVC
		}
		return ""
	}
	if got := ActiveTriple(cfg); got != TripleWindowsMSVC {
		t.Errorf("ActiveTriple = %q, want env value", got)
	}

	getenv = func(string) string { return "" }
	if got := ActiveTriple(cfg); got != "x86_64-unknown-linux-gnu" {
		t.Errorf("ActiveTriple = %q, want file value", got)
	}
	if got := ActiveTriple(nil); got != "" {
		t.Errorf("ActiveTriple(nil) = %q, want empty", got)
	}
}

func TestLoadBuildConfig_WalksUp(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "crates", "server")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(root, ".config"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	content := `
[build]
target = "x86_64-pc-windows-msvc"

[target.x86_64-pc-windows-msvc]
linker = "rust-lld"

[target.aarch64-unknown-linux-musl.env]
CC = "musl-gcc"
`
	if err := os.WriteFile(filepath.Join(root, ".config", "build.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadBuildConfig(nested)
	if err != nil {
		t.Fatalf("LoadBuildConfig: %v", err)
	}

	if cfg.Build.Target != "x86_64-pc-windows-msvc" {
		t.Errorf("Build.Target = %q", cfg.Build.Target)
	}
	if cfg.Target["x86_64-pc-windows-msvc"].Linker != "rust-lld" {
		t.Errorf("windows linker = %q", cfg.Target["x86_64-pc-windows-msvc"].Linker)
	}

	profiles := cfg.Profiles()
	byTriple := make(map[string]map[string]string, len(profiles))
	for _, p := range profiles {
		byTriple[p.Triple] = p.Env
	}
	if byTriple["x86_64-pc-windows-msvc"]["CARGO_TARGET_X86_64_PC_WINDOWS_MSVC_LINKER"] != "rust-lld" {
		t.Errorf("profiles missing derived linker var: %v", profiles)
	}
	if byTriple["aarch64-unknown-linux-musl"]["CC"] != "musl-gcc" {
		t.Errorf("profiles missing env table: %v", profiles)
	}
}

func TestLoadBuildConfig_MissingIsEmpty(t *testing.T) {
	t.Parallel()

	cfg, err := LoadBuildConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadBuildConfig: %v", err)
	}
	if cfg.Build.Target != "" || len(cfg.Target) != 0 {
		t.Errorf("expected empty config, got %+v", cfg)
	}
}

func TestLoadBuildConfig_MalformedTOML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".config"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".config", "build.toml"), []byte("[build\ntarget ="), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := LoadBuildConfig(dir); err == nil {
		t.Fatal("expected parse error for malformed TOML")
	}
}
