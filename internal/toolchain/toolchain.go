// SPDX-License-Identifier: MPL-2.0

// Package toolchain resolves per-target-triple environment overrides that are
// applied to the runner's environment before dispatch. Profiles come from a
// small built-in set plus the workspace build configuration file.
package toolchain

import (
	"maps"
	"os"
	"strings"
)

const (
	// TripleWindowsMSVC is the Windows x86-64 MSVC target triple for which a
	// faster linker is configured out of the box.
	TripleWindowsMSVC = "x86_64-pc-windows-msvc"

	// fastWindowsLinker replaces the default MSVC linker. This is purely a
	// link-time speedup; produced binaries are unaffected beyond diagnostics.
	fastWindowsLinker = "rust-lld"

	// TargetEnvVar names the environment variable carrying the active build
	// target triple. It takes precedence over the build config file.
	TargetEnvVar = "WRENCH_TARGET"
)

//nolint:gochecknoglobals // Test seam for os.Getenv.
var getenv = os.Getenv

type (
	// Profile binds a target triple to additive environment overrides.
	Profile struct {
		Triple string
		Env    map[string]string
	}

	// Resolver answers override lookups by triple. Zero overrides for an
	// unknown triple is the normal case, not an error.
	Resolver struct {
		profiles map[string]map[string]string
	}
)

// NewResolver builds a Resolver from the built-in profiles layered with
// extra ones (typically file-sourced). Extra profiles merge per key over the
// built-ins for the same triple.
func NewResolver(extra ...Profile) *Resolver {
	profiles := map[string]map[string]string{
		TripleWindowsMSVC: {
			LinkerEnvVar(TripleWindowsMSVC): fastWindowsLinker,
		},
	}

	for _, p := range extra {
		if p.Triple == "" || len(p.Env) == 0 {
			continue
		}
		merged, ok := profiles[p.Triple]
		if !ok {
			merged = make(map[string]string, len(p.Env))
			profiles[p.Triple] = merged
		}
		maps.Copy(merged, p.Env)
	}

	return &Resolver{profiles: profiles}
}

// OverridesFor returns a copy of the environment overrides for triple.
// Unknown triples yield an empty map.
func (r *Resolver) OverridesFor(triple string) map[string]string {
	env, ok := r.profiles[triple]
	if !ok {
		return map[string]string{}
	}
	return maps.Clone(env)
}

// ActiveTriple reports the build target the current invocation is configured
// for: the TargetEnvVar environment variable when set, else the build config
// file's target, else empty (host default, no overrides).
func ActiveTriple(cfg *BuildConfig) string {
	if triple := getenv(TargetEnvVar); triple != "" {
		return triple
	}
	if cfg != nil {
		return cfg.Build.Target
	}
	return ""
}

// LinkerEnvVar derives the environment variable that selects the linker for
// a target triple, following the runner's convention of uppercasing the
// triple with separators mapped to underscores.
func LinkerEnvVar(triple string) string {
	mapped := strings.Map(func(r rune) rune {
		switch r {
		case '-', '.':
			return '_'
		}
		return r
	}, strings.ToUpper(triple))
	return "CARGO_TARGET_" + mapped + "_LINKER"
}
