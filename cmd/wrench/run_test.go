// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"testing"

	"wrench-cli/internal/alias"
	"wrench-cli/internal/config"
)

func TestBuildAliasTable_BuiltinsOnly(t *testing.T) {
	table, err := buildAliasTable(config.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"xtask", "tq", "qt", "lint"} {
		if _, resolveErr := table.Resolve(name); resolveErr != nil {
			t.Errorf("expected built-in alias %q, got: %v", name, resolveErr)
		}
	}
}

func TestBuildAliasTable_ConfigAliasesLayerOverBuiltins(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Aliases = map[string]config.AliasSpec{
		"cov":  {Run: "llvm-cov --workspace {args}"},
		"lint": {Run: "clippy --workspace -- -D warnings"},
	}

	table, err := buildAliasTable(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cov, err := table.Resolve("cov")
	if err != nil {
		t.Fatalf("expected config alias cov: %v", err)
	}
	if cov.Template[0] != "llvm-cov" {
		t.Errorf("cov template starts with %q, want llvm-cov", cov.Template[0])
	}

	// Config entry replaces the built-in of the same name.
	lint, err := table.Resolve("lint")
	if err != nil {
		t.Fatalf("expected lint alias: %v", err)
	}
	if lint.Template[1] != "--workspace" {
		t.Errorf("lint template = %v, want the config override", lint.Template)
	}
}

func TestBuildAliasTable_InvalidAlias(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Aliases = map[string]config.AliasSpec{
		"bad": {Run: "build {args} extra {args}"},
	}

	if _, err := buildAliasTable(cfg); err == nil {
		t.Fatal("expected error for alias with two placeholders")
	}
}

func TestBuildAliasTable_UnknownAliasReference(t *testing.T) {
	table, err := buildAliasTable(config.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := table.Resolve("frobnicate"); !errors.Is(err, alias.ErrUnknownAlias) {
		t.Errorf("expected ErrUnknownAlias, got: %v", err)
	}
}
