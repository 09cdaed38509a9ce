// SPDX-License-Identifier: MPL-2.0

package alias

import (
	"errors"
	"reflect"
	"testing"
)

func TestResolve_Builtins(t *testing.T) {
	t.Parallel()

	table, err := New(Builtins())
	if err != nil {
		t.Fatalf("building table: %v", err)
	}

	tests := []struct {
		name         string
		wantTemplate []string
	}{
		{
			name:         "xtask",
			wantTemplate: []string{"run", "--package", "xtask", "--bin", "xtask", "--", ArgsPlaceholder},
		},
		{
			name:         "tq",
			wantTemplate: []string{"test", ArgsPlaceholder, "--", "-q"},
		},
		{
			// qt is flattened to tq's template at construction.
			name:         "qt",
			wantTemplate: []string{"test", ArgsPlaceholder, "--", "-q"},
		},
		{
			name:         "lint",
			wantTemplate: []string{"clippy", "--all-targets", "--", "--cap-lints", "warn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := table.Resolve(tt.name)
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tt.name, err)
			}
			if !reflect.DeepEqual(got.Template, tt.wantTemplate) {
				t.Errorf("Resolve(%q).Template = %v, want %v", tt.name, got.Template, tt.wantTemplate)
			}
		})
	}
}

func TestResolve_UnknownName(t *testing.T) {
	t.Parallel()

	table, err := New(Builtins())
	if err != nil {
		t.Fatalf("building table: %v", err)
	}

	// Exact-match only: near-misses and prefixes must not resolve.
	for _, name := range []string{"t", "tq ", "TQ", "tqx", "xtas", "install", ""} {
		if _, err := table.Resolve(name); !errors.Is(err, ErrUnknownAlias) {
			t.Errorf("Resolve(%q): got %v, want ErrUnknownAlias", name, err)
		}
	}
}

func TestExpand_PlaceholderPosition(t *testing.T) {
	t.Parallel()

	table, err := New(Builtins())
	if err != nil {
		t.Fatalf("building table: %v", err)
	}

	entry, err := table.Resolve("tq")
	if err != nil {
		t.Fatalf("Resolve(tq): %v", err)
	}

	// tq --filter foo must expand to the test command with the trailing args
	// at the placeholder position, before the fixed "-- -q" suffix.
	got, err := entry.Expand([]string{"--filter", "foo"})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []string{"test", "--filter", "foo", "--", "-q"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand = %v, want %v", got, want)
	}
}

func TestExpand_NoPlaceholderAppends(t *testing.T) {
	t.Parallel()

	entry := Entry{
		Name:                "check",
		Template:            []string{"check", "--workspace"},
		AcceptsTrailingArgs: true,
	}

	got, err := entry.Expand([]string{"--quiet"})
	if err != nil {
		t.Fatalf("Expand: %v", err)
	}
	want := []string{"check", "--workspace", "--quiet"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expand = %v, want %v", got, want)
	}
}

func TestExpand_ArgumentsNotAccepted(t *testing.T) {
	t.Parallel()

	entry := Entry{
		Name:                "fmt",
		Template:            []string{"fmt", "--all"},
		AcceptsTrailingArgs: false,
	}

	if _, err := entry.Expand([]string{"--check"}); !errors.Is(err, ErrArgumentsNotAccepted) {
		t.Errorf("Expand with trailing args: got %v, want ErrArgumentsNotAccepted", err)
	}

	// Without trailing args the non-accepting entry expands normally.
	got, err := entry.Expand(nil)
	if err != nil {
		t.Fatalf("Expand(nil): %v", err)
	}
	if !reflect.DeepEqual(got, []string{"fmt", "--all"}) {
		t.Errorf("Expand(nil) = %v", got)
	}
}

func TestParseEntry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		template string
		wantToks []string
		wantErr  bool
	}{
		{
			name:     "plain tokens",
			template: "test -- -q",
			wantToks: []string{"test", "--", "-q"},
		},
		{
			name:     "quoted token survives splitting",
			template: `run --message "hello world"`,
			wantToks: []string{"run", "--message", "hello world"},
		},
		{
			name:     "placeholder token",
			template: "test {args} -- -q",
			wantToks: []string{"test", "{args}", "--", "-q"},
		},
		{
			name:     "empty template rejected",
			template: "   ",
			wantErr:  true,
		},
		{
			name:     "double placeholder rejected",
			template: "test {args} {args}",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entry, err := ParseEntry("x", tt.template, false)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseEntry(%q): expected error", tt.template)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEntry(%q): %v", tt.template, err)
			}
			if !reflect.DeepEqual(entry.Template, tt.wantToks) {
				t.Errorf("tokens = %v, want %v", entry.Template, tt.wantToks)
			}
		})
	}
}

func TestNew_UserEntriesOverrideBuiltins(t *testing.T) {
	t.Parallel()

	custom := Entry{
		Name:                "lint",
		Template:            []string{"clippy", "--workspace"},
		AcceptsTrailingArgs: true,
	}

	table, err := New(append(Builtins(), custom))
	if err != nil {
		t.Fatalf("building table: %v", err)
	}

	got, err := table.Resolve("lint")
	if err != nil {
		t.Fatalf("Resolve(lint): %v", err)
	}
	if !reflect.DeepEqual(got.Template, custom.Template) {
		t.Errorf("Resolve(lint).Template = %v, want override %v", got.Template, custom.Template)
	}
}

func TestNew_AliasCycle(t *testing.T) {
	t.Parallel()

	entries := []Entry{
		{Name: "a", Template: []string{"b"}, AcceptsTrailingArgs: true},
		{Name: "b", Template: []string{"a"}, AcceptsTrailingArgs: true},
	}

	if _, err := New(entries); !errors.Is(err, ErrAliasCycle) {
		t.Errorf("New with cycle: got %v, want ErrAliasCycle", err)
	}
}

func TestNew_SelfNamedEntryIsLiteral(t *testing.T) {
	t.Parallel()

	// An entry naming itself passes the name through to the runner as a
	// plain subcommand; it is not a cycle.
	entries := []Entry{
		{Name: "check", Template: []string{"check"}, AcceptsTrailingArgs: true},
	}

	table, err := New(entries)
	if err != nil {
		t.Fatalf("building table: %v", err)
	}

	got, err := table.Resolve("check")
	if err != nil {
		t.Fatalf("Resolve(check): %v", err)
	}
	if !reflect.DeepEqual(got.Template, []string{"check"}) {
		t.Errorf("Resolve(check).Template = %v, want [check]", got.Template)
	}
}

func TestNew_ReferenceToSelfNamedEntry(t *testing.T) {
	t.Parallel()

	// c references tests, which is itself a literal passthrough; the chain
	// flattens to the passthrough rather than erroring.
	entries := []Entry{
		{Name: "tests", Template: []string{"tests"}, AcceptsTrailingArgs: true},
		{Name: "c", Template: []string{"tests"}, AcceptsTrailingArgs: false},
	}

	table, err := New(entries)
	if err != nil {
		t.Fatalf("building table: %v", err)
	}

	got, err := table.Resolve("c")
	if err != nil {
		t.Fatalf("Resolve(c): %v", err)
	}
	if !reflect.DeepEqual(got.Template, []string{"tests"}) {
		t.Errorf("Resolve(c).Template = %v, want [tests]", got.Template)
	}
	if !got.AcceptsTrailingArgs {
		t.Errorf("Resolve(c).AcceptsTrailingArgs = false, want the target's value")
	}
}

func TestNames_Sorted(t *testing.T) {
	t.Parallel()

	table, err := New(Builtins())
	if err != nil {
		t.Fatalf("building table: %v", err)
	}

	want := []string{"lint", "qt", "tq", "xtask"}
	if got := table.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}
