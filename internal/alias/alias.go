// SPDX-License-Identifier: MPL-2.0

// Package alias holds the static table mapping short command names to
// invocation templates of the workspace runner. The table is built once at
// startup and is read-only afterwards.
package alias

import (
	"errors"
	"fmt"
	"slices"

	"mvdan.cc/sh/v3/shell"
)

// ArgsPlaceholder marks the position in a template where caller-supplied
// trailing arguments are spliced in. A template may contain at most one
// placeholder; templates without one receive trailing arguments at the end.
const ArgsPlaceholder = "{args}"

var (
	// ErrUnknownAlias indicates the requested name has no table entry.
	ErrUnknownAlias = errors.New("unknown alias")

	// ErrArgumentsNotAccepted indicates trailing arguments were supplied to
	// an alias that does not accept them.
	ErrArgumentsNotAccepted = errors.New("alias does not accept arguments")

	// ErrAliasCycle indicates alias-to-alias references form a cycle.
	ErrAliasCycle = errors.New("alias cycle")
)

type (
	// Entry is a single alias: a name bound to an ordered invocation template
	// for the runner binary. Template tokens are literals except for an
	// optional ArgsPlaceholder.
	Entry struct {
		Name                string
		Template            []string
		AcceptsTrailingArgs bool
	}

	// Table is an immutable name -> Entry mapping. Construct via New;
	// lookups are exact and case-sensitive.
	Table struct {
		entries map[string]Entry
	}
)

// Builtins returns the alias entries every workspace starts with. They mirror
// the workspace runner configuration this tool fronts: a passthrough to the
// in-tree task-runner binary, quiet test shortcuts, and the lint invocation.
func Builtins() []Entry {
	return []Entry{
		{
			Name:                "xtask",
			Template:            []string{"run", "--package", "xtask", "--bin", "xtask", "--", ArgsPlaceholder},
			AcceptsTrailingArgs: true,
		},
		{
			Name:                "tq",
			Template:            []string{"test", ArgsPlaceholder, "--", "-q"},
			AcceptsTrailingArgs: true,
		},
		{
			// qt is an alias of tq; New flattens it to tq's template.
			Name:                "qt",
			Template:            []string{"tq"},
			AcceptsTrailingArgs: true,
		},
		{
			Name:                "lint",
			Template:            []string{"clippy", "--all-targets", "--", "--cap-lints", "warn"},
			AcceptsTrailingArgs: true,
		},
	}
}

// ParseEntry builds an Entry from a config-sourced template string. The
// string is split into tokens with POSIX word-splitting rules so quoted
// tokens survive intact.
func ParseEntry(name, template string, noTrailingArgs bool) (Entry, error) {
	tokens, err := shell.Fields(template, nil)
	if err != nil {
		return Entry{}, fmt.Errorf("parsing alias %q template: %w", name, err)
	}
	if len(tokens) == 0 {
		return Entry{}, fmt.Errorf("alias %q: template must not be empty", name)
	}

	entry := Entry{
		Name:                name,
		Template:            tokens,
		AcceptsTrailingArgs: !noTrailingArgs,
	}
	if err := entry.validate(); err != nil {
		return Entry{}, err
	}

	return entry, nil
}

// New builds a Table from entries. Later entries override earlier ones with
// the same name, so callers can layer user-defined aliases over Builtins().
// Alias-to-alias references (a single-token template naming another entry)
// are flattened at construction time; dispatch never chains lookups.
func New(entries []Entry) (*Table, error) {
	m := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if err := e.validate(); err != nil {
			return nil, err
		}
		m[e.Name] = e
	}

	// Flatten alias-of-alias entries. The visited set bounds the walk so a
	// reference cycle reports an error instead of looping.
	for name, e := range m {
		flat, err := flatten(m, e, map[string]bool{name: true})
		if err != nil {
			return nil, err
		}
		m[name] = flat
	}

	return &Table{entries: m}, nil
}

// flatten resolves entries whose template is a bare reference to another
// alias. Only single-token templates are treated as references; anything
// longer is a literal runner invocation.
func flatten(m map[string]Entry, e Entry, visited map[string]bool) (Entry, error) {
	for len(e.Template) == 1 {
		target, ok := m[e.Template[0]]
		if !ok {
			return e, nil
		}
		// An entry whose template names itself is a passthrough to the
		// runner subcommand of the same name, not a reference.
		if len(target.Template) == 1 && target.Template[0] == target.Name {
			e.Template = target.Template
			e.AcceptsTrailingArgs = target.AcceptsTrailingArgs
			return e, nil
		}
		if visited[target.Name] {
			return Entry{}, fmt.Errorf("%w: %q references itself", ErrAliasCycle, target.Name)
		}
		visited[target.Name] = true
		e.Template = target.Template
		e.AcceptsTrailingArgs = target.AcceptsTrailingArgs
	}
	return e, nil
}

// Resolve returns the entry for name. Matching is exact: no prefix or fuzzy
// matching, ever. Unknown names return ErrUnknownAlias so the dispatcher can
// decide whether name is a built-in subcommand instead.
func (t *Table) Resolve(name string) (Entry, error) {
	e, ok := t.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownAlias, name)
	}
	return e, nil
}

// Names returns all alias names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Expand produces the final runner argument list: fixed template tokens with
// extraArgs spliced in at the placeholder position, or appended when the
// template has none. Supplying extraArgs to a non-accepting entry is an
// ErrArgumentsNotAccepted error.
func (e Entry) Expand(extraArgs []string) ([]string, error) {
	if len(extraArgs) > 0 && !e.AcceptsTrailingArgs {
		return nil, fmt.Errorf("%w: %q", ErrArgumentsNotAccepted, e.Name)
	}

	out := make([]string, 0, len(e.Template)+len(extraArgs))
	placed := false
	for _, tok := range e.Template {
		if tok == ArgsPlaceholder {
			out = append(out, extraArgs...)
			placed = true
			continue
		}
		out = append(out, tok)
	}
	if !placed {
		out = append(out, extraArgs...)
	}

	return out, nil
}

// validate enforces the entry invariants: non-empty name and template, and
// at most one placeholder token.
func (e Entry) validate() error {
	if e.Name == "" {
		return errors.New("alias name must not be empty")
	}
	if len(e.Template) == 0 {
		return fmt.Errorf("alias %q: template must not be empty", e.Name)
	}

	placeholders := 0
	for _, tok := range e.Template {
		if tok == ArgsPlaceholder {
			placeholders++
		}
	}
	if placeholders > 1 {
		return fmt.Errorf("alias %q: template has %d %s placeholders, at most one allowed", e.Name, placeholders, ArgsPlaceholder)
	}

	return nil
}
