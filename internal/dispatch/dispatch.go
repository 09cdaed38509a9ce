// SPDX-License-Identifier: MPL-2.0

// Package dispatch resolves a command name through the alias table and runs
// the resulting runner invocation as a child process. The caller's streams
// are wired straight through and the child's exit code is reported verbatim.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"

	"github.com/charmbracelet/log"

	"wrench-cli/internal/alias"
	"wrench-cli/internal/toolchain"
)

// ErrRunnerNotFound is the sentinel error wrapped by RunnerNotFoundError.
var ErrRunnerNotFound = errors.New("runner not found")

type (
	// RunnerNotFoundError is returned when the configured runner binary is
	// not present on PATH. It wraps ErrRunnerNotFound for errors.Is()
	// compatibility.
	RunnerNotFoundError struct {
		Runner string
		Err    error
	}

	// Result carries the outcome of a dispatch. A non-zero ExitCode with a
	// nil Error means the child ran and failed on its own terms; Error is
	// set only when dispatch itself could not run the command.
	Result struct {
		ExitCode ExitCode
		Error    error
	}

	// Dispatcher resolves names against an alias table and spawns exactly
	// one runner process per dispatch.
	Dispatcher struct {
		runner   string
		table    *alias.Table
		resolver *toolchain.Resolver
		triple   string
		logger   *log.Logger
		stdin    io.Reader
		stdout   io.Writer
		stderr   io.Writer
		workDir  string
	}

	// Option configures a Dispatcher during construction.
	Option func(*Dispatcher)
)

// Error formats the missing runner with its name.
func (e *RunnerNotFoundError) Error() string {
	return fmt.Sprintf("runner %q not found on PATH: %v", e.Runner, e.Err)
}

// Unwrap returns the underlying errors so both ErrRunnerNotFound and the
// original exec error are reachable via errors.Is/errors.As.
func (e *RunnerNotFoundError) Unwrap() []error { return []error{ErrRunnerNotFound, e.Err} }

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal child termination
// rather than dispatch failures.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}

// WithLogger sets the logger used for verbose dispatch tracing.
func WithLogger(logger *log.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithIO wires the child process streams. Nil values keep the defaults
// (the current process's standard streams).
func WithIO(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(d *Dispatcher) {
		if stdin != nil {
			d.stdin = stdin
		}
		if stdout != nil {
			d.stdout = stdout
		}
		if stderr != nil {
			d.stderr = stderr
		}
	}
}

// WithWorkDir sets the child process working directory. Empty inherits the
// current directory.
func WithWorkDir(dir string) Option {
	return func(d *Dispatcher) {
		d.workDir = dir
	}
}

// WithActiveTriple sets the build target triple whose environment overrides
// are applied to the child process.
func WithActiveTriple(triple string) Option {
	return func(d *Dispatcher) {
		d.triple = triple
	}
}

// NewDispatcher creates a Dispatcher for the given runner binary, alias
// table, and toolchain resolver.
func NewDispatcher(runner string, table *alias.Table, resolver *toolchain.Resolver, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		runner:   runner,
		table:    table,
		resolver: resolver,
		logger:   log.Default(),
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Argv resolves name and returns the full runner argv (runner binary first)
// without executing anything. Used for display and dry runs.
func (d *Dispatcher) Argv(name string, extraArgs []string) ([]string, error) {
	entry, err := d.table.Resolve(name)
	if err != nil {
		return nil, err
	}

	args, err := entry.Expand(extraArgs)
	if err != nil {
		return nil, err
	}

	return append([]string{d.runner}, args...), nil
}

// Dispatch resolves name through the alias table and runs the expanded
// invocation. Resolution failures (unknown name, refused trailing
// arguments) produce ExitResolutionFailure without spawning anything. The
// child's own exit code passes through untouched.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, extraArgs []string) *Result {
	entry, err := d.table.Resolve(name)
	if err != nil {
		return NewErrorResult(ExitResolutionFailure, err)
	}

	args, err := entry.Expand(extraArgs)
	if err != nil {
		return NewErrorResult(ExitResolutionFailure, err)
	}

	overrides := d.resolver.OverridesFor(d.triple)

	d.logger.Debug("dispatching",
		"runner", d.runner,
		"alias", name,
		"args", args,
		"triple", d.triple,
		"env_overrides", len(overrides))

	cmd := exec.CommandContext(ctx, d.runner, args...)
	cmd.Env = append(os.Environ(), envPairs(overrides)...)
	cmd.Stdin = d.stdin
	cmd.Stdout = d.stdout
	cmd.Stderr = d.stderr
	if d.workDir != "" {
		cmd.Dir = d.workDir
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return NewExitCodeResult(ExitCode(exitErr.ExitCode()))
		}
		if errors.Is(err, exec.ErrNotFound) {
			return NewErrorResult(ExitFailure, &RunnerNotFoundError{Runner: d.runner, Err: err})
		}
		return NewErrorResult(ExitFailure, fmt.Errorf("running %s: %w", d.runner, err))
	}

	return NewExitCodeResult(ExitSuccess)
}

// envPairs renders overrides as KEY=VALUE strings in deterministic key
// order, suitable for appending to os.Environ().
func envPairs(overrides map[string]string) []string {
	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+overrides[k])
	}
	return pairs
}
