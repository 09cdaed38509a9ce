// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"wrench-cli/internal/alias"
	"wrench-cli/internal/config"
	"wrench-cli/internal/dispatch"
	"wrench-cli/internal/toolchain"
)

// buildAliasTable layers config-defined aliases over the built-in table.
func buildAliasTable(cfg *config.Config) (*alias.Table, error) {
	entries := alias.Builtins()

	for name, spec := range cfg.Aliases {
		entry, err := alias.ParseEntry(name, spec.Run, spec.NoTrailingArgs)
		if err != nil {
			return nil, fmt.Errorf("alias %q: %w", name, err)
		}
		entries = append(entries, entry)
	}

	return alias.New(entries)
}

// registerAliasCommands adds one passthrough subcommand per alias so they
// appear in help output. DisableFlagParsing hands every trailing token,
// flags included, to the runner untouched.
func registerAliasCommands(root *cobra.Command) {
	table, err := buildAliasTable(loadedConfig())
	if err != nil {
		// Reported again with full context when a dispatch is attempted.
		return
	}

	for _, name := range table.Names() {
		name := name
		// Alias resolution wins over same-named builtins, so a colliding
		// subcommand gives way to the table entry.
		for _, existing := range root.Commands() {
			if existing.Name() == name {
				root.RemoveCommand(existing)
				break
			}
		}
		root.AddCommand(&cobra.Command{
			Use:                name,
			Short:              fmt.Sprintf("Run the %q alias through the workspace runner", name),
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runAlias(cmd, name, args)
			},
		})
	}
}

// runAlias dispatches name with trailing args through the alias table and
// reports the child's exit code via ExitError.
func runAlias(cmd *cobra.Command, name string, args []string) error {
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	cfg := loadedConfig()

	table, err := buildAliasTable(cfg)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return &ExitError{Code: dispatch.ExitResolutionFailure, Err: err}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return &ExitError{Code: dispatch.ExitFailure, Err: fmt.Errorf("determining working directory: %w", err)}
	}

	buildCfg, err := toolchain.LoadBuildConfig(cwd)
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
		return &ExitError{Code: dispatch.ExitFailure, Err: err}
	}

	resolver := toolchain.NewResolver(buildCfg.Profiles()...)
	triple := toolchain.ActiveTriple(buildCfg)

	d := dispatch.NewDispatcher(cfg.Runner, table, resolver,
		dispatch.WithLogger(newDispatchLogger()),
		dispatch.WithActiveTriple(triple),
		dispatch.WithIO(cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr()))

	result := d.Dispatch(cmd.Context(), name, args)
	if result.Error != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(result.Error, verbose))
		renderIssueCard(cmd.ErrOrStderr(), result.Error)
		return &ExitError{Code: result.ExitCode, Err: result.Error}
	}

	if !result.ExitCode.IsSuccess() {
		// The child already wrote its own diagnostics; just carry the code.
		return &ExitError{Code: result.ExitCode}
	}

	return nil
}

// newDispatchLogger builds the dispatch tracing logger. Debug output only
// appears in verbose mode.
func newDispatchLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "wrench",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
