// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wrench-cli/internal/dispatch"
)

// newAliasesCommand creates the `wrench aliases` command, which lists every
// alias with its full runner expansion.
func newAliasesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "aliases",
		Short: "List all command aliases and their expansions",
		Long: `List all command aliases and their expansions.

Built-in aliases are always present; aliases from the configuration
file are layered on top and may override them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg := loadedConfig()
			table, err := buildAliasTable(cfg)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
				return &ExitError{Code: dispatch.ExitResolutionFailure, Err: err}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, TitleStyle.Render("Aliases")+SubtitleStyle.Render(" (runner: "+cfg.Runner+")"))
			fmt.Fprintln(out)

			names := table.Names()
			width := 0
			for _, name := range names {
				if len(name) > width {
					width = len(name)
				}
			}

			for _, name := range names {
				entry, resolveErr := table.Resolve(name)
				if resolveErr != nil {
					continue
				}

				expansion := cfg.Runner + " " + strings.Join(entry.Template, " ")
				line := fmt.Sprintf("  %s  %s",
					CmdStyle.Render(fmt.Sprintf("%-*s", width, name)),
					expansion)
				if !entry.AcceptsTrailingArgs {
					line += VerboseStyle.Render("  (no trailing args)")
				}
				fmt.Fprintln(out, line)
			}

			return nil
		},
	}
}
