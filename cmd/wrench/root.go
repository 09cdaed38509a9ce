// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"wrench-cli/internal/config"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// Verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "wrench",
		Short: "A workspace task dispatcher for Rust projects",
		Long: TitleStyle.Render("wrench") + SubtitleStyle.Render(" - A workspace task dispatcher for Rust projects") + `

wrench fronts the workspace build tool with short command aliases,
applies per-target toolchain environment profiles before every
invocation, and provisions the rust-analyzer language server from
GitHub releases.

Aliases expand to full runner invocations; trailing arguments are
spliced into the expansion and the runner's exit code passes through
untouched.

` + SubtitleStyle.Render("Examples:") + `
  wrench xtask codegen      Run the in-tree task runner
  wrench tq --filter foo    Run tests quietly with a filter
  wrench lint               Run the workspace lint invocation
  wrench aliases            List every available alias
  wrench install            Install the rust-analyzer language server`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			// Catch-all for names without a registered subcommand, so
			// config-defined aliases work regardless of registration timing.
			return runAlias(cmd, args[0], args[1:])
		},
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/wrench/config.cue)")

	// Unknown names fall through to the catch-all RunE for dispatch, so
	// cobra must not reject flags meant for the child process.
	rootCmd.FParseErrWhitelist.UnknownFlags = true

	// Add subcommands
	rootCmd.AddCommand(newAliasesCommand())
	rootCmd.AddCommand(newInstallCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// Register one subcommand per alias so they show in help and get
	// flag-parsing passthrough. Registration failures are non-fatal; the
	// root catch-all still dispatches by name.
	registerAliasCommands(rootCmd)

	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// initRootConfig reads in config file and ENV variables if set.
func initRootConfig() {
	// Set custom config file path if provided via --config flag
	if cfgFile != "" {
		config.SetConfigFilePathOverride(cfgFile)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
	}

	// Apply verbose from config if not set via flag
	if cfg != nil && !verbose {
		verbose = cfg.UI.Verbose
	}
}

// loadedConfig returns the process configuration, falling back to defaults
// when loading fails. The failure itself was already reported by
// initRootConfig.
func loadedConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil || cfg == nil {
		return config.DefaultConfig()
	}
	return cfg
}

// GetVerbose returns the verbose flag value
func GetVerbose() bool {
	return verbose
}
