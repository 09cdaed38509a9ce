// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"wrench-cli/internal/dispatch"
	"wrench-cli/internal/install"
)

// installParams bundles the dependencies and flags for the install command,
// enabling the core logic in runInstall to be tested without a real Cobra
// command or live GitHub API calls.
type installParams struct {
	stdout    io.Writer
	stderr    io.Writer
	installer *install.Installer
	destDir   string
	target    string // target release tag (empty = latest stable)
	check     bool   // --check mode: report status without installing
	force     bool   // --force flag: reinstall even when up to date
}

// newInstallCommand creates the `wrench install` command, which provisions
// the rust-analyzer language server from GitHub releases.
func newInstallCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install [version]",
		Short: "Install the rust-analyzer language server",
		Long: `Install the rust-analyzer language server from GitHub releases.

The install command detects the host platform, downloads the matching
release asset with retry, verifies the artifact, and atomically places
the binary in the destination directory (default: ~/.local/bin).
Re-running against an up-to-date binary is a no-op.`,
		Example: `  # Install the latest stable release
  wrench install

  # Check whether an install or update is needed
  wrench install --check

  # Install a specific release
  wrench install 2026-08-25

  # Reinstall even when already up to date
  wrench install --force

  # Install into a custom directory
  wrench install --dest /opt/tools/bin`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			checkFlag, _ := cmd.Flags().GetBool("check")
			forceFlag, _ := cmd.Flags().GetBool("force")
			destFlag, _ := cmd.Flags().GetString("dest")

			var target string
			if len(args) > 0 {
				target = args[0]
			}

			cfg := loadedConfig()

			destDir := destFlag
			if destDir == "" {
				destDir = cfg.Install.Dir
			}
			if destDir == "" {
				var err error
				destDir, err = install.DefaultDestDir()
				if err != nil {
					return &ExitError{Code: dispatch.ExitFailure, Err: err}
				}
			}

			// Build GitHub client options, adding a token if available
			// for higher rate limits (5000/hour vs 60/hour unauthenticated).
			clientOpts := []install.ClientOption{
				install.WithUserAgent("wrench/" + Version),
			}
			if token := os.Getenv("GITHUB_TOKEN"); token != "" {
				clientOpts = append(clientOpts, install.WithToken(token))
			}
			if owner, repo, ok := splitRepo(cfg.Install.Repo); ok {
				clientOpts = append(clientOpts, install.WithRepo(owner, repo))
			}

			client := install.NewGitHubClient(clientOpts...)
			installer := install.NewInstaller(destDir, install.WithClient(client))

			p := installParams{
				stdout:    cmd.OutOrStdout(),
				stderr:    cmd.ErrOrStderr(),
				installer: installer,
				destDir:   destDir,
				target:    target,
				check:     checkFlag,
				force:     forceFlag,
			}

			if err := runInstall(cmd.Context(), p); err != nil {
				fmt.Fprintln(p.stderr, formatInstallError(err))
				renderIssueCard(p.stderr, err)
				return &ExitError{Code: classifyInstallExitCode(err), Err: err}
			}

			return nil
		},
	}

	cmd.Flags().Bool("check", false, "Check whether an install or update is needed without installing")
	cmd.Flags().Bool("force", false, "Reinstall even when the installed binary is up to date")
	cmd.Flags().String("dest", "", "Destination directory for the binary (default: ~/.local/bin)")

	return cmd
}

// runInstall is the core install logic, separated from Cobra for testability.
// All user-facing output goes through p.stdout and p.stderr.
//
// Flow:
//  1. Resolve the target release (latest stable or a pinned tag).
//  2. If --check, report the installed state against the resolved release.
//  3. Otherwise run the full detect/fetch/verify/install flow.
func runInstall(ctx context.Context, p installParams) error {
	if p.check {
		release, err := p.installer.Resolve(ctx, p.target)
		if err != nil {
			return err
		}

		destPath := filepath.Join(p.destDir, install.ServerBinaryName())
		reported, installed := p.installer.InstalledVersion(ctx, destPath)

		fmt.Fprintf(p.stdout, "Latest release: %s\n", release.TagName)
		switch {
		case !installed:
			fmt.Fprintf(p.stdout, "Installed:      none\n\nRun 'wrench install' to install %s.\n", release.TagName)
		case containsTag(reported, release.TagName):
			fmt.Fprintf(p.stdout, "Installed:      %s\n\nAlready up to date.\n", reported)
		default:
			fmt.Fprintf(p.stdout, "Installed:      %s\n\nRun 'wrench install' to update to %s.\n", reported, release.TagName)
		}
		return nil
	}

	fmt.Fprintf(p.stdout, "Installing rust-analyzer into %s...\n", p.destDir)

	result, err := p.installer.Run(ctx, install.Options{Version: p.target, Force: p.force})
	if err != nil {
		return err
	}

	if result.Status == install.StatusAlreadyInstalled {
		fmt.Fprintf(p.stdout, "rust-analyzer %s is already installed at %s\n", result.Version, result.Path)
		return nil
	}

	fmt.Fprintln(p.stdout, "Verifying artifact... OK")
	fmt.Fprintln(p.stdout, SuccessStyle.Render(
		fmt.Sprintf("Successfully installed rust-analyzer %s to %s", result.Version, result.Path)))

	return nil
}

// classifyInstallExitCode maps an install error to the process exit code.
// Resolution problems (no release, unsupported platform) use the resolution
// failure code; everything else is a generic failure.
func classifyInstallExitCode(err error) dispatch.ExitCode {
	switch {
	case errors.Is(err, install.ErrReleaseNotFound), errors.Is(err, install.ErrAssetNotFound):
		return dispatch.ExitResolutionFailure
	case errors.Is(err, install.ErrUnsupportedPlatform):
		return dispatch.ExitResolutionFailure
	default:
		return dispatch.ExitFailure
	}
}

// formatInstallError produces a user-friendly error message with actionable
// remediation guidance tailored to the specific error type.
func formatInstallError(err error) string {
	var rateLimitErr *install.RateLimitError
	if errors.As(err, &rateLimitErr) {
		return fmt.Sprintf("%s\n\nTo increase your rate limit, set a GitHub token:\n  export GITHUB_TOKEN=ghp_...\nThen retry: wrench install",
			rateLimitErr.Error())
	}

	if errors.Is(err, install.ErrCorruptArtifact) {
		return fmt.Sprintf("%s\n\nThe download may be corrupted. Please try again.", err.Error())
	}

	if errors.Is(err, os.ErrPermission) {
		return "insufficient permissions to write the binary\n\nChoose a writable destination:\n  wrench install --dest ~/.local/bin"
	}

	if errors.Is(err, install.ErrNetworkFailure) {
		return fmt.Sprintf("%s\n\nCheck your network connection and try again.\nIf behind a firewall, set GITHUB_TOKEN for authenticated access.", err.Error())
	}

	return err.Error()
}

// splitRepo splits an owner/name repository string.
func splitRepo(repo string) (owner, name string, ok bool) {
	owner, name, found := strings.Cut(repo, "/")
	return owner, name, found && owner != "" && name != ""
}

// containsTag reports whether the --version output of an installed binary
// mentions the release tag.
func containsTag(reported, tag string) bool {
	return tag != "" && strings.Contains(reported, tag)
}
