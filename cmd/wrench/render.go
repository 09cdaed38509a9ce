// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"wrench-cli/internal/alias"
	"wrench-cli/internal/config"
	"wrench-cli/internal/dispatch"
	"wrench-cli/internal/install"
	"wrench-cli/internal/issue"
)

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// issueIDForError maps a dispatch or install failure to its catalog entry.
// Returns 0 when no card applies.
func issueIDForError(err error) issue.Id {
	switch {
	case errors.Is(err, alias.ErrUnknownAlias):
		return issue.UnknownCommandId
	case errors.Is(err, alias.ErrArgumentsNotAccepted):
		return issue.ArgumentsNotAcceptedId
	case errors.Is(err, dispatch.ErrRunnerNotFound):
		return issue.RunnerNotFoundId
	case errors.Is(err, install.ErrUnsupportedPlatform):
		return issue.UnsupportedPlatformId
	case errors.Is(err, install.ErrReleaseNotFound), errors.Is(err, install.ErrAssetNotFound):
		return issue.ReleaseNotFoundId
	case errors.Is(err, install.ErrCorruptArtifact):
		return issue.CorruptArtifactId
	case errors.Is(err, install.ErrNetworkFailure):
		return issue.NetworkFailureId
	case errors.Is(err, os.ErrPermission):
		return issue.PermissionDeniedId
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	}
	return 0
}

// renderIssueCard writes the catalog remediation card for err to w, when
// one applies. Rendering problems degrade to silence; the primary error
// message has already been printed.
func renderIssueCard(w io.Writer, err error) {
	id := issueIDForError(err)
	if id == 0 {
		return
	}

	entry := issue.Get(id)
	if entry == nil {
		return
	}

	card, renderErr := entry.Render(glamourStyle())
	if renderErr != nil {
		return
	}
	fmt.Fprintln(w, card)
}

// glamourStyle maps the configured color scheme to a glamour style name.
func glamourStyle() string {
	cfg, err := config.Load()
	if err != nil || cfg == nil {
		return "dark"
	}
	switch cfg.UI.ColorScheme {
	case config.ColorSchemeLight:
		return "light"
	default:
		return "dark"
	}
}
