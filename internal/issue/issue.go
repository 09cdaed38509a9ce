// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	UnknownCommandId Id = iota + 1
	ArgumentsNotAcceptedId
	RunnerNotFoundId
	UnsupportedPlatformId
	NetworkFailureId
	ReleaseNotFoundId
	CorruptArtifactId
	PermissionDeniedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id    Id          // ID used to look up the issue
	mdMsg MarkdownMsg // Markdown text that will be rendered
	links []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) Links() []HttpLink {
	return slices.Clone(i.links)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.links) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.links {
			extraMd += "- [" + string(link) + "]\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	unknownCommandIssue = &Issue{
		id: UnknownCommandId,
		mdMsg: `
# Unknown command

The name you gave matches neither a configured alias nor a built-in
subcommand, so nothing was executed.

## Things you can try:
- List the configured aliases:
~~~
$ wrench aliases
~~~
- Check for a typo; alias matching is exact and case-sensitive
- Add the alias to your config file under 'aliases'`,
	}

	argumentsNotAcceptedIssue = &Issue{
		id: ArgumentsNotAcceptedId,
		mdMsg: `
# Alias does not accept arguments

This alias is configured with a fixed invocation; trailing arguments
would silently change its meaning, so the call was refused before any
process was spawned.

## Things you can try:
- Run the alias without extra arguments
- Define a second alias that takes arguments via the '{args}' placeholder
- Remove 'no_trailing_args: true' from the alias in your config file`,
	}

	runnerNotFoundIssue = &Issue{
		id: RunnerNotFoundId,
		mdMsg: `
# Runner binary not found

The workspace runner this alias delegates to is not on your PATH.

## Things you can try:
- Install the runner toolchain for this workspace
- Set 'runner' in your config file to the binary's full path
- Check PATH in the shell you invoked wrench from`,
	}

	unsupportedPlatformIssue = &Issue{
		id: UnsupportedPlatformId,
		mdMsg: `
# Unsupported platform

No prebuilt language-server artifact exists for this operating system
and CPU architecture combination.

## Things you can try:
- Build the language server from source for your platform
- Run the install on one of the published platforms`,
		links: []HttpLink{
			"https://github.com/rust-analyzer/rust-analyzer/releases",
			"https://rust-analyzer.github.io/manual.html",
		},
	}

	networkFailureIssue = &Issue{
		id: NetworkFailureId,
		mdMsg: `
# Download failed

The artifact download kept failing after several attempts.

## Things you can try:
- Check your network connection and retry
- Set GITHUB_TOKEN if you are behind a strict proxy or rate-limited:
~~~
$ export GITHUB_TOKEN=ghp_...
$ wrench install
~~~`,
		links: []HttpLink{
			"https://www.githubstatus.com",
		},
	}

	releaseNotFoundIssue = &Issue{
		id: ReleaseNotFoundId,
		mdMsg: `
# Release not found

The requested version does not exist upstream. This is not retried,
because retrying cannot make the release appear.

## Things you can try:
- Check the version spelling (tags look like '2026-08-25' or 'v1.2.3')
- Omit the version to install the latest stable release`,
		links: []HttpLink{
			"https://github.com/rust-analyzer/rust-analyzer/releases",
		},
	}

	corruptArtifactIssue = &Issue{
		id: CorruptArtifactId,
		mdMsg: `
# Corrupt download

The downloaded artifact failed verification and was discarded. The
previously installed binary, if any, was left untouched.

## Things you can try:
- Retry the install; the download may have been truncated in transit
- If this persists, the upstream artifact may be bad — try another version`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied

The destination path is not writable by your user.

## Things you can try:
- Pick a writable destination:
~~~
$ wrench install --dest ~/.local/bin
~~~
- Fix ownership of the destination directory`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

Your config file exists but could not be parsed or validated.

## Things you can try:
- Check the file for CUE syntax errors
- Compare field names against the documented schema
- Move the file aside to fall back to defaults`,
	}

	issues = map[Id]*Issue{
		unknownCommandIssue.Id():       unknownCommandIssue,
		argumentsNotAcceptedIssue.Id(): argumentsNotAcceptedIssue,
		runnerNotFoundIssue.Id():       runnerNotFoundIssue,
		unsupportedPlatformIssue.Id():  unsupportedPlatformIssue,
		networkFailureIssue.Id():       networkFailureIssue,
		releaseNotFoundIssue.Id():      releaseNotFoundIssue,
		corruptArtifactIssue.Id():      corruptArtifactIssue,
		permissionDeniedIssue.Id():     permissionDeniedIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
