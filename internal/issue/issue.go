// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	PackageManagerNotFoundId Id = iota + 1
	ToolInstallFailedId
	SourceFetchFailedId
	DeployFailedId
	ManifestMissingId
	ProvisionFailedId
	LauncherRegistrationFailedId
	ConfigLoadFailedId
	PermissionDeniedId
	DependencyCycleId
	CleanupFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	packageManagerNotFoundIssue = &Issue{
		id: PackageManagerNotFoundId,
		mdMsg: `
# No supported package manager found!

Missing tools are installed through the system package manager, but none of
the supported ones could be located on this system.

## Supported package managers:
- **apt-get** (Debian, Ubuntu and derivatives)
- **dnf** (Fedora, RHEL and derivatives)
- **brew** (macOS, Linuxbrew)

## Things you can try:
- Install the required tools yourself, then re-run the installer:
~~~
$ sudo apt-get install git python3 python3-venv
~~~

- On macOS, install Homebrew first:
~~~
$ /bin/bash -c "$(curl -fsSL https://raw.githubusercontent.com/Homebrew/install/HEAD/install.sh)"
~~~

- Check that the package manager binary is on PATH for the root user`,
	}

	toolInstallFailedIssue = &Issue{
		id: ToolInstallFailedId,
		mdMsg: `
# Tool installation failed!

A required tool was missing and installing it through the package manager
did not succeed.

## Common causes:
- No network connection to the package mirrors
- The package index is stale or the repository is unreachable
- The package manager needs elevated permissions

## Things you can try:
- Refresh the package index manually:
~~~
$ sudo apt-get update
~~~

- Install the tool manually and re-run:
~~~
$ sudo apt-get install git
~~~

- Re-run the installer with sudo if the failure was permission-related`,
	}

	sourceFetchFailedIssue = &Issue{
		id: SourceFetchFailedId,
		mdMsg: `
# Could not fetch the application sources!

Cloning the pdfiler repository failed, so nothing was deployed and nothing
was changed under the install directory.

## Common causes:
- No network connection, or a proxy blocking git/HTTPS traffic
- The repository URL in your configuration is wrong
- The remote is temporarily unavailable

## Things you can try:
- Check connectivity to the remote:
~~~
$ git ls-remote https://github.com/RockerzXY/pdfiler.git
~~~

- Verify the configured source URL:
~~~
$ pdfiler-setup config show
~~~

- Switch the fetch strategy (git, go-git, archive) in your config file:
~~~cue
source: {
  strategy: "archive"
}
~~~`,
	}

	deployFailedIssue = &Issue{
		id: DeployFailedId,
		mdMsg: `
# Could not deploy into the install directory!

Copying the fetched sources into the install directory failed.

## Common causes:
- The install directory (default /usr/local/pdfiler) is not writable
  by the current user
- The filesystem is read-only or full

## Things you can try:
- Re-run the installer with elevated permissions:
~~~
$ sudo pdfiler-setup
~~~

- Point the install directory somewhere you own:
~~~cue
paths: {
  install_dir: "/home/you/.local/pdfiler"
}
~~~

- Check free space and mount flags for the target filesystem`,
	}

	manifestMissingIssue = &Issue{
		id: ManifestMissingId,
		mdMsg: `
# Dependency manifest not found!

The deployed sources do not contain a requirements.txt, so the Python
environment cannot be provisioned. The launcher was NOT registered.

## Things you can try:
- Verify the manifest exists in the deployed tree:
~~~
$ ls /usr/local/pdfiler/requirements.txt
~~~

- If the clone directory holds stale content from a previous failed run,
  remove it and re-run so a fresh clone is fetched:
~~~
$ rm -rf ~/pdfiler_tmp && sudo pdfiler-setup
~~~

- If your fork renamed the manifest, set the name in your config:
~~~cue
python: {
  requirements_file: "requirements-prod.txt"
}
~~~`,
	}

	provisionFailedIssue = &Issue{
		id: ProvisionFailedId,
		mdMsg: `
# Python environment provisioning failed!

Creating the virtual environment or installing the dependency manifest
did not succeed.

## Common causes:
- The venv module is not available for the system Python
- pip could not reach the package index (network/proxy)
- A package in requirements.txt failed to build

## Things you can try:
- Check that the venv module works at all:
~~~
$ python3 -m venv /tmp/venv-probe
~~~

- On Debian/Ubuntu, venv support is a separate package:
~~~
$ sudo apt-get install python3-venv
~~~

- Install the manifest manually for a better error message:
~~~
$ /usr/local/pdfiler/pdfiler_env/bin/python -m pip install -r /usr/local/pdfiler/requirements.txt
~~~`,
	}

	launcherRegistrationFailedIssue = &Issue{
		id: LauncherRegistrationFailedId,
		mdMsg: `
# Could not register the launcher!

Writing the launcher script or marking it executable failed.

## Common causes:
- The launcher directory (default /usr/local/bin) is not writable by
  the current user
- The launcher path points at a directory

## Things you can try:
- Re-run the installer with elevated permissions:
~~~
$ sudo pdfiler-setup
~~~

- Point the launcher somewhere you own:
~~~cue
paths: {
  launcher: "/home/you/.local/bin/pdfiler"
}
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the pdfiler-setup configuration file.

## Configuration file locations:
- Linux: ~/.config/pdfiler-setup/config.cue
- macOS: ~/Library/Application Support/pdfiler-setup/config.cue
- Windows: %APPDATA%\pdfiler-setup\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ pdfiler-setup config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/pdfiler-setup/config.cue
~~~

## Example configuration:
~~~cue
source: {
  url: "https://github.com/RockerzXY/pdfiler.git"
  strategy: "git"
}

paths: {
  install_dir: "/usr/local/pdfiler"
  launcher: "/usr/local/bin/pdfiler"
}

ui: {
  color_scheme: "auto"
  verbose: false
}
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- Writing to /usr/local/pdfiler or /usr/local/bin without elevation
- Installing system packages as a regular user
- A previous run as root left files the current user cannot replace

## Things you can try:
- Re-run with sudo:
~~~
$ sudo pdfiler-setup
~~~

- Or redirect every system path into your home directory via the config
  file and run unprivileged:
~~~cue
paths: {
  install_dir: "/home/you/.local/pdfiler"
  launcher: "/home/you/.local/bin/pdfiler"
}
~~~`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Installation step cycle detected!

The installer's internal step graph contains a cycle, so no valid run
order exists. This is a bug in the installer, not in your configuration.

## Things you can try:
- Re-run with verbose mode and file a report with the output:
~~~
$ pdfiler-setup --verbose plan
~~~`,
	}

	cleanupFailedIssue = &Issue{
		id: CleanupFailedId,
		mdMsg: `
# Temporary clone cleanup failed!

The installation itself succeeded, but removing the temporary clone
directory did not.

## Things you can try:
- Remove it manually:
~~~
$ rm -rf ~/pdfiler_tmp
~~~

- Check for processes holding files open inside the directory`,
	}

	issues = map[Id]*Issue{
		packageManagerNotFoundIssue.Id():     packageManagerNotFoundIssue,
		toolInstallFailedIssue.Id():          toolInstallFailedIssue,
		sourceFetchFailedIssue.Id():          sourceFetchFailedIssue,
		deployFailedIssue.Id():               deployFailedIssue,
		manifestMissingIssue.Id():            manifestMissingIssue,
		provisionFailedIssue.Id():            provisionFailedIssue,
		launcherRegistrationFailedIssue.Id(): launcherRegistrationFailedIssue,
		configLoadFailedIssue.Id():           configLoadFailedIssue,
		permissionDeniedIssue.Id():           permissionDeniedIssue,
		dependencyCycleIssue.Id():            dependencyCycleIssue,
		cleanupFailedIssue.Id():              cleanupFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
