// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	PackageNotFoundId Id = iota + 1
	VersionNotFoundId
	ChecksumMismatchId
	RepositoryUnreachableId
	ManifestParseErrorId
	EntryPointNotFoundId
	ConfigLoadFailedId
	CacheWriteFailedId
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

	packageNotFoundIssue = &Issue{
		id: PackageNotFoundId,
		mdMsg: `
# Package not found!

None of your configured repositories knows the requested package.

## Things you can try:
- Check for typos in the package name:
~~~
$ launchbox run example-tool@latest
~~~

- List your configured repositories:
~~~
$ launchbox config show
~~~

- Add the repository that hosts the package to your config:
~~~cue
repositories: [
    {name: "main", location: "https://packages.example.com"}
]
~~~`,
	}

	versionNotFoundIssue = &Issue{
		id: VersionNotFoundId,
		mdMsg: `
# Version not found!

The package exists but the requested version does not.

## Things you can try:
- Ask for the latest published version instead:
~~~
$ launchbox run example-tool@latest
~~~

- Check the version spelling; versions are matched exactly
  (e.g. ` + "`2.3.0`" + `, not ` + "`v2.3`" + `)`,
	}

	checksumMismatchIssue = &Issue{
		id: ChecksumMismatchId,
		mdMsg: `
# Artifact checksum mismatch!

A downloaded artifact does not match the checksum its repository
advertised. The download was discarded and nothing was launched.

## Common causes:
- A corrupted or truncated download
- A proxy or captive portal rewriting responses
- The repository re-published the version with different bytes

## Things you can try:
- Retry the launch; transient corruption goes away on its own
- Clear the artifact cache and retry:
~~~
$ rm -r ~/.launchbox/artifacts
~~~

- If it keeps failing, contact the repository operator`,
	}

	repositoryUnreachableIssue = &Issue{
		id: RepositoryUnreachableId,
		mdMsg: `
# Repository unreachable!

A configured repository could not be contacted.

## Things you can try:
- Check your network connection
- Verify the repository location in your config:
~~~
$ launchbox config show
~~~

- Previously launched versions keep working offline from the cache:
~~~
$ launchbox run example-tool@2.3.0
~~~`,
	}

	manifestParseErrorIssue = &Issue{
		id: ManifestParseErrorId,
		mdMsg: `
# Failed to parse an artifact manifest!

An artifact's launchbox.cue is malformed, so its entry points cannot
be discovered.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- An exec method without a path, or a shell method without a script

## Example of a valid manifest:
~~~cue
tool: "example-tool"
entrypoints: {
    "example.Main": {
        methods: {
            main: {kind: "shell", script: "echo hello"}
        }
    }
}
~~~`,
	}

	entryPointNotFoundIssue = &Issue{
		id: EntryPointNotFoundId,
		mdMsg: `
# Entry point not found!

The requested entry point exists neither in the launched tool's
artifacts nor in the shared platform scope above it.

## Things you can try:
- Check for typos in the entry point name
- Omit the entry point to use the tool's declared default:
~~~
$ launchbox run example-tool
~~~

- Inspect what the tool declares:
~~~
$ launchbox inspect example-tool
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the launchbox configuration file.

## Configuration file locations:
- Linux: ~/.config/launchbox/config.cue
- macOS: ~/Library/Application Support/launchbox/config.cue
- Windows: %APPDATA%\launchbox\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ launchbox config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~cue
repositories: [
    {name: "main", location: "https://packages.example.com"}
]

ui: {
  verbose: false
}
~~~`,
	}

	cacheWriteFailedIssue = &Issue{
		id: CacheWriteFailedId,
		mdMsg: `
# Failed to write to the artifact cache!

A downloaded artifact could not be stored locally.

## Common causes:
- The cache directory is not writable
- The disk is full

## Things you can try:
- Check permissions on ~/.launchbox/artifacts
- Point the cache somewhere writable:
~~~
$ export LAUNCHBOX_CACHE_PATH=/tmp/launchbox-cache
~~~`,
	}

	issues = map[Id]*Issue{
		packageNotFoundIssue.Id():       packageNotFoundIssue,
		versionNotFoundIssue.Id():       versionNotFoundIssue,
		checksumMismatchIssue.Id():      checksumMismatchIssue,
		repositoryUnreachableIssue.Id(): repositoryUnreachableIssue,
		manifestParseErrorIssue.Id():    manifestParseErrorIssue,
		entryPointNotFoundIssue.Id():    entryPointNotFoundIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		cacheWriteFailedIssue.Id():      cacheWriteFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
