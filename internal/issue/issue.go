// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	NonAdditiveAPIId Id = iota + 1
	BreakingChangeId
	SnapshotDriftId
	WorkspaceNotFoundId
	ToolchainTooOldId
	ConfigLoadFailedId
	BaselineSwitchFailedId
	TodoFoundId
	DocCoverageId
	TidyDriftId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to look the issue up
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation links shown under "See also"
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

	nonAdditiveAPIIssue = &Issue{
		id: NonAdditiveAPIId,
		mdMsg: `
# Feature build tags must only add API!

A package exposes less (or different) public API when all feature tags are
enabled than it does with no tags. Feature-gated files may introduce new
exported declarations, never remove or reshape existing ones.

## Common causes:
- An exported declaration moved into a tagged file (now invisible without the tag)
- A tagged file redeclares an existing symbol with a different signature
- A build constraint excludes a file that used to be unconditional

## Things you can try:
- Keep the untagged declaration and add only *new* symbols in tagged files
- Run the check for a single package while iterating:
~~~
$ gomaint api -p <package>
~~~
- Inspect the exact declarations behind the report in the api/ snapshots`,
	}

	breakingChangeIssue = &Issue{
		id: BreakingChangeId,
		mdMsg: `
# Breaking public API change detected!

Compared against the baseline revision, at least one package removed or
changed an exported declaration under some feature configuration.

## If the break is unintentional:
- Restore the removed declaration or revert the signature change
- Deprecate instead of deleting; removal belongs in the next major version

## If the break is intentional:
- Plan a major version bump for the affected module
- Update the changelog with the old and new declarations
- Re-run against the release tag you actually branched from:
~~~
$ gomaint api --baseline <tag>
~~~`,
	}

	snapshotDriftIssue = &Issue{
		id: SnapshotDriftId,
		mdMsg: `
# API snapshot files are out of date!

The checked-in files under api/ no longer match the extracted public API
of the workspace. Snapshots are part of the reviewed diff: an API change
is only complete once its snapshot change is committed with it.

## Things you can try:
- Regenerate and commit the snapshots:
~~~
$ gomaint api
$ git add api && git commit
~~~
- Review the printed per-file diff to confirm the change is intended`,
	}

	workspaceNotFoundIssue = &Issue{
		id: WorkspaceNotFoundId,
		mdMsg: `
# No workspace found!

Could not discover any Go modules from the current directory.

## Things you can try:
- Run from inside the repository (a git checkout with a go.work or go.mod)
- Check that ` + "`go list -m -json`" + ` works in the repository root
- If modules were added recently, sync the workspace:
~~~
$ go work use -r .
~~~`,
	}

	toolchainTooOldIssue = &Issue{
		id: ToolchainTooOldId,
		mdMsg: `
# Go toolchain too old!

The installed Go version is below the minimum the workspace declares.

## Things you can try:
- Install the version named in the go.work ` + "`go`" + ` directive (or newer)
- Check which toolchain is first on PATH:
~~~
$ go version
$ which go
~~~`,
		extLinks: []HttpLink{"https://go.dev/dl/"},
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

A gomaint.toml file exists but could not be parsed.

## Common issues:
- Invalid TOML syntax (unbalanced quotes or brackets)
- A key with the wrong type (string where a list is expected)
- Unknown table or key names

## Things you can try:
- Check the error message above for the offending line
- Compare against a minimal valid file:
~~~toml
[test]
feature_tags = ["alloc", "rand"]

[docs]
min_coverage = 80
~~~
- Remove the file to fall back to defaults`,
	}

	baselineSwitchFailedIssue = &Issue{
		id: BaselineSwitchFailedId,
		mdMsg: `
# Could not switch to the baseline revision!

Checking out the baseline ref failed, so no comparison was performed.
The working tree was left untouched.

## Common causes:
- The ref does not exist locally (unfetched tag or branch)
- Uncommitted changes that the checkout would overwrite

## Things you can try:
- Fetch the ref first:
~~~
$ git fetch --tags origin
~~~
- Commit or stash local changes before comparing
- Verify the ref resolves:
~~~
$ git rev-parse --verify <ref>
~~~`,
	}

	todoFoundIssue = &Issue{
		id: TodoFoundId,
		mdMsg: `
# Unfinished work markers found!

The prerelease scan found TODO/FIXME comments or placeholder strings in
code that is about to be released.

## Things you can try:
- Resolve the marker, or move it into a tracked ticket and delete it
- For markers that must ship, record them in the module's gomaint.toml
  so the decision is reviewable
- Re-run the scan for a single module while cleaning up:
~~~
$ gomaint prerelease -p <package>
~~~`,
	}

	docCoverageIssue = &Issue{
		id: DocCoverageId,
		mdMsg: `
# Documentation coverage below threshold!

Too many exported declarations have no doc comment.

## Things you can try:
- Add doc comments to the listed declarations (start with the identifier name)
- Add missing package docs in a doc.go file
- If a lower bar is intentional for this module, set it explicitly:
~~~toml
[docs]
min_coverage = 60
~~~`,
	}

	tidyDriftIssue = &Issue{
		id: TidyDriftId,
		mdMsg: `
# go.mod / go.sum drift detected!

Running ` + "`go mod tidy`" + ` changed module files, which means the
committed ones were stale.

## Things you can try:
- Commit the tidied files:
~~~
$ git add '*.mod' '*.sum' && git commit -m 'go mod tidy'
~~~
- If the drift is surprising, inspect what tidy changed:
~~~
$ git diff -- '*.mod' '*.sum'
~~~`,
	}

	issues = map[Id]*Issue{
		nonAdditiveAPIIssue.Id():       nonAdditiveAPIIssue,
		breakingChangeIssue.Id():       breakingChangeIssue,
		snapshotDriftIssue.Id():        snapshotDriftIssue,
		workspaceNotFoundIssue.Id():    workspaceNotFoundIssue,
		toolchainTooOldIssue.Id():      toolchainTooOldIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		baselineSwitchFailedIssue.Id(): baselineSwitchFailedIssue,
		todoFoundIssue.Id():            todoFoundIssue,
		docCoverageIssue.Id():          docCoverageIssue,
		tidyDriftIssue.Id():            tidyDriftIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
