// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Id identifies a well-known failure class.
type Id int

const (
	PackwizNotFoundId Id = iota + 1
	PackwizCommandFailedId
	VersionsDirNotFoundId
	ExtensionParseErrorId
	InvalidPackVersionId
	ConfigLoadFailedId
)

type (
	// MarkdownMsg is Markdown text rendered to the terminal.
	MarkdownMsg string

	// HttpLink is an absolute URL shown under "See also".
	HttpLink string

	// Issue is a catalog entry with guidance for one failure class.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

// Id returns the catalog id.
func (i *Issue) Id() Id { return i.id }

// MarkdownMsg returns the raw Markdown guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Render renders the guidance with a glamour style ("dark", "light",
// "notty", or a path to a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, stylePath)
}

//nolint:gochecknoglobals // Test seam for glamour.Render.
var render = glamour.Render

var (
	packwizNotFoundIssue = &Issue{
		id: PackwizNotFoundId,
		mdMsg: `
# packwiz was not found

optipack drives the packwiz CLI for every install, update and export.

## Things you can try
- Install packwiz:
~~~
$ go install github.com/packwiz/packwiz@latest
~~~
- Or point optipack at an existing binary in config.cue:
~~~cue
packwiz: binary: "/opt/packwiz/packwiz"
~~~`,
		docLinks: []HttpLink{"https://packwiz.infra.link/installation/"},
	}

	packwizCommandFailedIssue = &Issue{
		id: PackwizCommandFailedId,
		mdMsg: `
# A packwiz command failed

packwiz exited with a non-zero status. Its output is shown above.

## Things you can try
- Re-run with ` + "`--verbose`" + ` to see the exact command line
- Run the command by hand inside the version directory
- Check network access to Modrinth and CurseForge`,
	}

	versionsDirNotFoundIssue = &Issue{
		id: VersionsDirNotFoundId,
		mdMsg: `
# No versions directory

optipack expects one packwiz project per loader and game version:

~~~
versions/
  fabric/
    1.20.4/pack.toml
  forge/
    1.20.1/pack.toml
~~~

## Things you can try
- Run optipack from the repository root
- Set ` + "`versions_dir`" + ` in config.cue or pass ` + "`--versions-dir`",
	}

	extensionParseErrorIssue = &Issue{
		id: ExtensionParseErrorId,
		mdMsg: `
# Failed to parse an extension manifest

## Expected layout
~~~toml
[extensions]
name = "Opti Utils"
version = "1.0.0"

[[mod]]
name = "Sodium Extra"
[mod.fabric]
"1.20.4" = "https://modrinth.com/mod/sodium-extra"
~~~

Loader tables must be one of fabric, forge, neoforge or quilt. Extension
names are letters and digits separated by single spaces or hyphens.`,
	}

	invalidPackVersionIssue = &Issue{
		id: InvalidPackVersionId,
		mdMsg: `
# Invalid pack version

Pack versions use the form
` + "`<major>.<minor>.<patch>[-<prerelease>.<revision>]+<game_version>_<mod_loader>`" + `,
for example ` + "`1.2.0-beta.1+1.20.4_fabric`" + `.

## Rules
- major, minor and patch are non-negative integers without leading zeros
- a prerelease always carries a positive revision
- prerelease and mod loader use lowercase letters, digits and hyphens`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

## Things you can try
- Show the effective configuration:
~~~
$ optipack config show
~~~
- Recreate the default file:
~~~
$ optipack config init --force
~~~`,
	}

	issues = map[Id]*Issue{
		packwizNotFoundIssue.Id():      packwizNotFoundIssue,
		packwizCommandFailedIssue.Id(): packwizCommandFailedIssue,
		versionsDirNotFoundIssue.Id():  versionsDirNotFoundIssue,
		extensionParseErrorIssue.Id():  extensionParseErrorIssue,
		invalidPackVersionIssue.Id():   invalidPackVersionIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the catalog entry for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
