// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	FileNotFoundId Id = iota + 1
	EmptySelectionId
	UnsupportedFileTypeId
	ManifestInvalidId
	CodecNotFoundId
	ArchiveWriteFailedId
	TokenCollisionId
	ConfigLoadFailedId
	ShellNotFoundId
	ExtractionFailedId
	DecoderMissingId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // project documentation for this issue
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

// Render renders the guide with glamour. stylePath is a glamour style name
// ("auto", "dark", "light") or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

var (
	render = glamour.Render

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# Input not found!

One of the paths given to shzip does not exist or cannot be read.

## Things you can try:
- Check the spelling of each path (paths are relative to the current directory)
- If you used a manifest (` + "`-T`" + `), check that its entries are relative to where you run shzip
- Use ` + "`ls -la <path>`" + ` to confirm the file is readable`,
	}

	emptySelectionIssue = &Issue{
		id: EmptySelectionId,
		mdMsg: `
# Nothing to archive!

The inputs resolved to no files, directories or symlinks. shzip refuses to
write an archive that would extract nothing.

## Things you can try:
- Make sure at least one path was given on the command line or in the manifest
- Empty directories are not archived on their own; add a file inside them
~~~
$ shzip -f out.sh ./project
~~~`,
	}

	unsupportedFileTypeIssue = &Issue{
		id: UnsupportedFileTypeId,
		mdMsg: `
# Unsupported file type!

Only regular files, directories and symbolic links can be archived.
Devices, named pipes and sockets cannot be recreated by a shell script.

## Things you can try:
- Remove the special file from the input set
- List the files you need in a manifest and pass it with ` + "`-T`",
	}

	manifestInvalidIssue = &Issue{
		id: ManifestInvalidId,
		mdMsg: `
# Invalid manifest!

The file passed with ` + "`-T/--files-from`" + ` could not be read.

## Manifest formats:
Plain text, one path per line (blank lines and ` + "`#`" + ` comments are ignored):
~~~
src/
README.md
~~~

CUE, for files ending in ` + "`.cue`" + `:
~~~cue
paths: ["src/", "README.md"]
~~~`,
	}

	codecNotFoundIssue = &Issue{
		id: CodecNotFoundId,
		mdMsg: `
# Compressor not found!

Compression was requested but the matching program is not installed.

## Things you can try:
- Install the compressor (gzip, bzip2 or xz) with your package manager
- Use the in-process gzip encoder:
~~~
$ shzip -z --codec-backend builtin -f out.sh ./project
~~~
- Drop the compression flag; binary files are still stored safely as base64`,
	}

	archiveWriteFailedIssue = &Issue{
		id: ArchiveWriteFailedId,
		mdMsg: `
# Failed to write the archive!

The archive could not be written to its destination. No partial file was left behind.

## Things you can try:
- Check that the destination directory exists and is writable
- Check free disk space
- Write to standard output instead and redirect:
~~~
$ shzip ./project > out.sh
~~~`,
	}

	tokenCollisionIssue = &Issue{
		id: TokenCollisionId,
		mdMsg: `
# Termination token collision!

In reproducible mode the heredoc token is derived from the file content, and
this file happens to contain a line equal to its own token.

## Things you can try:
- Generate the archive without ` + "`--reproducible`" + `; random tokens are redrawn on collision`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be loaded or does not match the schema.

## Things you can try:
- Print the path shzip reads:
~~~
$ shzip config path
~~~
- Print a complete, valid configuration to compare against:
~~~
$ shzip config dump
~~~
- Check SHZIP_* environment variables, which override the file`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

` + "`shzip extract --native`" + ` runs archives with the host shell, and none was found.

## Things you can try:
- Install a POSIX shell (dash, bash, busybox sh)
- Drop ` + "`--native`" + ` to extract with the built-in interpreter`,
	}

	extractionFailedIssue = &Issue{
		id: ExtractionFailedId,
		mdMsg: `
# Extraction failed!

The archive script exited with a non-zero status.

## Things you can try:
- Re-run with ` + "`--verbose`" + ` to see the script's error output
- Check that the target directory is writable
- Inspect what the archive would create:
~~~
$ shzip list archive.sh
~~~`,
	}

	decoderMissingIssue = &Issue{
		id: DecoderMissingId,
		mdMsg: `
# Decompressor missing on this host!

The archive was compressed and its prerequisite check found neither the
decompressor nor its fallback alias (exit status 127).

## Things you can try:
- Install the decompressor named in the error message
- Ask for a new archive generated without compression`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

shzip lacks permission to read an input or write the output.

## Things you can try:
- Check file ownership and permissions with ` + "`ls -la`" + `
- Write the archive somewhere you own, such as your home directory`,
	}

	issues = map[Id]*Issue{
		fileNotFoundIssue.Id():        fileNotFoundIssue,
		emptySelectionIssue.Id():      emptySelectionIssue,
		unsupportedFileTypeIssue.Id(): unsupportedFileTypeIssue,
		manifestInvalidIssue.Id():     manifestInvalidIssue,
		codecNotFoundIssue.Id():       codecNotFoundIssue,
		archiveWriteFailedIssue.Id():  archiveWriteFailedIssue,
		tokenCollisionIssue.Id():      tokenCollisionIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		shellNotFoundIssue.Id():       shellNotFoundIssue,
		extractionFailedIssue.Id():    extractionFailedIssue,
		decoderMissingIssue.Id():      decoderMissingIssue,
		permissionDeniedIssue.Id():    permissionDeniedIssue,
	}
)

// Values returns every known issue ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id - b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
