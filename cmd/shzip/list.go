// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shzip-cli/internal/inspect"
	"shzip-cli/internal/issue"
	"shzip-cli/pkg/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

// newListCommand creates the `shzip list` command.
func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list <archive>",
		Aliases: []string{"ls"},
		Short:   "List what an archive would create",
		Long: `List the directories, files and symlinks an archive would create.

The archive is parsed, not executed. Sizes are the payload bytes stored in
the script, after compression and base64 encoding. Pass - to read the
archive from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(app, args[0])
		},
	}
}

func runList(app *App, archivePath string) error {
	script, err := readArchive(archivePath, app.stdin)
	if err != nil {
		return &ExitError{Code: types.ExitFailure, Err: err}
	}

	listing, err := inspect.List(bytes.NewReader(script), archivePath)
	if err != nil {
		return &ExitError{Code: types.ExitFailure, Err: issue.NewErrorContext().
			WithOperation("list archive").
			WithResource(archivePath).
			WithSuggestion("Only scripts generated by shzip can be listed").
			Wrap(err).
			BuildError()}
	}

	renderListing(app.stdout, listing)
	return nil
}

// renderListing writes the archive summary and its entry table.
func renderListing(w io.Writer, l *inspect.Listing) {
	_, _ = fmt.Fprintln(w, TitleStyle.Render("Archive "+l.Name))
	_, _ = fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("Shell:"), l.Shell)
	_, _ = fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("Default target:"), l.DefaultTarget)
	if len(l.Decoders) > 0 {
		_, _ = fmt.Fprintf(w, "%s %s\n", SubtitleStyle.Render("Requires:"), strings.Join(l.Decoders, " or "))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers("TYPE", "PATH", "SIZE", "ENCODING")

	for _, e := range l.Entries {
		switch e.Kind {
		case inspect.KindDirectory:
			t.Row(string(e.Kind), e.Path+"/", "-", "-")
		case inspect.KindSymlink:
			t.Row(string(e.Kind), e.Path+" -> "+e.Target, "-", "-")
		default:
			t.Row(string(e.Kind), e.Path, strconv.FormatInt(e.Size, 10), encodingLabel(e))
		}
	}
	_, _ = fmt.Fprintln(w, t.Render())

	_, _ = fmt.Fprintf(w, "%d directories, %d files, %d symlinks, %d payload bytes\n",
		l.Count(inspect.KindDirectory), l.Count(inspect.KindFile), l.Count(inspect.KindSymlink), l.PayloadSize())
}

// encodingLabel describes how a file payload is stored, e.g. "gzip+base64".
func encodingLabel(e inspect.Entry) string {
	var parts []string
	if e.Compression.Enabled() {
		parts = append(parts, e.Compression.String())
	}
	if e.Base64 {
		parts = append(parts, "base64")
	}
	if len(parts) == 0 {
		if e.Size == 0 {
			return "empty"
		}
		return "text"
	}
	return strings.Join(parts, "+")
}
