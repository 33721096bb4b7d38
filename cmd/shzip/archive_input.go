// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"io"
	"os"

	"shzip-cli/internal/issue"
)

// stdinArchive names standard input as the archive source.
const stdinArchive = "-"

// readArchive loads the archive at path, or from stdin for "-".
func readArchive(path string, stdin io.Reader) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == stdinArchive {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err == nil {
		return data, nil
	}

	ctx := issue.NewErrorContext().
		WithOperation("read archive").
		WithResource(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		ctx.WithIssue(issue.FileNotFoundId).
			WithSuggestion("Check the archive path")
	case errors.Is(err, os.ErrPermission):
		ctx.WithIssue(issue.PermissionDeniedId)
	}
	return nil, ctx.Wrap(err).BuildError()
}
