// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
)

// scriptMode is the permission of a finished archive file.
const scriptMode = 0o755

// IsStdout reports whether path designates standard output.
func IsStdout(path string) bool {
	return path == "" || path == "-" || path == "/dev/stdout"
}

// WriteFile generates the archive for paths into the file at path. The
// script is written to a temporary file next to path and renamed into place
// only after generation succeeds, so a failed run leaves nothing behind.
func (g *Generator) WriteFile(ctx context.Context, path string, paths []string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".shzip-*.tmp")
	if err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()          // Best-effort close on error path
			_ = os.Remove(tmpName) // Best-effort cleanup on error path
		}
	}()

	if err = g.Generate(ctx, tmp, paths); err != nil {
		var outErr *OutputWriteError
		if errors.As(err, &outErr) && outErr.Path == "" {
			outErr.Path = path
		}
		return err
	}
	if err = tmp.Chmod(scriptMode); err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}
	if err = os.Rename(tmpName, path); err != nil {
		return &OutputWriteError{Path: path, Err: err}
	}
	return nil
}

// WriteTo generates into path, or into stdout when IsStdout(path).
func (g *Generator) WriteTo(ctx context.Context, path string, stdout io.Writer, paths []string) error {
	if IsStdout(path) {
		return g.Generate(ctx, stdout, paths)
	}
	return g.WriteFile(ctx, path, paths)
}
