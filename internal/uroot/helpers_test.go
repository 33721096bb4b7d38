// SPDX-License-Identifier: MPL-2.0

package uroot

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
)

// testIO builds a handler context rooted at dir with the given stdin.
func testIO(t *testing.T, dir, stdin string) (ctx context.Context, stdout, stderr *bytes.Buffer) {
	t.Helper()

	return testIOReader(t, dir, strings.NewReader(stdin))
}

func testIOReader(t *testing.T, dir string, stdin io.Reader) (ctx context.Context, stdout, stderr *bytes.Buffer) {
	t.Helper()

	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	ctx = WithHandlerContext(t.Context(), &HandlerContext{
		Stdin:     stdin,
		Stdout:    stdout,
		Stderr:    stderr,
		Dir:       dir,
		LookupEnv: os.LookupEnv,
	})
	return ctx, stdout, stderr
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
}
