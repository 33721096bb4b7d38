// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shzip-cli/internal/issue"
	"shzip-cli/internal/testutil"
	"shzip-cli/pkg/types"
)

func TestExtract_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, "proj/hello.txt", "hello")
	writeFile(t, "proj/bin/blob", "\x00\x01\xfe\xff\n")
	testutil.MustSymlink(t, ".", "proj/link", "hello.txt")

	created := runCLI(t, "", "-f", "out.sh", "proj")
	if created.err != nil {
		t.Fatalf("create failed: %v\nstderr: %s", created.err, created.stderr)
	}

	dest := filepath.Join(dir, "dest")
	res := runCLI(t, "", "extract", "out.sh", "--target", dest)
	if res.err != nil {
		t.Fatalf("extract failed: %v\nstderr: %s", res.err, res.stderr)
	}
	if !strings.Contains(res.stderr, "Extracted") {
		t.Errorf("stderr = %q, want an Extracted message", res.stderr)
	}

	for name, want := range map[string]string{
		"proj/hello.txt": "hello",
		"proj/bin/blob":  "\x00\x01\xfe\xff\n",
	} {
		got, err := os.ReadFile(filepath.Join(dest, name))
		if err != nil {
			t.Errorf("read %s: %v", name, err)
			continue
		}
		if string(got) != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}

	target, err := os.Readlink(filepath.Join(dest, "proj", "link"))
	if err != nil {
		t.Fatalf("readlink: %v", err)
	}
	if target != "hello.txt" {
		t.Errorf("link target = %q, want hello.txt", target)
	}
}

func TestExtract_DecoderGuardFails(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	script := "#!/bin/sh\ncommand -v shzip-no-such-decoder >/dev/null 2>&1 || { echo 'missing decoder' >&2; exit 127; }\n"
	writeFile(t, "guarded.sh", script)

	res := runCLI(t, "", "extract", "guarded.sh", "--target", filepath.Join(dir, "dest"))

	var exitErr *ExitError
	if !errors.As(res.err, &exitErr) {
		t.Fatalf("err = %v, want ExitError", res.err)
	}
	if exitErr.Code != types.ExitCommandNotFound {
		t.Errorf("exit code = %d, want %d", exitErr.Code, types.ExitCommandNotFound)
	}
	var ae *issue.ActionableError
	if !errors.As(res.err, &ae) || ae.Issue != issue.DecoderMissingId {
		t.Errorf("err = %v, want decoder missing issue", res.err)
	}
	if !strings.Contains(res.stderr, "missing decoder") {
		t.Errorf("stderr = %q, want the guard's message", res.stderr)
	}
}

func TestExtract_MissingArchive(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "", "extract", "/nonexistent/archive.sh")
	var ae *issue.ActionableError
	if !errors.As(res.err, &ae) || ae.Issue != issue.FileNotFoundId {
		t.Errorf("err = %v, want file not found", res.err)
	}
}
