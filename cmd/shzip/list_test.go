// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"shzip-cli/internal/codec"
	"shzip-cli/internal/inspect"
	"shzip-cli/internal/issue"
)

func TestRenderListing(t *testing.T) {
	t.Parallel()

	l := &inspect.Listing{
		Name:          "site.sh",
		Shell:         "/bin/sh",
		DefaultTarget: "public",
		Decoders:      []string{"gzip", "pigz"},
		Entries: []inspect.Entry{
			{Kind: inspect.KindDirectory, Path: "www"},
			{Kind: inspect.KindFile, Path: "www/index.html", Size: 120, Base64: true, Compression: codec.Gzip},
			{Kind: inspect.KindFile, Path: "www/robots", Size: 0},
			{Kind: inspect.KindSymlink, Path: "www/home", Target: "index.html"},
		},
	}

	var out bytes.Buffer
	renderListing(&out, l)
	got := out.String()

	for _, want := range []string{
		"site.sh",
		"/bin/sh",
		"public",
		"gzip or pigz",
		"www/index.html",
		"gzip+base64",
		"www/home -> index.html",
		"1 directories, 2 files, 1 symlinks, 120 payload bytes",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("listing missing %q:\n%s", want, got)
		}
	}
}

func TestEncodingLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		entry inspect.Entry
		want  string
	}{
		{inspect.Entry{Size: 4}, "text"},
		{inspect.Entry{}, "empty"},
		{inspect.Entry{Size: 4, Base64: true}, "base64"},
		{inspect.Entry{Size: 8, Base64: true, Compression: codec.Bzip2}, "bzip2+base64"},
	}
	for _, tt := range tests {
		if got := encodingLabel(tt.entry); got != tt.want {
			t.Errorf("encodingLabel(%+v) = %q, want %q", tt.entry, got, tt.want)
		}
	}
}

func TestList_GeneratedArchive(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, "proj/hello.txt", "hello")

	created := runCLI(t, "", "-f", "out.sh", "proj")
	if created.err != nil {
		t.Fatalf("create failed: %v", created.err)
	}

	res := runCLI(t, "", "list", "out.sh")
	if res.err != nil {
		t.Fatalf("list failed: %v", res.err)
	}
	for _, want := range []string{"proj/hello.txt", "1 directories, 1 files, 0 symlinks, 5 payload bytes"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("list output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestList_FromStdin(t *testing.T) {
	t.Parallel()

	script := "#!/bin/sh\nif [ -n \"${TARGET}\" ]; then _TARGET=$TARGET; else _TARGET=out; fi\nmkdir -p \"$_TARGET\"/d\n"
	res := runCLI(t, script, "ls", "-")
	if res.err != nil {
		t.Fatalf("list failed: %v", res.err)
	}
	if !strings.Contains(res.stdout, "1 directories, 0 files") {
		t.Errorf("stdout = %q", res.stdout)
	}
}

func TestList_Rejects(t *testing.T) {
	t.Parallel()

	res := runCLI(t, "echo hi\n", "list", "-")
	var ae *issue.ActionableError
	if !errors.As(res.err, &ae) || ae.Operation != "list archive" {
		t.Fatalf("err = %v, want list archive failure", res.err)
	}
	if !errors.Is(res.err, inspect.ErrNotArchive) {
		t.Errorf("err should wrap ErrNotArchive: %v", res.err)
	}

	missing := runCLI(t, "", "list", "/nonexistent/archive.sh")
	if !errors.As(missing.err, &ae) || ae.Issue != issue.FileNotFoundId {
		t.Errorf("err = %v, want file not found", missing.err)
	}
}
