// SPDX-License-Identifier: MPL-2.0

package uroot

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
)

func TestHeadCommand_SupportedFlags(t *testing.T) {
	t.Parallel()

	cmd := newHeadCommand()
	if cmd.Name() != "head" {
		t.Errorf("Name() = %q, want %q", cmd.Name(), "head")
	}
	for _, name := range []string{"n", "c"} {
		found := false
		for _, f := range cmd.SupportedFlags() {
			if f.Name == name {
				found = f.TakesValue
			}
		}
		if !found {
			t.Errorf("SupportedFlags() should include -%s taking a value", name)
		}
	}
}

func TestHeadCommand_Run_Lines(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	var content strings.Builder
	for i := 1; i <= 15; i++ {
		fmt.Fprintf(&content, "line %d\n", i)
	}
	writeFile(t, filepath.Join(tmpDir, "test.txt"), content.String())

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"default", []string{"head", "test.txt"}, 10},
		{"custom", []string{"head", "-n", "3", "test.txt"}, 3},
		{"more than available", []string{"head", "-n", "50", "test.txt"}, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, stdout, _ := testIO(t, tmpDir, "")
			if err := newHeadCommand().Run(ctx, tt.args); err != nil {
				t.Fatalf("Run() returned error: %v", err)
			}
			lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
			if len(lines) != tt.want {
				t.Errorf("got %d lines, want %d", len(lines), tt.want)
			}
			if lines[0] != "line 1" {
				t.Errorf("first line = %q, want %q", lines[0], "line 1")
			}
		})
	}
}

func TestHeadCommand_Run_Bytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		count string
		want  string
	}{
		{"first bytes", "HelloWorld\n", "5", "Hello"},
		{"drop trailing newline", "HelloWorld\n", "-1", "HelloWorld"},
		{"drop more than available", "ab", "-5", ""},
		{"drop from empty", "", "-1", ""},
		{"keep everything", "abc", "10", "abc"},
		{"binary safe", "\x00\xff\n\n", "-1", "\x00\xff\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, stdout, _ := testIO(t, t.TempDir(), tt.input)
			if err := newHeadCommand().Run(ctx, []string{"head", "-c", tt.count}); err != nil {
				t.Fatalf("Run() returned error: %v", err)
			}
			if got := stdout.String(); got != tt.want {
				t.Errorf("stdout = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHeadCommand_Run_NegativeBytesAcrossReads(t *testing.T) {
	t.Parallel()

	input := bytes.Repeat([]byte("0123456789"), 10000)
	input = append(input, '\n')

	ctx, stdout, _ := testIOReader(t, t.TempDir(), iotest.HalfReader(bytes.NewReader(input)))
	if err := newHeadCommand().Run(ctx, []string{"head", "-c", "-1"}); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if !bytes.Equal(stdout.Bytes(), input[:len(input)-1]) {
		t.Errorf("output length = %d, want %d", stdout.Len(), len(input)-1)
	}
}

func TestHeadCommand_Run_MultipleFiles(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.txt"), "a1\na2\n")
	writeFile(t, filepath.Join(tmpDir, "b.txt"), "b1\n")

	ctx, stdout, _ := testIO(t, tmpDir, "")
	if err := newHeadCommand().Run(ctx, []string{"head", "-n", "1", "a.txt", "b.txt"}); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	want := "==> a.txt <==\na1\n\n==> b.txt <==\nb1\n"
	if got := stdout.String(); got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}
}

func TestHeadCommand_Run_FileNotFound(t *testing.T) {
	t.Parallel()

	ctx, _, _ := testIO(t, t.TempDir(), "")
	err := newHeadCommand().Run(ctx, []string{"head", "missing.txt"})
	if err == nil || !strings.Contains(err.Error(), "[uroot] head:") {
		t.Errorf("Run() error = %v, want [uroot] head prefix", err)
	}
}
