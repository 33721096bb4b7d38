// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shzip-cli/internal/uroot"
	"shzip-cli/pkg/types"
)

func virtualContext(t *testing.T, script string) *ExecutionContext {
	t.Helper()

	ctx := NewExecutionContext(t.Context(), []byte(script))
	ctx.WorkDir = t.TempDir()
	ctx.Stdin = strings.NewReader("")
	return ctx
}

func TestVirtualRuntime_Validate(t *testing.T) {
	t.Parallel()

	rt := NewVirtualRuntime(true)
	if err := rt.Validate(virtualContext(t, "echo ok\n")); err != nil {
		t.Errorf("Validate() returned error: %v", err)
	}
	if err := rt.Validate(virtualContext(t, "if then fi (\n")); err == nil {
		t.Error("Validate() should reject a syntax error")
	}
	if err := rt.Validate(virtualContext(t, "")); err == nil {
		t.Error("Validate() should reject an empty archive")
	}
}

func TestVirtualRuntime_ExitStatus(t *testing.T) {
	t.Parallel()

	result := NewVirtualRuntime(true).ExecuteCapture(virtualContext(t, "echo out; echo err >&2; exit 3\n"))
	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
	if result.Output != "out\n" || result.ErrOutput != "err\n" {
		t.Errorf("output = %q / %q", result.Output, result.ErrOutput)
	}
}

func TestVirtualRuntime_CommandLookupSeesUtilities(t *testing.T) {
	t.Parallel()

	script := "command -v gzip >/dev/null 2>&1 || exit 127\ncommand -v base64 head\n"
	result := NewVirtualRuntime(true).ExecuteCapture(virtualContext(t, script))
	if !result.Success() {
		t.Fatalf("ExitCode = %d, err = %v, stderr = %q", result.ExitCode, result.Error, result.ErrOutput)
	}
	if result.Output != "base64 head\n" {
		t.Errorf("Output = %q", result.Output)
	}
}

func TestVirtualRuntime_CommandLookupWithoutUtilities(t *testing.T) {
	t.Parallel()

	rt := NewVirtualRuntime(true)
	rt.Utilities = uroot.NewRegistry()

	script := "command -v shzip-no-such-decoder >/dev/null 2>&1 || exit 127\n"
	result := rt.Execute(virtualContext(t, script))
	if !result.ExitCode.IsCommandNotFound() {
		t.Errorf("ExitCode = %d, want %d", result.ExitCode, types.ExitCommandNotFound)
	}
}

func TestVirtualRuntime_ExtractsHeredocWithTarget(t *testing.T) {
	t.Parallel()

	script := `#!/bin/sh
if [ -n "${TARGET}" ]; then _TARGET=$TARGET; else _TARGET='.'; fi
mkdir -p "$_TARGET"/a
head -c -1 <<EOF1 | base64 -d > "$_TARGET"/a/b.bin
AAEC/f7/
EOF1
head -c -1 <<EOF2 | cat > "$_TARGET"/a/plain
cost: \$5 \` + "`" + `tick\` + "`" + ` back\\slash
EOF2
: > "$_TARGET"/empty
ln -sf -- 'a/plain' "$_TARGET"/link
`
	ctx := virtualContext(t, script)
	target := filepath.Join(ctx.WorkDir, "out")
	ctx.Target = target

	result := NewVirtualRuntime(true).ExecuteCapture(ctx)
	if !result.Success() {
		t.Fatalf("ExitCode = %d, err = %v, stderr = %q", result.ExitCode, result.Error, result.ErrOutput)
	}

	assertFile(t, filepath.Join(target, "a", "b.bin"), "\x00\x01\x02\xfd\xfe\xff")
	assertFile(t, filepath.Join(target, "a", "plain"), "cost: $5 `tick` back\\slash")
	assertFile(t, filepath.Join(target, "empty"), "")

	link, err := os.Readlink(filepath.Join(target, "link"))
	if err != nil || link != "a/plain" {
		t.Errorf("Readlink() = %q, %v; want %q", link, err, "a/plain")
	}
}

func TestVirtualRuntime_UtilityFailureStopsPipeline(t *testing.T) {
	t.Parallel()

	script := "head -c -1 <<EOF | base64 -d > out\n!!!\nEOF\n"
	result := NewVirtualRuntime(true).ExecuteCapture(virtualContext(t, script))
	if result.ExitCode != types.ExitFailure {
		t.Errorf("ExitCode = %d, want %d", result.ExitCode, types.ExitFailure)
	}
	if !strings.Contains(result.ErrOutput, "[uroot] base64:") {
		t.Errorf("stderr = %q, want uroot error", result.ErrOutput)
	}
}

func assertFile(t *testing.T, path, want string) {
	t.Helper()

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if string(got) != want {
		t.Errorf("%s = %q, want %q", path, got, want)
	}
}
