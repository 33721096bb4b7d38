// SPDX-License-Identifier: MPL-2.0

package uroot

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func gzipped(t *testing.T, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestGzipCommand_Run_DecompressStdin(t *testing.T) {
	t.Parallel()

	payload := []byte("compressed \x00 payload\n")
	for _, args := range [][]string{
		{"gzip", "-dc"},
		{"gzip", "-d", "-c"},
		{"gzip", "-d"},
	} {
		ctx, stdout, _ := testIOReader(t, t.TempDir(), bytes.NewReader(gzipped(t, payload)))
		if err := newGzipCommand().Run(ctx, args); err != nil {
			t.Fatalf("%v: Run() returned error: %v", args, err)
		}
		if !bytes.Equal(stdout.Bytes(), payload) {
			t.Errorf("%v: stdout = %q, want %q", args, stdout.Bytes(), payload)
		}
	}
}

func TestGzipCommand_Run_DecompressFile(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "data.gz"), string(gzipped(t, []byte("from file"))))

	ctx, stdout, _ := testIO(t, tmpDir, "")
	if err := newGzipCommand().Run(ctx, []string{"gzip", "-dc", "data.gz"}); err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	if got := stdout.String(); got != "from file" {
		t.Errorf("stdout = %q", got)
	}
}

func TestGzipCommand_Run_CompressRoundTrip(t *testing.T) {
	t.Parallel()

	ctx, stdout, _ := testIO(t, t.TempDir(), "round trip")
	if err := newGzipCommand().Run(ctx, []string{"gzip", "-c", "-n"}); err != nil {
		t.Fatalf("compress returned error: %v", err)
	}

	ctx, plain, _ := testIOReader(t, t.TempDir(), bytes.NewReader(stdout.Bytes()))
	if err := newGzipCommand().Run(ctx, []string{"gzip", "-dc"}); err != nil {
		t.Fatalf("decompress returned error: %v", err)
	}
	if got := plain.String(); got != "round trip" {
		t.Errorf("round trip = %q", got)
	}
}

func TestGzipCommand_Run_NotGzip(t *testing.T) {
	t.Parallel()

	ctx, _, _ := testIO(t, t.TempDir(), "plain text")
	err := newGzipCommand().Run(ctx, []string{"gzip", "-dc"})
	if err == nil || !strings.Contains(err.Error(), "[uroot] gzip: stdin") {
		t.Errorf("Run() error = %v, want stdin decode failure", err)
	}
}
