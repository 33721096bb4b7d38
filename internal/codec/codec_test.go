// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gunzip(t *testing.T, data []byte) []byte {
	t.Helper()
	zr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.NoError(t, zr.Close())
	return out
}

func TestAlgorithmIsValid(t *testing.T) {
	t.Parallel()

	for _, alg := range []Algorithm{"", None, Gzip, Bzip2, Xz} {
		valid, errs := alg.IsValid()
		assert.True(t, valid, "algorithm %q", alg)
		assert.Empty(t, errs)
	}

	valid, errs := Algorithm("zstd").IsValid()
	assert.False(t, valid)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrInvalidAlgorithm)
}

func TestAlgorithmEnabled(t *testing.T) {
	t.Parallel()

	assert.False(t, Algorithm("").Enabled())
	assert.False(t, None.Enabled())
	assert.True(t, Gzip.Enabled())
	assert.True(t, Xz.Enabled())
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("none is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := New(None, BackendExec)
		assert.ErrorIs(t, err, ErrInvalidAlgorithm)
	})

	t.Run("unknown algorithm", func(t *testing.T) {
		t.Parallel()
		_, err := New("lzma", BackendExec)
		assert.ErrorIs(t, err, ErrInvalidAlgorithm)
	})

	t.Run("builtin only serves gzip", func(t *testing.T) {
		t.Parallel()
		_, err := New(Xz, BackendBuiltin)
		assert.ErrorIs(t, err, ErrUnsupportedBackend)
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Parallel()
		_, err := New(Gzip, "wasm")
		assert.ErrorIs(t, err, ErrUnsupportedBackend)
	})

	t.Run("default backend is exec", func(t *testing.T) {
		t.Parallel()
		c, err := New(Bzip2, "")
		require.NoError(t, err)
		assert.Equal(t, Bzip2, c.Algorithm())
		assert.IsType(t, &execCodec{}, c)
	})
}

func TestDecoderStage(t *testing.T) {
	t.Parallel()

	dec, ok := DecoderFor(Gzip)
	require.True(t, ok)

	primary, alias := dec.Names()
	assert.Equal(t, "gzip", primary)
	assert.Equal(t, "pigz", alias)
	assert.Equal(t,
		"{ if command -v gzip >/dev/null 2>&1; then gzip -dc; else pigz -dc; fi; }",
		dec.Stage())

	_, ok = DecoderFor(None)
	assert.False(t, ok)
}

func TestAlgorithmForDecoder(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]Algorithm{
		"gzip": Gzip, "pigz": Gzip,
		"bzip2": Bzip2, "lbzip2": Bzip2,
		"xz": Xz, "unxz": Xz,
	} {
		got, ok := AlgorithmForDecoder(name)
		assert.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	got, ok := AlgorithmForDecoder("zstd")
	assert.False(t, ok)
	assert.Equal(t, None, got)
}

func TestBuiltinGzip(t *testing.T) {
	t.Parallel()

	c, err := New(Gzip, BackendBuiltin)
	require.NoError(t, err)

	raw := bytes.Repeat([]byte("shell archive payload\x00\xff"), 64)
	first, err := c.Compress(context.Background(), raw)
	require.NoError(t, err)
	second, err := c.Compress(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, first, second, "builtin gzip output must be deterministic")
	assert.Equal(t, raw, gunzip(t, first))
}

func TestBuiltinGzipCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, err := New(Gzip, BackendBuiltin)
	require.NoError(t, err)
	_, err = c.Compress(ctx, []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExecGzip(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("gzip"); err != nil {
		t.Skip("gzip not installed")
	}

	c, err := New(Gzip, BackendExec)
	require.NoError(t, err)

	raw := []byte("HelloWorld\n")
	out, err := c.Compress(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, raw, gunzip(t, out))
}

func TestExecMissingProgram(t *testing.T) {
	t.Parallel()

	c := &execCodec{algorithm: Xz, argv: []string{"shzip-test-no-such-compressor", "-c"}}
	_, err := c.Compress(context.Background(), []byte("data"))
	require.Error(t, err)

	var invErr *CodecInvocationError
	require.True(t, errors.As(err, &invErr))
	assert.Equal(t, "shzip-test-no-such-compressor", invErr.Program)
	assert.ErrorIs(t, err, ErrCodecInvocation)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestExecAbnormalExit(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not installed")
	}

	c := &execCodec{algorithm: Gzip, argv: []string{"sh", "-c", "echo broken >&2; exit 3"}}
	_, err := c.Compress(context.Background(), []byte("data"))
	require.Error(t, err)

	var invErr *CodecInvocationError
	require.True(t, errors.As(err, &invErr))
	assert.Contains(t, invErr.Error(), "broken")
	assert.ErrorIs(t, err, ErrCodecInvocation)
}
