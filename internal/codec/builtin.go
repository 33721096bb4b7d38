// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"bytes"
	"context"

	"github.com/klauspost/compress/gzip"
)

// builtinGzip produces gzip streams in-process. The header carries no name
// and a zero modification time, so identical input compresses identically.
type builtinGzip struct {
	decoder Decoder
}

func (c *builtinGzip) Algorithm() Algorithm { return Gzip }

func (c *builtinGzip) Decoder() Decoder { return c.decoder }

func (c *builtinGzip) Compress(ctx context.Context, raw []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, &CodecInvocationError{Algorithm: Gzip, Program: "builtin", Err: err}
	}
	if _, err := zw.Write(raw); err != nil {
		return nil, &CodecInvocationError{Algorithm: Gzip, Program: "builtin", Err: err}
	}
	if err := zw.Close(); err != nil {
		return nil, &CodecInvocationError{Algorithm: Gzip, Program: "builtin", Err: err}
	}
	return buf.Bytes(), nil
}
