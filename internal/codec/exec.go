// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"bytes"
	"context"
	"os/exec"
)

// execCodec pipes payloads through a host compression binary.
type execCodec struct {
	algorithm Algorithm
	argv      []string
	decoder   Decoder
}

func (c *execCodec) Algorithm() Algorithm { return c.algorithm }

func (c *execCodec) Decoder() Decoder { return c.decoder }

// Compress runs the compressor once with raw on stdin and waits for it.
func (c *execCodec) Compress(ctx context.Context, raw []byte) ([]byte, error) {
	program, err := exec.LookPath(c.argv[0])
	if err != nil {
		return nil, &CodecInvocationError{Algorithm: c.algorithm, Program: c.argv[0], Err: err}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, program, c.argv[1:]...)
	cmd.Stdin = bytes.NewReader(raw)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &CodecInvocationError{
			Algorithm: c.algorithm,
			Program:   c.argv[0],
			Stderr:    stderr.String(),
			Err:       err,
		}
	}
	return stdout.Bytes(), nil
}
