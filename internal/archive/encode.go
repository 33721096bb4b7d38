// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"context"
	"encoding/base64"
	"strings"

	"shzip-cli/internal/codec"
)

const (
	// base64LineWidth matches the wrapping of the base64 utility.
	base64LineWidth = 76

	identityStage = "cat"
	base64Stage   = "base64 -d"
)

type (
	// Pipeline is the ordered chain of shell stages that turns an embedded
	// payload back into the original bytes.
	Pipeline []string

	// Payload is the embeddable form of one file.
	Payload struct {
		// Data is the transformed content, before heredoc escaping.
		Data []byte
		// Pipeline inverts the transform. Empty means identity.
		Pipeline Pipeline
		// Empty marks a zero-length file created without framing.
		Empty bool
	}

	// Encoder transforms file contents into payloads.
	Encoder struct {
		codec codec.Codec
	}
)

// String renders the pipeline as shell text; the identity pipeline is cat.
func (p Pipeline) String() string {
	if len(p) == 0 {
		return identityStage
	}
	return strings.Join(p, " | ")
}

// NewEncoder returns an encoder. A nil codec disables compression.
func NewEncoder(c codec.Codec) *Encoder {
	return &Encoder{codec: c}
}

// Transform compresses raw when a codec is configured, then base64-wraps
// the result if any byte could upset a here-document. The pipeline lists the
// inverse steps in execution order: base64 decoding first, then
// decompression.
func (e *Encoder) Transform(ctx context.Context, raw []byte) (Payload, error) {
	if len(raw) == 0 {
		return Payload{Empty: true}, nil
	}

	data := raw
	var pipeline Pipeline

	if e.codec != nil {
		compressed, err := e.codec.Compress(ctx, raw)
		if err != nil {
			return Payload{}, err
		}
		data = compressed
		pipeline = append(pipeline, e.codec.Decoder().Stage())
	}

	if !isTextSafe(data) {
		data = wrapBase64(data)
		pipeline = append(Pipeline{base64Stage}, pipeline...)
	}

	return Payload{Data: data, Pipeline: pipeline}, nil
}

// isTextSafe reports whether every byte is printable, non-space ASCII.
func isTextSafe(data []byte) bool {
	for _, b := range data {
		if b <= 32 || b >= 128 {
			return false
		}
	}
	return true
}

// wrapBase64 encodes data as standard base64 split into lines.
func wrapBase64(data []byte) []byte {
	encoded := base64.StdEncoding.EncodeToString(data)
	lines := (len(encoded) + base64LineWidth - 1) / base64LineWidth

	out := make([]byte, 0, len(encoded)+lines)
	for start := 0; start < len(encoded); start += base64LineWidth {
		if start > 0 {
			out = append(out, '\n')
		}
		end := min(start+base64LineWidth, len(encoded))
		out = append(out, encoded[start:end]...)
	}
	return out
}
