// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	// None disables compression.
	None Algorithm = "none"
	// Gzip compresses with gzip.
	Gzip Algorithm = "gzip"
	// Bzip2 compresses with bzip2.
	Bzip2 Algorithm = "bzip2"
	// Xz compresses with xz.
	Xz Algorithm = "xz"

	// BackendExec runs the host compression binary.
	BackendExec Backend = "exec"
	// BackendBuiltin compresses in-process. Only gzip supports it.
	BackendBuiltin Backend = "builtin"
)

var (
	// ErrInvalidAlgorithm is the sentinel error wrapped by InvalidAlgorithmError.
	ErrInvalidAlgorithm = errors.New("invalid compression algorithm")
	// ErrUnsupportedBackend is returned when an algorithm cannot run on the requested backend.
	ErrUnsupportedBackend = errors.New("unsupported codec backend")

	descriptors = map[Algorithm]descriptor{
		Gzip: {
			compress: []string{"gzip", "-c", "-n"},
			decoder:  Decoder{Primary: []string{"gzip", "-dc"}, Alias: []string{"pigz", "-dc"}},
		},
		Bzip2: {
			compress: []string{"bzip2", "-c"},
			decoder:  Decoder{Primary: []string{"bzip2", "-dc"}, Alias: []string{"lbzip2", "-dc"}},
		},
		Xz: {
			compress: []string{"xz", "-c"},
			decoder:  Decoder{Primary: []string{"xz", "-dc"}, Alias: []string{"unxz", "-c"}},
		},
	}
)

type (
	// Algorithm names one of the supported compression formats.
	Algorithm string

	// Backend selects how compression is performed at generation time.
	Backend string

	// InvalidAlgorithmError is returned when an Algorithm value is not recognized.
	// It wraps ErrInvalidAlgorithm for errors.Is() compatibility.
	InvalidAlgorithmError struct {
		Value Algorithm
	}

	// Decoder names the program that reverses a codec on the extraction host.
	// Primary is preferred; Alias is used when Primary is not installed.
	Decoder struct {
		Primary []string
		Alias   []string
	}

	// Codec compresses whole payloads.
	Codec interface {
		// Algorithm reports the format this codec produces.
		Algorithm() Algorithm
		// Compress returns the compressed form of raw. It blocks until the
		// underlying compressor finishes.
		Compress(ctx context.Context, raw []byte) ([]byte, error)
		// Decoder describes how the generated script inverts Compress.
		Decoder() Decoder
	}

	descriptor struct {
		compress []string
		decoder  Decoder
	}
)

// Error implements the error interface.
func (e *InvalidAlgorithmError) Error() string {
	return fmt.Sprintf("invalid compression algorithm %q (valid: none, gzip, bzip2, xz)", e.Value)
}

// Unwrap returns ErrInvalidAlgorithm for errors.Is() compatibility.
func (e *InvalidAlgorithmError) Unwrap() error { return ErrInvalidAlgorithm }

// String returns the string representation of the Algorithm.
func (a Algorithm) String() string { return string(a) }

// IsValid returns whether the Algorithm is one of the defined values.
// The zero value is treated as None.
func (a Algorithm) IsValid() (bool, []error) {
	switch a {
	case "", None, Gzip, Bzip2, Xz:
		return true, nil
	default:
		return false, []error{&InvalidAlgorithmError{Value: a}}
	}
}

// Enabled reports whether the algorithm actually compresses.
func (a Algorithm) Enabled() bool {
	return a != "" && a != None
}

// Names returns the bare program names of the primary and alias decoders.
func (d Decoder) Names() (primary, alias string) {
	if len(d.Primary) > 0 {
		primary = d.Primary[0]
	}
	if len(d.Alias) > 0 {
		alias = d.Alias[0]
	}
	return primary, alias
}

// Stage renders the decoder as one shell pipeline stage. The stage probes
// for the primary program when it runs and falls back to the alias, so the
// archive works with either installed. The probe does not read stdin.
func (d Decoder) Stage() string {
	primary, _ := d.Names()
	return fmt.Sprintf("{ if command -v %s >/dev/null 2>&1; then %s; else %s; fi; }",
		primary, strings.Join(d.Primary, " "), strings.Join(d.Alias, " "))
}

// New returns the codec for alg on the given backend.
func New(alg Algorithm, backend Backend) (Codec, error) {
	if valid, errs := alg.IsValid(); !valid {
		return nil, errs[0]
	}
	if !alg.Enabled() {
		return nil, fmt.Errorf("%w: %q does not compress", ErrInvalidAlgorithm, alg)
	}

	desc := descriptors[alg]
	switch backend {
	case "", BackendExec:
		return &execCodec{algorithm: alg, argv: desc.compress, decoder: desc.decoder}, nil
	case BackendBuiltin:
		if alg != Gzip {
			return nil, fmt.Errorf("%w: %s has no builtin implementation", ErrUnsupportedBackend, alg)
		}
		return &builtinGzip{decoder: desc.decoder}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedBackend, backend)
	}
}

// DecoderFor returns the extraction-side decoder for alg without building a codec.
func DecoderFor(alg Algorithm) (Decoder, bool) {
	desc, ok := descriptors[alg]
	return desc.decoder, ok
}

// AlgorithmForDecoder maps a decoder program name, primary or alias, back
// to its algorithm.
func AlgorithmForDecoder(name string) (Algorithm, bool) {
	for alg, desc := range descriptors {
		primary, alias := desc.decoder.Names()
		if name == primary || name == alias {
			return alg, true
		}
	}
	return None, false
}
