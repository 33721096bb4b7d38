// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"context"
	"fmt"
	"io"

	"shzip-cli/internal/codec"

	"golang.org/x/sync/errgroup"
)

// Generator runs resolve, encode and emit for one set of options.
// A Generator holds no per-run state and may be reused.
type Generator struct {
	opts    Options
	encoder *Encoder
}

// NewGenerator validates opts and builds the configured codec.
func NewGenerator(opts Options) (*Generator, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	if opts.Codec == nil && opts.Compression.Enabled() {
		c, err := codec.New(opts.Compression, opts.CodecBackend)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
		}
		opts.Codec = c
	}
	if !opts.Compression.Enabled() {
		opts.Codec = nil
	}

	return &Generator{opts: opts, encoder: NewEncoder(opts.Codec)}, nil
}

// Options returns the effective options, defaults applied.
func (g *Generator) Options() Options { return g.opts }

// Resolve classifies paths into a Spec. It fails with EmptySelectionError
// when nothing is selected.
func (g *Generator) Resolve(paths []string) (*Spec, error) {
	if len(paths) == 0 {
		return nil, &EmptySelectionError{}
	}

	set, err := Resolve(paths, g.opts.Dereference, g.opts.Logger)
	if err != nil {
		return nil, err
	}
	if set.Empty() {
		return nil, &EmptySelectionError{Requested: paths}
	}

	spec := set.Spec(g.opts)
	g.opts.Logger.Debug("resolved inputs",
		"files", len(spec.Files), "directories", len(spec.Directories), "symlinks", len(spec.Symlinks))
	return spec, nil
}

// Encode transforms every file of spec. Results are indexed like
// spec.Files regardless of how many jobs ran.
func (g *Generator) Encode(ctx context.Context, spec *Spec) ([]Payload, error) {
	payloads := make([]Payload, len(spec.Files))

	if g.opts.Jobs < 2 {
		for i, f := range spec.Files {
			p, err := g.encodeFile(ctx, f)
			if err != nil {
				return nil, err
			}
			payloads[i] = p
		}
		return payloads, nil
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Jobs)
	for i, f := range spec.Files {
		eg.Go(func() error {
			p, err := g.encodeFile(egCtx, f)
			if err != nil {
				return err
			}
			payloads[i] = p
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return payloads, nil
}

func (g *Generator) encodeFile(ctx context.Context, f *FileEntry) (Payload, error) {
	raw, err := f.Bytes()
	if err != nil {
		return Payload{}, err
	}
	p, err := g.encoder.Transform(ctx, raw)
	if err != nil {
		return Payload{}, fmt.Errorf("encode %s: %w", f.Path, err)
	}
	return p, nil
}

// Generate writes the archive for paths to w. Nothing is written unless
// resolution and encoding both succeed.
func (g *Generator) Generate(ctx context.Context, w io.Writer, paths []string) error {
	spec, err := g.Resolve(paths)
	if err != nil {
		return err
	}
	payloads, err := g.Encode(ctx, spec)
	if err != nil {
		return err
	}
	emitter := NewEmitter(g.opts, NewTokenGenerator(g.opts.Reproducible))
	return emitter.Emit(w, spec, payloads)
}

// Generate is a convenience wrapper around NewGenerator and Generator.Generate.
func Generate(ctx context.Context, w io.Writer, paths []string, opts Options) error {
	g, err := NewGenerator(opts)
	if err != nil {
		return err
	}
	return g.Generate(ctx, w, paths)
}
