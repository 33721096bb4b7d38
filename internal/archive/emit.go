// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"bufio"
	"fmt"
	"io"

	"shzip-cli/internal/codec"
)

// Emitter writes the shell script for a resolved and encoded Spec.
type Emitter struct {
	opts   Options
	tokens *TokenGenerator
}

// NewEmitter returns an emitter for opts. Options must already carry
// their defaults.
func NewEmitter(opts Options, tokens *TokenGenerator) *Emitter {
	return &Emitter{opts: opts, tokens: tokens}
}

// errWriter remembers the first write failure so emission code can stay
// linear; callers check err once at the end.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}

// Emit writes the complete script. payloads[i] belongs to spec.Files[i].
func (e *Emitter) Emit(w io.Writer, spec *Spec, payloads []Payload) error {
	if len(payloads) != len(spec.Files) {
		return fmt.Errorf("emit: %d payloads for %d files", len(payloads), len(spec.Files))
	}

	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	if err := e.emitPreamble(ew); err != nil {
		return err
	}
	emitDirectories(ew, spec.Directories)
	for i, f := range spec.Files {
		if err := e.emitFile(ew, f.Path, payloads[i]); err != nil {
			return err
		}
		if ew.err != nil {
			break
		}
	}
	for _, link := range spec.Symlinks {
		emitSymlink(ew, link)
	}

	if ew.err == nil {
		ew.err = bw.Flush()
	}
	if ew.err != nil {
		return &OutputWriteError{Err: ew.err}
	}
	return nil
}

func (e *Emitter) emitPreamble(w io.Writer) error {
	fmt.Fprintf(w, "#!%s\n", e.opts.Shell)

	if needsGuard(e.opts) {
		dec, err := e.decoder()
		if err != nil {
			return err
		}
		guard, err := guardLine(dec)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, guard)
	}

	root := shellQuote(e.opts.Target)
	fmt.Fprintf(w, "if [ -n \"${%s}\" ]; then %s=$%s; else %s=%s; fi\n",
		RootEnvVar, TargetVar, RootEnvVar, TargetVar, root)
	return nil
}

func (e *Emitter) decoder() (codec.Decoder, error) {
	if e.opts.Codec != nil {
		return e.opts.Codec.Decoder(), nil
	}
	dec, ok := codec.DecoderFor(e.opts.Compression)
	if !ok {
		return codec.Decoder{}, fmt.Errorf("%w: no decoder for %s", ErrInvalidOptions, e.opts.Compression)
	}
	return dec, nil
}

func emitDirectories(w io.Writer, dirs []string) {
	seen := make(map[string]struct{}, len(dirs))
	rels := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		rel := relativePath(dir)
		if _, dup := seen[rel]; dup {
			continue
		}
		seen[rel] = struct{}{}
		rels = append(rels, rel)
	}
	sortDirectories(rels)

	for _, rel := range rels {
		fmt.Fprintf(w, "mkdir -p %s\n", destination(rel))
	}
}

func (e *Emitter) emitFile(w io.Writer, path string, p Payload) error {
	dest := destination(relativePath(path))

	if p.Empty {
		fmt.Fprintf(w, ": > %s\n", dest)
		return nil
	}

	body := escapeHeredoc(p.Data)
	token, err := e.tokens.Token(path, body)
	if err != nil {
		return err
	}

	e.opts.Logger.Debug("emitting file", "path", path, "bytes", len(body), "pipeline", p.Pipeline.String())

	fmt.Fprintf(w, "head -c -1 <<%s | %s > %s\n", token, p.Pipeline, dest)
	_, _ = w.Write(body)
	fmt.Fprintf(w, "\n%s\n", token)
	return nil
}

func emitSymlink(w io.Writer, link SymlinkEntry) {
	fmt.Fprintf(w, "ln -sf -- %s %s\n", shellQuote(link.Target), destination(relativePath(link.Path)))
}
