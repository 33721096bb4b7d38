// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"fmt"
	"io"
	"strings"

	"shzip-cli/internal/codec"

	"github.com/charmbracelet/log"
)

const (
	// DefaultShell is the interpreter named on the script's first line.
	DefaultShell = "/bin/sh"
	// DefaultTarget is the extraction root used when TARGET is unset.
	DefaultTarget = "."
	// RootEnvVar overrides the extraction root when set and non-empty.
	RootEnvVar = "TARGET"
)

type (
	// Options controls one generation.
	Options struct {
		// Compression selects at most one external codec.
		Compression codec.Algorithm
		// CodecBackend selects how Compression runs at generation time.
		CodecBackend codec.Backend
		// Codec overrides the codec built from Compression and CodecBackend.
		Codec codec.Codec
		// Reproducible derives termination tokens from payloads instead of
		// drawing them at random.
		Reproducible bool
		// Dereference follows symlinks and archives what they point to.
		Dereference bool
		// SkipCheck omits the decoder guard from compressed archives.
		SkipCheck bool
		// Target is the default extraction root baked into the script.
		Target string
		// Shell is the interpreter path for the shebang line.
		Shell string
		// Jobs bounds parallel payload encoding. Values below 2 encode serially.
		Jobs int
		// Logger receives debug output. Nil discards it.
		Logger *log.Logger
	}

	// Spec is a fully resolved generation request: the deduplicated entries
	// plus the options that shape the script.
	Spec struct {
		Files       []*FileEntry
		Directories []string
		Symlinks    []SymlinkEntry
		Options     Options
	}
)

// withDefaults fills unset fields and validates the rest.
func (o Options) withDefaults() (Options, error) {
	if o.Shell == "" {
		o.Shell = DefaultShell
	}
	if o.Target == "" {
		o.Target = DefaultTarget
	}
	if o.Compression == "" {
		o.Compression = codec.None
	}
	if o.Jobs < 1 {
		o.Jobs = 1
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}

	if valid, errs := o.Compression.IsValid(); !valid {
		return o, fmt.Errorf("%w: %w", ErrInvalidOptions, errs[0])
	}
	if strings.ContainsAny(o.Shell, "\n\r") {
		return o, fmt.Errorf("%w: shell path %q spans lines", ErrInvalidOptions, o.Shell)
	}
	if o.Codec != nil && o.Codec.Algorithm() != o.Compression {
		return o, fmt.Errorf("%w: codec %s does not match compression %s",
			ErrInvalidOptions, o.Codec.Algorithm(), o.Compression)
	}
	return o, nil
}

// Spec snapshots the set into a generation request.
func (s *Set) Spec(opts Options) *Spec {
	return &Spec{
		Files:       s.Files(),
		Directories: s.Directories(),
		Symlinks:    s.Symlinks(),
		Options:     opts,
	}
}
