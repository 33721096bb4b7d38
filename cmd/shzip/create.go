// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"slices"

	"shzip-cli/internal/archive"
	"shzip-cli/internal/codec"
	"shzip-cli/internal/config"
	"shzip-cli/internal/issue"
	"shzip-cli/internal/manifest"
	"shzip-cli/pkg/types"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// createFlags are the archive generation flags of the root command. Each
// one overrides the matching config value only when given explicitly.
type createFlags struct {
	output       string
	shell        string
	target       string
	filesFrom    string
	codecBackend string
	compression  string
	gzip         bool
	bzip2        bool
	xz           bool
	reproducible bool
	dereference  bool
	noCheck      bool
	jobs         int
}

func (f *createFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.output, "file", "f", "-", "write the archive to `path` (- for stdout)")
	flags.StringVar(&f.shell, "shell", archive.DefaultShell, "interpreter named on the script's first line")
	flags.StringVar(&f.target, "target", archive.DefaultTarget, "default extraction root; $TARGET overrides it at extraction")
	flags.StringVarP(&f.filesFrom, "files-from", "T", "", "read input paths from `manifest` (- for stdin, *.cue for CUE)")
	flags.StringVar(&f.codecBackend, "codec-backend", string(codec.BackendExec), "how to compress: exec (host binaries) or builtin (gzip only)")
	flags.StringVar(&f.compression, "compression", string(config.CompressionNone), "payload codec: none, gzip, bzip2 or xz")
	flags.BoolVarP(&f.gzip, "gzip", "z", false, "compress payloads with gzip")
	flags.BoolVarP(&f.bzip2, "bzip2", "j", false, "compress payloads with bzip2")
	flags.BoolVarP(&f.xz, "xz", "J", false, "compress payloads with xz")
	flags.BoolVar(&f.reproducible, "reproducible", false, "derive termination tokens from content for byte-identical output")
	flags.BoolVarP(&f.dereference, "dereference", "L", false, "follow symlinks and archive what they point to")
	flags.BoolVar(&f.noCheck, "no-check", false, "omit the decompressor check from compressed archives")
	flags.IntVar(&f.jobs, "jobs", 1, "number of files to encode in parallel")

	cmd.MarkFlagsMutuallyExclusive("gzip", "bzip2", "xz", "compression")
}

// archiveConfig overlays the explicitly set flags on base.
func (f *createFlags) archiveConfig(cmd *cobra.Command, base config.ArchiveConfig) (config.ArchiveConfig, error) {
	changed := cmd.Flags().Changed
	ac := base

	if changed("shell") {
		ac.Shell = f.shell
	}
	if changed("target") {
		ac.Target = f.target
	}
	if changed("codec-backend") {
		ac.CodecBackend = config.CodecBackend(f.codecBackend)
	}
	switch {
	case changed("compression"):
		ac.Compression = config.Compression(f.compression)
	case f.gzip:
		ac.Compression = config.CompressionGzip
	case f.bzip2:
		ac.Compression = config.CompressionBzip2
	case f.xz:
		ac.Compression = config.CompressionXz
	}
	if changed("reproducible") {
		ac.Reproducible = f.reproducible
	}
	if changed("dereference") {
		ac.Dereference = f.dereference
	}
	if changed("no-check") {
		ac.SkipCheck = f.noCheck
	}
	if changed("jobs") {
		ac.Jobs = f.jobs
	}

	if valid, errs := ac.IsValid(); !valid {
		return ac, issue.NewErrorContext().
			WithOperation("configure archive").
			WithSuggestion("The builtin codec backend only supports gzip (-z)").
			WithSuggestion("--jobs must be at least 1").
			Wrap(errs[0]).
			BuildError()
	}
	return ac, nil
}

// archiveOptions converts validated settings into generator options.
func archiveOptions(ac config.ArchiveConfig, logger *log.Logger) archive.Options {
	return archive.Options{
		Compression:  codec.Algorithm(ac.Compression),
		CodecBackend: codec.Backend(ac.CodecBackend),
		Reproducible: ac.Reproducible,
		Dereference:  ac.Dereference,
		SkipCheck:    ac.SkipCheck,
		Target:       ac.Target,
		Shell:        ac.Shell,
		Jobs:         ac.Jobs,
		Logger:       logger,
	}
}

// inputPaths returns the positional paths followed by the manifest entries.
func (f *createFlags) inputPaths(app *App, args []string) ([]string, error) {
	paths := slices.Clone(args)
	if f.filesFrom == "" {
		return paths, nil
	}
	listed, err := manifest.Read(f.filesFrom, app.stdin)
	if err != nil {
		return nil, err
	}
	return append(paths, listed...), nil
}

func runCreate(cmd *cobra.Command, app *App, globals *rootFlags, f *createFlags, args []string) error {
	ctx := cmd.Context()

	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return app.fail(globals, config.ColorSchemeAuto, types.ExitFailure, configIssue(err))
	}
	globals.verbose = globals.verbose || cfg.UI.Verbose
	logger := newLogger(app.stderr, globals.verbose)

	ac, err := f.archiveConfig(cmd, cfg.Archive)
	if err != nil {
		return app.fail(globals, cfg.UI.ColorScheme, types.ExitFailure, err)
	}

	paths, err := f.inputPaths(app, args)
	if err != nil {
		return app.fail(globals, cfg.UI.ColorScheme, types.ExitFailure, classifyCreateError(err))
	}

	gen, err := archive.NewGenerator(archiveOptions(ac, logger))
	if err != nil {
		return app.fail(globals, cfg.UI.ColorScheme, types.ExitFailure, classifyCreateError(err))
	}
	logger.Debug("generating archive",
		"inputs", len(paths), "compression", ac.Compression, "backend", ac.CodecBackend, "jobs", ac.Jobs)

	if err := gen.WriteTo(ctx, f.output, app.stdout, paths); err != nil {
		return app.fail(globals, cfg.UI.ColorScheme, types.ExitFailure, classifyCreateError(err))
	}

	if !archive.IsStdout(f.output) {
		_, _ = fmt.Fprintf(app.stderr, "%s Created %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(f.output))
	}
	return nil
}
