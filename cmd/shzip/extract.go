// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"shzip-cli/internal/config"
	"shzip-cli/internal/runtime"
	"shzip-cli/pkg/types"

	"github.com/spf13/cobra"
)

type extractFlags struct {
	target string
	native bool
}

// newExtractCommand creates the `shzip extract` command.
func newExtractCommand(app *App, globals *rootFlags) *cobra.Command {
	f := &extractFlags{}

	cmd := &cobra.Command{
		Use:   "extract <archive>",
		Short: "Run an archive to recreate its contents",
		Long: `Run an archive to recreate its contents.

By default the archive runs in the built-in POSIX interpreter, which
provides mkdir, ln, head, base64, cat and gzip itself, so no host shell
or coreutils are needed. bzip2 and xz archives still need their
decompressor on PATH. Use --native to run the archive with the host's sh.

Pass - to read the archive from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, app, globals, f, args[0])
		},
	}

	cmd.Flags().StringVar(&f.target, "target", "", "extract under `dir` instead of the archive's default root")
	cmd.Flags().BoolVar(&f.native, "native", false, "run the archive with the host shell")

	return cmd
}

func runExtract(cmd *cobra.Command, app *App, globals *rootFlags, f *extractFlags, archivePath string) error {
	ctx := cmd.Context()

	cfg, err := app.loadConfig(ctx)
	if err != nil {
		return app.fail(globals, config.ColorSchemeAuto, types.ExitFailure, configIssue(err))
	}
	globals.verbose = globals.verbose || cfg.UI.Verbose
	logger := newLogger(app.stderr, globals.verbose)

	script, err := readArchive(archivePath, app.stdin)
	if err != nil {
		return app.fail(globals, cfg.UI.ColorScheme, types.ExitFailure, err)
	}

	typ := runtime.RuntimeTypeVirtual
	if f.native {
		typ = runtime.RuntimeTypeNative
	}

	execCtx := runtime.NewExecutionContext(ctx, script)
	execCtx.ScriptName = archivePath
	execCtx.Target = f.target
	execCtx.Stdout = app.stdout
	execCtx.Stderr = app.stderr
	execCtx.Stdin = app.stdin
	if archivePath == stdinArchive {
		execCtx.Stdin = strings.NewReader("")
	}

	logger.Debug("extracting archive", "archive", archivePath, "runtime", typ, "target", f.target, "bytes", len(script))

	result := app.Runtimes.Execute(typ, execCtx)
	if !result.Success() {
		code := result.ExitCode
		if code.IsSuccess() {
			code = types.ExitFailure
		}
		return app.fail(globals, cfg.UI.ColorScheme, code, classifyExtractError(archivePath, result.ExitCode, result.Error))
	}

	_, _ = fmt.Fprintf(app.stderr, "%s Extracted %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(archivePath))
	return nil
}
