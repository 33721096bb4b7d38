// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"shzip-cli/internal/config"
	"shzip-cli/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the persistent flags shared by every command.
type rootFlags struct {
	// verbose enables debug logging, error chains and issue guides
	verbose bool
	// configPath allows specifying a custom config file
	configPath string
}

// NewRootCommand builds the shzip command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	cmd, _ := newRootCommand(app)
	return cmd
}

func newRootCommand(app *App) (*cobra.Command, *rootFlags) {
	globals := &rootFlags{}
	create := &createFlags{}

	rootCmd := &cobra.Command{
		Use:   "shzip [flags] [paths...]",
		Short: "Pack files into a self-extracting shell script",
		Long: TitleStyle.Render("shzip") + SubtitleStyle.Render(" - Pack files into a self-extracting shell script") + `

shzip turns files, directories and symlinks into one POSIX shell script.
Running the script on any host with /bin/sh recreates them, no archive
tool required. Binary content is stored as base64; payloads can be
compressed with gzip, bzip2 or xz.

` + SubtitleStyle.Render("Examples:") + `
  shzip -f site.sh ./public          Archive a directory into site.sh
  shzip -z ./logs > logs.sh          Compress with gzip, write to stdout
  shzip -T files.txt -f bundle.sh    Read the input list from a manifest
  TARGET=/srv sh site.sh             Extract under /srv instead of the default
  shzip list site.sh                 Show what an archive would create
  shzip extract site.sh --target out Extract without a host shell`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(contextWithConfigPath(cmd.Context(), globals.configPath))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && create.filesFrom == "" {
				return cmd.Help()
			}
			return runCreate(cmd, app, globals, create, args)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&globals.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/shzip/config.cue)")
	create.register(rootCmd)

	rootCmd.AddCommand(newExtractCommand(app, globals))
	rootCmd.AddCommand(newListCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd, globals
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute builds the App and runs the root command. This is called by
// main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error:"), err)
		os.Exit(int(types.ExitFailure))
	}
	rootCmd, globals := newRootCommand(app)

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler(globals)),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}

// errorHandler prints failures with their suggestions; the full error chain
// is added in verbose mode.
func errorHandler(globals *rootFlags) fang.ErrorHandler {
	return func(w io.Writer, _ fang.Styles, err error) {
		_, _ = fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, globals.verbose))
	}
}

// fail converts err into an ExitError with the given code. In verbose mode
// the linked issue guide is rendered first.
func (a *App) fail(globals *rootFlags, scheme config.ColorScheme, code types.ExitCode, err error) error {
	if globals.verbose {
		renderGuide(a.stderr, err, scheme)
	}
	return &ExitError{Code: code, Err: err}
}
