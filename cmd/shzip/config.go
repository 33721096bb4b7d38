// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"shzip-cli/internal/config"
	"shzip-cli/pkg/types"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `shzip config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage shzip configuration",
		Long: `Manage shzip configuration.

Configuration is stored in:
  - Linux: ~/.config/shzip/config.cue
  - macOS: ~/Library/Application Support/shzip/config.cue
  - Windows: %APPDATA%\shzip\config.cue

A config.cue in the current directory is used when the file above does not
exist. SHZIP_* environment variables (e.g. SHZIP_ARCHIVE_JOBS=4) override
file values, and command-line flags override both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: configPathFromContext(cmd.Context())})
			if err != nil {
				return &ExitError{Code: types.ExitFailure, Err: configIssue(err)}
			}

			_, _ = fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	configPath := configPathFromContext(ctx)
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err != nil {
		renderGuide(app.stderr, configIssue(err), config.ColorSchemeAuto)
		return &ExitError{Code: types.ExitFailure, Err: configIssue(err)}
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	out := app.stdout

	_, _ = fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	_, _ = fmt.Fprintln(out)

	if cfg.Source != "" {
		_, _ = fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), cfg.Source)
	} else {
		_, _ = fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintf(out, "%s:\n", keyStyle.Render("archive"))
	for _, kv := range [][2]string{
		{"shell", cfg.Archive.Shell},
		{"target", cfg.Archive.Target},
		{"compression", cfg.Archive.Compression.String()},
		{"codec_backend", cfg.Archive.CodecBackend.String()},
		{"reproducible", fmt.Sprint(cfg.Archive.Reproducible)},
		{"dereference", fmt.Sprint(cfg.Archive.Dereference)},
		{"skip_check", fmt.Sprint(cfg.Archive.SkipCheck)},
		{"jobs", fmt.Sprint(cfg.Archive.Jobs)},
	} {
		_, _ = fmt.Fprintf(out, "  %s: %s\n", kv[0], valueStyle.Render(kv[1]))
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	_, _ = fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
	_, _ = fmt.Fprintf(out, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))

	return nil
}

func initConfig(app *App) error {
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	created, err := config.CreateDefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	if !created {
		_, _ = fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), cfgPath)
		return nil
	}

	_, _ = fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	_, _ = fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)
	return nil
}
