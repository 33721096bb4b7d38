// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"shzip-cli/internal/config"
	"shzip-cli/internal/runtime"

	"github.com/charmbracelet/log"
)

type (
	configPathContextKey struct{}

	// App wires CLI services and shared dependencies. All Cobra command
	// handlers receive an App reference.
	App struct {
		Config   ConfigProvider
		Runtimes *runtime.Registry
		stdin    io.Reader
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Runtimes *runtime.Registry
		Stdin    io.Reader
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runtimes == nil {
		deps.Runtimes = runtime.NewRegistry()
	}

	return &App{
		Config:   deps.Config,
		Runtimes: deps.Runtimes,
		stdin:    deps.Stdin,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}, nil
}

// contextWithConfigPath attaches the explicit --config value to the context.
func contextWithConfigPath(ctx context.Context, configPath string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configPathContextKey{}, configPath)
}

// configPathFromContext extracts the explicit config path from context.
func configPathFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(configPathContextKey{}).(string); ok {
		return v
	}
	return ""
}

// loadConfig loads configuration for a command. A file named with --config
// must load; a broken default file only produces a warning and the
// defaults apply.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	configPath := configPathFromContext(ctx)
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err == nil {
		return cfg, nil
	}
	if configPath != "" {
		return nil, err
	}

	_, _ = fmt.Fprintf(a.stderr, "%s %s (using defaults)\n",
		WarningStyle.Render("warning:"), formatErrorForDisplay(err, false))
	return config.DefaultConfig(), nil
}

// newLogger builds the CLI logger. Debug output is enabled in verbose mode.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "shzip",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
