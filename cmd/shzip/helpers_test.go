// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"shzip-cli/internal/config"
	"shzip-cli/internal/testutil"
)

// staticConfig is a ConfigProvider returning a fixed configuration.
type staticConfig struct {
	cfg *config.Config
	err error
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	cfg := *s.cfg
	return &cfg, nil
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// runCLI executes the root command with args against default configuration.
func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()
	return runCLIWith(t, staticConfig{cfg: config.DefaultConfig()}, stdin, args...)
}

func runCLIWith(t *testing.T, provider ConfigProvider, stdin string, args ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app, err := NewApp(Dependencies{
		Config: provider,
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
	})
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}

	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	err = rootCmd.ExecuteContext(t.Context())
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// writeFile writes content to path relative to the working directory.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	testutil.WriteFile(t, ".", path, []byte(content))
}
