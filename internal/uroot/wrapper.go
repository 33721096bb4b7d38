// SPDX-License-Identifier: MPL-2.0

package uroot

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/u-root/u-root/pkg/core"
)

// baseWrapper carries name and flags for u-root pkg/core wrappers.
type baseWrapper struct {
	name  string
	flags []FlagInfo
}

// Name returns the command name.
func (w *baseWrapper) Name() string {
	return w.name
}

// SupportedFlags returns the flags supported by this command.
func (w *baseWrapper) SupportedFlags() []FlagInfo {
	return w.flags
}

// runCore runs a u-root command against the handler context. args[0] is
// stripped; pkg/core commands take only their operands.
func (w *baseWrapper) runCore(ctx context.Context, cmd core.Command, args []string) error {
	hc := GetHandlerContext(ctx)
	cmd.SetIO(hc.Stdin, hc.Stdout, hc.Stderr)
	cmd.SetWorkingDir(hc.Dir)
	cmd.SetLookupEnv(hc.LookupEnv)

	var operands []string
	if len(args) > 1 {
		operands = args[1:]
	}
	return wrapError(w.name, cmd.RunContext(ctx, operands...))
}

// wrapError prefixes err with "[uroot] <cmd>:". It returns nil for nil.
func wrapError(cmdName string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("[uroot] %s: %w", cmdName, err)
}

// resolvePath joins a relative path onto dir.
func resolvePath(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}
