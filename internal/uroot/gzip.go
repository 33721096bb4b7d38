// SPDX-License-Identifier: MPL-2.0

package uroot

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// gzipCommand compresses or decompresses gzip streams. Only stream mode is
// supported: input comes from stdin or the operands and output always goes
// to stdout, which is all an archive's decode pipeline needs.
type gzipCommand struct {
	name  string
	flags []FlagInfo
}

func init() {
	RegisterDefault(newGzipCommand())
}

func newGzipCommand() *gzipCommand {
	return &gzipCommand{
		name: "gzip",
		flags: []FlagInfo{
			{Name: "d", Description: "decompress"},
			{Name: "c", Description: "write to stdout (always on)"},
			{Name: "n", Description: "omit name and timestamp (always on)"},
			{Name: "f", Description: "ignored (for compatibility)"},
			{Name: "q", Description: "ignored (for compatibility)"},
		},
	}
}

// Name returns the command name.
func (c *gzipCommand) Name() string { return c.name }

// SupportedFlags returns the flags supported by this command.
func (c *gzipCommand) SupportedFlags() []FlagInfo { return c.flags }

// Run executes gzip [-dcnfq] [FILE...].
func (c *gzipCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	decompress := fs.Bool("d", false, "decompress")
	fs.Bool("c", true, "stdout")
	fs.Bool("n", true, "no name")
	fs.Bool("f", false, "force")
	fs.Bool("q", false, "quiet")
	if err := fs.Parse(expandShortFlags(args[1:], "dcnfq")); err != nil {
		return wrapError(c.name, err)
	}

	if !*decompress {
		zw := gzip.NewWriter(hc.Stdout)
		err := ProcessFilesOrStdin(fs.Args(), hc.Stdin, hc.Dir, c.name,
			func(r io.Reader, _ string, _, _ int) error {
				_, err := io.Copy(zw, r)
				return wrapError(c.name, err)
			})
		if closeErr := zw.Close(); closeErr != nil {
			err = errors.Join(err, wrapError(c.name, closeErr))
		}
		return err
	}

	return ProcessFilesOrStdin(fs.Args(), hc.Stdin, hc.Dir, c.name,
		func(r io.Reader, filename string, _, _ int) error {
			zr, err := gzip.NewReader(r)
			if err != nil {
				return wrapError(c.name, fmt.Errorf("%s: %w", displayName(filename), err))
			}
			defer func() { _ = zr.Close() }()
			if _, err := io.Copy(hc.Stdout, zr); err != nil {
				return wrapError(c.name, fmt.Errorf("%s: %w", displayName(filename), err))
			}
			return nil
		})
}

func displayName(filename string) string {
	if filename == "-" {
		return "stdin"
	}
	return filename
}
