// SPDX-License-Identifier: MPL-2.0

package uroot

import (
	"bufio"
	"context"
	"encoding/base64"
	"flag"
	"fmt"
	"io"
)

// base64Wrap is the default output line width, matching GNU base64.
const base64Wrap = 76

// base64Command encodes or decodes standard base64.
type base64Command struct {
	name  string
	flags []FlagInfo
}

func init() {
	RegisterDefault(newBase64Command())
}

func newBase64Command() *base64Command {
	return &base64Command{
		name: "base64",
		flags: []FlagInfo{
			{Name: "d", Description: "decode data"},
			{Name: "w", Description: "wrap encoded lines after N characters (0 disables)", TakesValue: true},
		},
	}
}

// Name returns the command name.
func (c *base64Command) Name() string { return c.name }

// SupportedFlags returns the flags supported by this command.
func (c *base64Command) SupportedFlags() []FlagInfo { return c.flags }

// Run executes base64 [-d] [-w N] [FILE].
func (c *base64Command) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	decode := fs.Bool("d", false, "decode")
	wrap := fs.Int("w", base64Wrap, "wrap column")
	if err := fs.Parse(args[1:]); err != nil {
		return wrapError(c.name, err)
	}

	return ProcessFilesOrStdin(fs.Args(), hc.Stdin, hc.Dir, c.name,
		func(r io.Reader, _ string, _, _ int) error {
			if *decode {
				// The decoder skips '\r' and '\n', so wrapped input needs no
				// preprocessing.
				if _, err := io.Copy(hc.Stdout, base64.NewDecoder(base64.StdEncoding, r)); err != nil {
					return wrapError(c.name, fmt.Errorf("invalid input: %w", err))
				}
				return nil
			}
			return wrapError(c.name, encodeWrapped(hc.Stdout, r, *wrap))
		})
}

// encodeWrapped writes the base64 form of in, broken into lines of width
// columns and terminated by a newline.
func encodeWrapped(out io.Writer, in io.Reader, width int) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(data)

	bw := bufio.NewWriter(out)
	for width > 0 && len(encoded) > width {
		_, _ = bw.WriteString(encoded[:width])
		_ = bw.WriteByte('\n')
		encoded = encoded[width:]
	}
	if encoded != "" {
		_, _ = bw.WriteString(encoded)
		_ = bw.WriteByte('\n')
	}
	return bw.Flush()
}
