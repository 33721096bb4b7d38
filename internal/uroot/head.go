// SPDX-License-Identifier: MPL-2.0

package uroot

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"math"
)

// headCommand implements head with line (-n) and byte (-c) counts.
type headCommand struct {
	name  string
	flags []FlagInfo
}

func init() {
	RegisterDefault(newHeadCommand())
}

func newHeadCommand() *headCommand {
	return &headCommand{
		name: "head",
		flags: []FlagInfo{
			{Name: "n", Description: "number of lines to output", TakesValue: true},
			{Name: "c", Description: "number of bytes to output; negative drops that many trailing bytes", TakesValue: true},
		},
	}
}

// Name returns the command name.
func (c *headCommand) Name() string { return c.name }

// SupportedFlags returns the flags supported by this command.
func (c *headCommand) SupportedFlags() []FlagInfo { return c.flags }

// Run executes head. "-c -N" copies everything except the last N bytes,
// which is how archives trim the newline that closes a here-document.
func (c *headCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	fs := flag.NewFlagSet(c.name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	numLines := fs.Int("n", 10, "number of lines")
	numBytes := fs.Int64("c", math.MinInt64, "number of bytes")
	if err := fs.Parse(args[1:]); err != nil {
		return wrapError(c.name, err)
	}
	byteMode := *numBytes != math.MinInt64

	return ProcessFilesOrStdin(fs.Args(), hc.Stdin, hc.Dir, c.name,
		func(r io.Reader, filename string, index, total int) error {
			if total > 1 {
				if index > 0 {
					fmt.Fprintln(hc.Stdout)
				}
				fmt.Fprintf(hc.Stdout, "==> %s <==\n", filename)
			}
			var err error
			if byteMode {
				err = copyBytes(hc.Stdout, r, *numBytes)
			} else {
				err = copyLines(hc.Stdout, r, *numLines)
			}
			return wrapError(c.name, err)
		})
}

// copyLines writes the first n lines of in.
func copyLines(out io.Writer, in io.Reader, n int) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for count := 0; count < n && scanner.Scan(); count++ {
		fmt.Fprintln(out, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	return nil
}

// copyBytes writes the first n bytes of in, or for negative n all but the
// last -n bytes. Memory use is bounded by -n.
func copyBytes(out io.Writer, in io.Reader, n int64) error {
	if n >= 0 {
		if _, err := io.CopyN(out, in, n); err != nil && err != io.EOF {
			return fmt.Errorf("reading input: %w", err)
		}
		return nil
	}

	keep := int(-n)
	held := make([]byte, 0, keep+32*1024)
	buf := make([]byte, 32*1024)
	for {
		m, err := in.Read(buf)
		held = append(held, buf[:m]...)
		if excess := len(held) - keep; excess > 0 {
			if _, werr := out.Write(held[:excess]); werr != nil {
				return werr
			}
			held = append(held[:0], held[excess:]...)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}
}
