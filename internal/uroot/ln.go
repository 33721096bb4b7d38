// SPDX-License-Identifier: MPL-2.0

package uroot

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// lnCommand implements ln for hard and symbolic links.
type lnCommand struct {
	name  string
	flags []FlagInfo
}

func init() {
	RegisterDefault(newLnCommand())
}

func newLnCommand() *lnCommand {
	return &lnCommand{
		name: "ln",
		flags: []FlagInfo{
			{Name: "s", Description: "make symbolic links instead of hard links"},
			{Name: "f", Description: "remove existing destination files"},
		},
	}
}

// Name returns the command name.
func (c *lnCommand) Name() string { return c.name }

// SupportedFlags returns the flags supported by this command.
func (c *lnCommand) SupportedFlags() []FlagInfo { return c.flags }

// Run executes ln [-sf] [--] TARGET LINK_NAME.
//
// A symbolic link stores TARGET exactly as given; only LINK_NAME resolves
// against the working directory. Hard link targets resolve as paths.
func (c *lnCommand) Run(ctx context.Context, args []string) error {
	hc := GetHandlerContext(ctx)

	flags := flag.NewFlagSet(c.name, flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	symbolic := flags.Bool("s", false, "symbolic link")
	force := flags.Bool("f", false, "force overwrite")
	if err := flags.Parse(expandShortFlags(args[1:], "sf")); err != nil {
		return wrapError(c.name, err)
	}

	operands := flags.Args()
	if len(operands) < 2 {
		return wrapError(c.name, errors.New("missing file operand"))
	}

	target := operands[0]
	linkName := resolvePath(hc.Dir, operands[1])

	if *force {
		if err := os.Remove(linkName); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return wrapError(c.name, fmt.Errorf("cannot remove %q: %w", linkName, err))
		}
	}

	if *symbolic {
		return wrapError(c.name, os.Symlink(target, linkName))
	}
	return wrapError(c.name, os.Link(resolvePath(hc.Dir, target), linkName))
}
