// SPDX-License-Identifier: MPL-2.0

package uroot

import "context"

type (
	// Command is one in-process utility.
	Command interface {
		// Name returns the command name as scripts invoke it.
		Name() string

		// Run executes the command. The HandlerContext in ctx carries stdio
		// and the working directory. args[0] is the command name.
		// Errors are prefixed with "[uroot] <name>:".
		Run(ctx context.Context, args []string) error

		// SupportedFlags lists the flags the implementation honors.
		SupportedFlags() []FlagInfo
	}

	// FlagInfo describes a supported flag.
	FlagInfo struct {
		// Name is the flag name without dashes.
		Name string
		// ShortName is the single-character alias, if any.
		ShortName string
		// Description explains what the flag does.
		Description string
		// TakesValue reports whether the flag consumes an argument.
		TakesValue bool
	}
)
