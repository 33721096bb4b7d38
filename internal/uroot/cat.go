// SPDX-License-Identifier: MPL-2.0

package uroot

import (
	"context"

	"github.com/u-root/u-root/pkg/core/cat"
)

// catCommand wraps the u-root cat implementation. Archives use it as the
// identity stage of a decode pipeline.
type catCommand struct {
	baseWrapper
}

func init() {
	RegisterDefault(newCatCommand())
}

func newCatCommand() *catCommand {
	return &catCommand{
		baseWrapper: baseWrapper{
			name: "cat",
			flags: []FlagInfo{
				{Name: "u", Description: "ignored (for compatibility)"},
			},
		},
	}
}

// Run executes cat.
func (c *catCommand) Run(ctx context.Context, args []string) error {
	return c.runCore(ctx, cat.New(), args)
}
