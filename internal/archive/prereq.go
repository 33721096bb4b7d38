// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"fmt"

	"shzip-cli/internal/codec"

	"mvdan.cc/sh/v3/syntax"
)

// guardLine renders the extraction-time check for the decoder. The archive
// exits with the shell's "command not found" status when neither the
// primary nor the alias program is installed.
func guardLine(dec codec.Decoder) (string, error) {
	primary, alias := dec.Names()
	msg, err := syntax.Quote(
		fmt.Sprintf("shzip: %s or %s is required to extract this archive", primary, alias),
		syntax.LangPOSIX,
	)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"command -v %s >/dev/null 2>&1 || command -v %s >/dev/null 2>&1 || { echo %s >&2; exit 127; }",
		primary, alias, msg,
	), nil
}

// needsGuard reports whether the script must verify its decoder.
func needsGuard(opts Options) bool {
	return opts.Compression.Enabled() && !opts.SkipCheck
}
