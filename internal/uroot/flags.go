// SPDX-License-Identifier: MPL-2.0

package uroot

import "strings"

// expandShortFlags splits combined boolean flags such as "-sf" into "-s"
// "-f" so flag.FlagSet can parse them. Only arguments made entirely of
// letters in bools are split. Expansion stops at "--" or the first operand.
func expandShortFlags(args []string, bools string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" || arg == "-" || !strings.HasPrefix(arg, "-") {
			return append(out, args[i:]...)
		}
		letters := arg[1:]
		if len(letters) < 2 || letters[0] == '-' || strings.Trim(letters, bools) != "" {
			out = append(out, arg)
			continue
		}
		for _, l := range letters {
			out = append(out, "-"+string(l))
		}
	}
	return out
}
