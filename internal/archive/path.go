// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"path/filepath"
	"strings"

	"golang.org/x/exp/slices"
	"mvdan.cc/sh/v3/syntax"
)

// TargetVar is the script variable holding the resolved extraction root.
const TargetVar = "_TARGET"

// relativePath re-roots a source path under the extraction root. Leading
// separators and "." or ".." prefixes are dropped, so neither absolute nor
// parent-relative sources can land outside the root. "" is the root itself.
func relativePath(p string) string {
	rel := strings.TrimLeft(filepath.ToSlash(filepath.Clean(p)), "/")
	for {
		switch {
		case rel == "." || rel == "..":
			return ""
		case strings.HasPrefix(rel, "./"):
			rel = strings.TrimLeft(rel[2:], "/")
		case strings.HasPrefix(rel, "../"):
			rel = strings.TrimLeft(rel[3:], "/")
		default:
			return rel
		}
	}
}

// destination renders the shell word naming rel under the extraction root.
func destination(rel string) string {
	root := `"$` + TargetVar + `"`
	if rel == "" {
		return root
	}
	return root + "/" + shellQuote(rel)
}

// shellQuote renders s as a single POSIX shell word. Names syntax.Quote
// rejects, such as those holding control bytes or invalid UTF-8, are
// single-quoted verbatim; single quotes carry every byte but NUL.
func shellQuote(s string) string {
	if quoted, err := syntax.Quote(s, syntax.LangPOSIX); err == nil {
		return quoted
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// escapeHeredoc neutralizes the characters an unquoted here-document
// expands: backslash, dollar and backquote.
func escapeHeredoc(data []byte) []byte {
	extra := 0
	for _, b := range data {
		if b == '\\' || b == '$' || b == '`' {
			extra++
		}
	}
	if extra == 0 {
		return data
	}

	out := make([]byte, 0, len(data)+extra)
	for _, b := range data {
		if b == '\\' || b == '$' || b == '`' {
			out = append(out, '\\')
		}
		out = append(out, b)
	}
	return out
}

// sortDirectories orders re-rooted directories so every ancestor precedes
// its descendants: shorter paths first, ties broken lexically.
func sortDirectories(dirs []string) {
	slices.SortFunc(dirs, func(a, b string) int {
		if len(a) != len(b) {
			return len(a) - len(b)
		}
		return strings.Compare(a, b)
	})
}
