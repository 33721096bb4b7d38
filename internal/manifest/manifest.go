// SPDX-License-Identifier: MPL-2.0

// Package manifest reads the input lists passed with -T/--files-from.
//
// Plain text manifests hold one path per line; surrounding whitespace is
// trimmed and blank lines and lines starting with '#' are skipped. Files
// ending in .cue are validated against the embedded #Manifest schema and
// contribute their paths list.
package manifest

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"shzip-cli/pkg/cueutil"
)

// StdinName selects standard input as the manifest source.
const StdinName = "-"

// maxLineLength bounds a single manifest line.
const maxLineLength = 1 << 20

//go:embed manifest_schema.cue
var manifestSchema []byte

// ErrInvalidManifest is the sentinel wrapped by every manifest failure.
var ErrInvalidManifest = errors.New("invalid manifest")

type (
	// ManifestError reports where a manifest failed to load.
	ManifestError struct {
		Path string
		// Line is 1-based; zero when the failure is not tied to a line.
		Line int
		Err  error
	}

	document struct {
		Paths []string `json:"paths"`
	}
)

// Error implements the error interface.
func (e *ManifestError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("manifest %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

// Unwrap exposes both ErrInvalidManifest and the underlying cause.
func (e *ManifestError) Unwrap() []error { return []error{ErrInvalidManifest, e.Err} }

// Read loads the manifest at path; StdinName reads stdin as text.
func Read(path string, stdin io.Reader) ([]string, error) {
	if path == StdinName {
		return ParseText(stdin, "<stdin>")
	}

	if strings.EqualFold(filepath.Ext(path), ".cue") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ManifestError{Path: path, Err: err}
		}
		return ParseCUE(data, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &ManifestError{Path: path, Err: err}
	}
	defer func() { _ = f.Close() }() // read-only; close error carries no information

	return ParseText(f, path)
}

// ParseText parses a line-oriented manifest. name is used in errors.
func ParseText(r io.Reader, name string) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineLength)

	var paths []string
	line := 0
	for scanner.Scan() {
		line++
		entry := strings.TrimSpace(scanner.Text())
		if entry == "" || strings.HasPrefix(entry, "#") {
			continue
		}
		if strings.ContainsRune(entry, 0) {
			return nil, &ManifestError{Path: name, Line: line, Err: errors.New("path contains a NUL byte")}
		}
		paths = append(paths, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ManifestError{Path: name, Line: line + 1, Err: err}
	}
	return paths, nil
}

// ParseCUE decodes a CUE manifest. name is used in errors.
func ParseCUE(data []byte, name string) ([]string, error) {
	result, err := cueutil.ParseAndDecode[document](manifestSchema, data, "#Manifest", cueutil.WithFilename(name))
	if err != nil {
		return nil, &ManifestError{Path: name, Err: err}
	}
	return result.Value.Paths, nil
}
