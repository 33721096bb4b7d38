// SPDX-License-Identifier: MPL-2.0

// Package archive turns filesystem paths into a self-extracting POSIX shell
// script.
//
// Generation runs in three stages. The resolver classifies every reachable
// input path into files, symlinks and the directories that must exist
// before them. The encoder turns each file's bytes into a payload that can
// live inside a shell here-document, compressing it through an external
// codec and base64-wrapping it when needed. The emitter writes the script:
// interpreter line, optional decoder guard, extraction-root resolution,
// directory creation (shortest path first), one framed here-document per
// file and finally the symlinks.
//
// Each payload is framed by a termination token. Tokens are random per file
// by default; in reproducible mode they are derived from the payload itself,
// so identical input always yields a byte-identical script. Either way a
// token is never used if a payload line equals it.
//
// The generated script relies on a POSIX shell plus mkdir, ln, head (with
// negative byte counts), base64 and, when compression is on, one
// decompressor. The TARGET environment variable overrides the extraction
// root baked in at generation time.
package archive
