// SPDX-License-Identifier: MPL-2.0

// Package uroot provides the POSIX utilities an shzip archive calls, as
// in-process commands for the virtual extraction runtime.
//
// A generated archive only needs a handful of programs: mkdir, head, cat,
// base64, ln and a decompressor. Registering them here lets the runtime
// extract an archive through mvdan/sh without touching the host's binaries,
// which keeps extraction tests hermetic and lets `shzip extract` work on
// systems that lack coreutils.
//
// # Commands
//
// Wrappers around u-root pkg/core (github.com/u-root/u-root):
//   - cat: copy files or stdin to stdout
//   - mkdir: create directories, with -p for parents
//
// Custom implementations:
//   - base64: encode, or decode with -d; line breaks in the input are ignored
//   - gzip: compress, or decompress with -d; -c writes to stdout
//   - head: first N lines (-n) or bytes (-c); a negative -c drops the last N bytes
//   - ln: hard or symbolic links; symlink targets are stored verbatim
//
// # Error Format
//
// Errors are prefixed with "[uroot]" so they stand apart from host shell
// output:
//
//	[uroot] head: reading input: unexpected EOF
//
// # Combined Short Flags
//
// Custom commands accept POSIX combined boolean flags ("-sf", "-dc") by
// splitting them with expandShortFlags before flag parsing. u-root wrappers
// parse their own arguments.
package uroot
