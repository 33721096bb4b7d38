// SPDX-License-Identifier: MPL-2.0

// Package runtime executes shzip archives.
//
// Two runtime implementations are available:
//   - virtual: interprets the archive in-process with mvdan/sh, serving the
//     utilities it calls from the uroot registry
//   - native: hands the archive to a host POSIX shell
//
// Both implement the Runtime interface. ExecutionContext carries the script,
// the extraction root and the I/O streams; Result reports the exit status.
// The extraction root travels as the TARGET environment variable, exactly
// as a user would set it when running the archive by hand.
package runtime
