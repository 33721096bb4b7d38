// SPDX-License-Identifier: MPL-2.0

// Package codec wraps the compression programs an archive can use.
//
// Compression is always delegated: the default backend pipes bytes through
// the host's gzip, bzip2 or xz binary as an opaque filter, and the matching
// [Decoder] describes the program the generated script runs at extraction
// time. A builtin gzip backend (github.com/klauspost/compress) exists for
// generation hosts that lack the gzip binary; its output is a standard gzip
// stream, so the extraction side is unchanged.
package codec
