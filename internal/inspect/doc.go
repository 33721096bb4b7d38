// SPDX-License-Identifier: MPL-2.0

// Package inspect lists the contents of a generated archive by parsing the
// script with mvdan.cc/sh instead of running it. Only the statement shapes
// the archive emitter writes are accepted; anything else is reported as a
// FormatError.
package inspect
