// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable errors for the CLI boundary.
//
// An ActionableError names the failed operation, the resource involved and
// suggestions for the user. It may link one of the Markdown troubleshooting
// guides in this package, which the CLI renders with glamour in verbose mode.
package issue
