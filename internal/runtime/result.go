// SPDX-License-Identifier: MPL-2.0

package runtime

import "shzip-cli/pkg/types"

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code types.ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result for a script that exited normally
// with a non-zero status.
func NewExitCodeResult(code types.ExitCode) *Result {
	return &Result{ExitCode: code}
}
