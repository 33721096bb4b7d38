// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"errors"
	"io"
	"os/exec"

	"shzip-cli/pkg/types"
)

type (
	// executeOutput is where a run sends its output: the caller's writers
	// or capture buffers.
	executeOutput struct {
		stdout io.Writer
		stderr io.Writer
	}

	// capturedOutput holds captured stdout and stderr.
	capturedOutput struct {
		stdout bytes.Buffer
		stderr bytes.Buffer
	}
)

// newStreamingOutput streams to the provided writers. Nil writers discard.
func newStreamingOutput(stdout, stderr io.Writer) *executeOutput {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &executeOutput{stdout: stdout, stderr: stderr}
}

// newCapturingOutput captures to buffers held by the returned capturedOutput.
func newCapturingOutput() (*executeOutput, *capturedOutput) {
	captured := &capturedOutput{}
	return &executeOutput{stdout: &captured.stdout, stderr: &captured.stderr}, captured
}

// withCaptured copies captured output into result.
func withCaptured(result *Result, captured *capturedOutput) *Result {
	if captured != nil {
		result.Output = captured.stdout.String()
		result.ErrOutput = captured.stderr.String()
	}
	return result
}

// extractExitCode maps a process error to a Result.
func extractExitCode(err error, captured *capturedOutput) *Result {
	if err == nil {
		return withCaptured(NewSuccessResult(), captured)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := types.ExitCode(exitErr.ExitCode())
		if validateErr := code.Validate(); validateErr != nil {
			// Killed by a signal: ExitCode() reports -1.
			return withCaptured(NewErrorResult(types.ExitFailure, validateErr), captured)
		}
		return withCaptured(NewExitCodeResult(code), captured)
	}

	return withCaptured(NewErrorResult(types.ExitFailure, err), captured)
}
