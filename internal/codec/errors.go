// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCodecInvocation is the sentinel error wrapped by CodecInvocationError.
var ErrCodecInvocation = errors.New("codec invocation failed")

// CodecInvocationError is returned when the compressor is unavailable or
// exits abnormally. Stderr carries whatever the program printed.
type CodecInvocationError struct {
	Algorithm Algorithm
	Program   string
	Stderr    string
	Err       error
}

// Error implements the error interface.
func (e *CodecInvocationError) Error() string {
	var msg strings.Builder
	fmt.Fprintf(&msg, "%s compression via %s failed", e.Algorithm, e.Program)
	if e.Err != nil {
		msg.WriteString(": ")
		msg.WriteString(e.Err.Error())
	}
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg.WriteString(": ")
		msg.WriteString(stderr)
	}
	return msg.String()
}

// Unwrap returns both the sentinel and the underlying cause.
func (e *CodecInvocationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCodecInvocation}
	}
	return []error{ErrCodecInvocation, e.Err}
}
