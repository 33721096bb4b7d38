// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"fmt"
	"strings"

	"shzip-cli/internal/codec"
)

var (
	// ErrInputResolution is the sentinel error wrapped by InputResolutionError.
	ErrInputResolution = errors.New("input resolution failed")
	// ErrUnsupportedType is returned for paths that are not regular files,
	// directories or symlinks (devices, FIFOs, sockets).
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrEmptySelection is the sentinel error wrapped by EmptySelectionError.
	ErrEmptySelection = errors.New("no paths selected")
	// ErrOutputWrite is the sentinel error wrapped by OutputWriteError.
	ErrOutputWrite = errors.New("output write failed")
	// ErrTokenCollision is the sentinel error wrapped by TokenCollisionError.
	ErrTokenCollision = errors.New("termination token collides with payload")
	// ErrInvalidOptions is returned when generation options are inconsistent.
	ErrInvalidOptions = errors.New("invalid archive options")

	// ErrCodecInvocation is re-exported from the codec package so callers
	// can match every generation failure against this package.
	ErrCodecInvocation = codec.ErrCodecInvocation
)

type (
	// CodecInvocationError is returned when an external compressor is
	// unavailable or exits abnormally.
	CodecInvocationError = codec.CodecInvocationError

	// InputResolutionError is returned when an input path cannot be
	// inspected, read or represented in the archive.
	InputResolutionError struct {
		Path string
		Err  error
	}

	// EmptySelectionError is returned when the requested paths resolve to
	// nothing at all.
	EmptySelectionError struct {
		Requested []string
	}

	// OutputWriteError is returned when the archive cannot be written.
	// Path is empty when writing to a stream.
	OutputWriteError struct {
		Path string
		Err  error
	}

	// TokenCollisionError is returned when no termination token absent from
	// a payload could be produced for the file at Path.
	TokenCollisionError struct {
		Path  string
		Token string
	}
)

// Error implements the error interface.
func (e *InputResolutionError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrInputResolution and the underlying cause.
func (e *InputResolutionError) Unwrap() []error {
	return []error{ErrInputResolution, e.Err}
}

// Error implements the error interface.
func (e *EmptySelectionError) Error() string {
	if len(e.Requested) == 0 {
		return "no input paths given"
	}
	return fmt.Sprintf("input paths resolved to nothing: %s", strings.Join(e.Requested, ", "))
}

// Unwrap returns ErrEmptySelection for errors.Is() compatibility.
func (e *EmptySelectionError) Unwrap() error { return ErrEmptySelection }

// Error implements the error interface.
func (e *OutputWriteError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("write archive: %v", e.Err)
	}
	return fmt.Sprintf("write archive %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrOutputWrite and the underlying cause.
func (e *OutputWriteError) Unwrap() []error {
	return []error{ErrOutputWrite, e.Err}
}

// Error implements the error interface.
func (e *TokenCollisionError) Error() string {
	return fmt.Sprintf("payload of %s contains its termination token %s", e.Path, e.Token)
}

// Unwrap returns ErrTokenCollision for errors.Is() compatibility.
func (e *TokenCollisionError) Unwrap() error { return ErrTokenCollision }
