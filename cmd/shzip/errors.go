// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"shzip-cli/internal/archive"
	"shzip-cli/internal/codec"
	"shzip-cli/internal/config"
	"shzip-cli/internal/issue"
	"shzip-cli/internal/manifest"
	"shzip-cli/internal/runtime"
	"shzip-cli/pkg/types"
)

// classifyCreateError maps generation failures to an ActionableError linked
// to the issue guide that covers them. Errors that already carry context
// are returned unchanged.
func classifyCreateError(err error) *issue.ActionableError {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae
	}

	var (
		manifestErr *manifest.ManifestError
		inputErr    *archive.InputResolutionError
		codecErr    *codec.CodecInvocationError
		tokenErr    *archive.TokenCollisionError
		outputErr   *archive.OutputWriteError
	)
	ctx := issue.NewErrorContext()

	switch {
	case errors.As(err, &manifestErr):
		ctx.WithOperation("read manifest").
			WithResource(manifestErr.Path).
			WithIssue(issue.ManifestInvalidId).
			WithSuggestion("List one path per line, or use paths: [...] in a .cue manifest")

	case errors.As(err, &inputErr):
		ctx.WithOperation("resolve input").WithResource(inputErr.Path)
		switch {
		case errors.Is(err, archive.ErrUnsupportedType):
			ctx.WithIssue(issue.UnsupportedFileTypeId).
				WithSuggestion("Remove devices, named pipes and sockets from the inputs")
		case errors.Is(err, os.ErrPermission):
			ctx.WithIssue(issue.PermissionDeniedId)
		default:
			ctx.WithIssue(issue.FileNotFoundId).
				WithSuggestion("Check that the path exists relative to the current directory")
		}

	case errors.Is(err, archive.ErrEmptySelection):
		ctx.WithOperation("create archive").
			WithIssue(issue.EmptySelectionId).
			WithSuggestion("Pass at least one file, directory or symlink")

	case errors.As(err, &codecErr):
		ctx.WithOperation("compress payload").WithResource(codecErr.Program)
		if errors.Is(err, exec.ErrNotFound) {
			ctx.WithIssue(issue.CodecNotFoundId).
				WithSuggestion(fmt.Sprintf("Install %s, or drop the compression flag", codecErr.Program))
		}

	case errors.As(err, &tokenErr):
		ctx.WithOperation("frame payload").
			WithResource(tokenErr.Path).
			WithIssue(issue.TokenCollisionId).
			WithSuggestion("Generate without --reproducible")

	case errors.As(err, &outputErr):
		ctx.WithOperation("write archive").WithResource(outputErr.Path)
		if errors.Is(err, os.ErrPermission) {
			ctx.WithIssue(issue.PermissionDeniedId)
		} else {
			ctx.WithIssue(issue.ArchiveWriteFailedId)
		}

	case errors.Is(err, archive.ErrInvalidOptions), errors.Is(err, codec.ErrUnsupportedBackend):
		ctx.WithOperation("configure archive").
			WithSuggestion("The builtin codec backend only supports gzip (-z)")

	default:
		ctx.WithOperation("create archive")
	}

	return ctx.Wrap(err).Build()
}

// classifyExtractError maps a failed extraction to an ActionableError. A
// script exit status of 127 comes from the decoder guard.
func classifyExtractError(archivePath string, code types.ExitCode, err error) *issue.ActionableError {
	ctx := issue.NewErrorContext().
		WithOperation("extract archive").
		WithResource(archivePath)

	switch {
	case err == nil && code.IsCommandNotFound():
		ctx.WithIssue(issue.DecoderMissingId).
			WithSuggestion("Install the decompressor named above")
		err = fmt.Errorf("archive exited with status %d", code)
	case err == nil:
		ctx.WithIssue(issue.ExtractionFailedId)
		err = fmt.Errorf("archive exited with status %d", code)
	case errors.Is(err, os.ErrPermission):
		ctx.WithIssue(issue.PermissionDeniedId)
	case errors.Is(err, runtime.ErrRuntimeNotAvailable):
		ctx.WithIssue(issue.ShellNotFoundId).
			WithSuggestion("Drop --native to extract with the built-in interpreter")
	default:
		var ae *issue.ActionableError
		if errors.As(err, &ae) && ae.Operation == "find shell" {
			ctx.WithIssue(issue.ShellNotFoundId)
		} else {
			ctx.WithIssue(issue.ExtractionFailedId)
		}
	}

	return ctx.Wrap(err).Build()
}

// configIssue links configuration failures to their guide. Errors from
// the config package already carry one.
func configIssue(err error) error {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return err
	}
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err).
		BuildError()
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// renderGuide writes the issue guide linked to err, if any. Rendering
// failures are ignored; the error itself is still reported.
func renderGuide(w io.Writer, err error, scheme config.ColorScheme) {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return
	}
	guide := ae.Guide()
	if guide == nil {
		return
	}
	rendered, renderErr := guide.Render(scheme.String())
	if renderErr != nil {
		return
	}
	_, _ = fmt.Fprint(w, rendered)
}
