// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
)

// guideHint is appended to non-verbose output of errors that link a guide.
const guideHint = "Run with --verbose for a troubleshooting guide."

type (
	// ActionableError is a user-facing failure: the operation that failed,
	// the path or program involved, and what the user can do about it.
	//
	//	err := issue.NewErrorContext().
	//		WithOperation("read manifest").
	//		WithResource("./files.cue").
	//		WithSuggestion("List one path per line or use paths: [...]").
	//		WithIssue(issue.ManifestInvalidId).
	//		Wrap(originalErr).
	//		Build()
	ActionableError struct {
		// Operation is a verb phrase such as "create archive".
		Operation string
		// Resource is the file, path or program involved (optional).
		Resource string
		// Suggestions are printed as bullets below the message.
		Suggestions []string
		// Cause is the underlying error.
		Cause error
		// Issue links a troubleshooting guide; zero means none.
		Issue Id
	}

	// ErrorContext accumulates context for an ActionableError while an
	// operation runs:
	//
	//	ctx := issue.NewErrorContext().
	//		WithOperation("write archive").
	//		WithResource("out.sh")
	//	// ...
	//	return ctx.WithIssue(issue.ArchiveWriteFailedId).Wrap(err).BuildError()
	ErrorContext struct {
		operation   string
		resource    string
		suggestions []string
		cause       error
		issue       Id
	}
)

// NewErrorContext creates a new ErrorContext builder.
func NewErrorContext() *ErrorContext {
	return &ErrorContext{}
}

// Error returns "failed to <operation>[: <resource>][: <cause>]".
func (e *ActionableError) Error() string {
	parts := []string{"failed to " + e.Operation}
	if e.Resource != "" {
		parts = append(parts, e.Resource)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

// Unwrap returns the underlying cause error for use with errors.Is/As.
func (e *ActionableError) Unwrap() error {
	return e.Cause
}

// Format renders the error for the terminal:
//
//	failed to <operation>: <resource>: <cause>
//
//	  • <suggestion>
//
// Verbose output lists every error in the cause chain instead of the guide
// hint, since verbose runs render the guide itself.
func (e *ActionableError) Format(verbose bool) string {
	var msg strings.Builder
	msg.WriteString(e.Error())

	if len(e.Suggestions) > 0 {
		msg.WriteString("\n")
		for _, suggestion := range e.Suggestions {
			msg.WriteString("\n  • ")
			msg.WriteString(suggestion)
		}
	}

	switch {
	case verbose && e.Cause != nil:
		msg.WriteString("\n\nError chain:")
		depth := 1
		for err := e.Cause; err != nil; err = errors.Unwrap(err) {
			fmt.Fprintf(&msg, "\n  %d. %s", depth, err.Error())
			depth++
		}
	case !verbose && e.Guide() != nil:
		msg.WriteString("\n\n")
		msg.WriteString(guideHint)
	}

	return msg.String()
}

// HasSuggestions returns true if the error has any suggestions.
func (e *ActionableError) HasSuggestions() bool {
	return len(e.Suggestions) > 0
}

// Guide returns the troubleshooting guide linked to the error, or nil.
func (e *ActionableError) Guide() *Issue {
	if e.Issue == 0 {
		return nil
	}
	return Get(e.Issue)
}

// WithOperation sets the operation being performed.
func (c *ErrorContext) WithOperation(op string) *ErrorContext {
	c.operation = op
	return c
}

// WithResource sets the path or program involved.
func (c *ErrorContext) WithResource(res string) *ErrorContext {
	c.resource = res
	return c
}

// WithSuggestion adds a suggestion. Later calls append.
func (c *ErrorContext) WithSuggestion(sug string) *ErrorContext {
	c.suggestions = append(c.suggestions, sug)
	return c
}

// WithIssue links a troubleshooting guide.
func (c *ErrorContext) WithIssue(id Id) *ErrorContext {
	c.issue = id
	return c
}

// Wrap records err as the cause.
func (c *ErrorContext) Wrap(err error) *ErrorContext {
	c.cause = err
	return c
}

// Build creates the ActionableError, or nil when no operation was set.
func (c *ErrorContext) Build() *ActionableError {
	if c.operation == "" {
		return nil
	}
	return &ActionableError{
		Operation:   c.operation,
		Resource:    c.resource,
		Suggestions: c.suggestions,
		Cause:       c.cause,
		Issue:       c.issue,
	}
}

// BuildError is Build for return statements. It returns an untyped nil
// when no operation was set.
func (c *ErrorContext) BuildError() error {
	if ae := c.Build(); ae != nil {
		return ae
	}
	return nil
}
