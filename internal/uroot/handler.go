// SPDX-License-Identifier: MPL-2.0

package uroot

import (
	"context"
	"io"

	"mvdan.cc/sh/v3/interp"
)

type (
	// HandlerContext is the execution environment of one command.
	HandlerContext struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
		// Dir is the working directory relative paths resolve against.
		Dir string
		// LookupEnv reads the shell's environment.
		LookupEnv func(string) (string, bool)
	}

	handlerContextKey struct{}
)

// ExtractHandlerContext converts the interpreter's handler context.
func ExtractHandlerContext(ctx context.Context) *HandlerContext {
	hc := interp.HandlerCtx(ctx)
	return &HandlerContext{
		Stdin:  hc.Stdin,
		Stdout: hc.Stdout,
		Stderr: hc.Stderr,
		Dir:    hc.Dir,
		LookupEnv: func(name string) (string, bool) {
			v := hc.Env.Get(name)
			return v.Str, v.Set
		},
	}
}

// WithHandlerContext stores hc in ctx, for running commands outside the
// interpreter.
func WithHandlerContext(ctx context.Context, hc *HandlerContext) context.Context {
	return context.WithValue(ctx, handlerContextKey{}, hc)
}

// GetHandlerContext returns the context stored by WithHandlerContext, or
// the interpreter's otherwise.
func GetHandlerContext(ctx context.Context) *HandlerContext {
	if hc, ok := ctx.Value(handlerContextKey{}).(*HandlerContext); ok {
		return hc
	}
	return ExtractHandlerContext(ctx)
}
