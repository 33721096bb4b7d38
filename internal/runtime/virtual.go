// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"shzip-cli/internal/uroot"
	"shzip-cli/pkg/types"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRuntime runs archives with the mvdan/sh interpreter.
type VirtualRuntime struct {
	// EnableUrootUtils serves registered utilities in-process instead of
	// executing host binaries.
	EnableUrootUtils bool
	// Utilities is the registry consulted when EnableUrootUtils is set.
	// Nil means uroot.DefaultRegistry.
	Utilities *uroot.Registry
}

// NewVirtualRuntime creates a new virtual runtime.
func NewVirtualRuntime(enableUroot bool) *VirtualRuntime {
	return &VirtualRuntime{EnableUrootUtils: enableUroot}
}

// Name returns the runtime name.
func (r *VirtualRuntime) Name() string {
	return string(RuntimeTypeVirtual)
}

// Available returns true: the interpreter is built in.
func (r *VirtualRuntime) Available() bool {
	return true
}

// Validate checks the archive parses as POSIX shell.
func (r *VirtualRuntime) Validate(ctx *ExecutionContext) error {
	_, err := r.parse(ctx)
	return err
}

// Execute runs the archive, streaming output to ctx's writers.
func (r *VirtualRuntime) Execute(ctx *ExecutionContext) *Result {
	return r.run(ctx, newStreamingOutput(ctx.Stdout, ctx.Stderr), nil)
}

// ExecuteCapture runs the archive and captures its output.
func (r *VirtualRuntime) ExecuteCapture(ctx *ExecutionContext) *Result {
	out, captured := newCapturingOutput()
	return r.run(ctx, out, captured)
}

func (r *VirtualRuntime) parse(ctx *ExecutionContext) (*syntax.File, error) {
	if len(ctx.Script) == 0 {
		return nil, errors.New("archive has no content to execute")
	}
	name := ctx.ScriptName
	if name == "" {
		name = "archive"
	}
	prog, err := syntax.NewParser(syntax.Variant(syntax.LangPOSIX)).Parse(bytes.NewReader(ctx.Script), name)
	if err != nil {
		return nil, fmt.Errorf("archive syntax error: %w", err)
	}
	return prog, nil
}

func (r *VirtualRuntime) run(ctx *ExecutionContext, out *executeOutput, captured *capturedOutput) *Result {
	prog, err := r.parse(ctx)
	if err != nil {
		return withCaptured(NewErrorResult(types.ExitFailure, err), captured)
	}

	workDir := ctx.WorkDir
	if workDir == "" {
		if workDir, err = os.Getwd(); err != nil {
			return withCaptured(NewErrorResult(types.ExitFailure, err), captured)
		}
	}

	runner, err := interp.New(
		interp.Dir(workDir),
		interp.Env(expand.ListEnviron(buildEnv(ctx)...)),
		interp.StdIO(ctx.Stdin, out.stdout, out.stderr),
		interp.ExecHandlers(r.execHandler),
		interp.CallHandler(r.callHandler),
	)
	if err != nil {
		return withCaptured(NewErrorResult(types.ExitFailure, fmt.Errorf("failed to create interpreter: %w", err)), captured)
	}

	err = runner.Run(ctx.context(), prog)
	if err == nil {
		return withCaptured(NewSuccessResult(), captured)
	}
	var status interp.ExitStatus
	if errors.As(err, &status) {
		return withCaptured(NewExitCodeResult(types.ExitCode(status)), captured)
	}
	return withCaptured(NewErrorResult(types.ExitFailure, fmt.Errorf("archive execution failed: %w", err)), captured)
}

func (r *VirtualRuntime) utilities() *uroot.Registry {
	if r.Utilities != nil {
		return r.Utilities
	}
	return uroot.DefaultRegistry
}

// callHandler answers "command -v NAME" for in-process utilities, which
// the interpreter would otherwise look up on the host PATH only. The call
// is rewritten to an echo of the names so it succeeds with the usual output.
func (r *VirtualRuntime) callHandler(_ context.Context, args []string) ([]string, error) {
	if !r.EnableUrootUtils || len(args) < 3 || args[0] != "command" || args[1] != "-v" {
		return args, nil
	}
	if !r.utilities().Has(args[2:]...) {
		return args, nil
	}
	return append([]string{"echo"}, args[2:]...), nil
}

// execHandler serves registered utilities before falling back to host
// binaries.
func (r *VirtualRuntime) execHandler(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
	return func(ctx context.Context, args []string) error {
		if r.EnableUrootUtils {
			if handled, err := r.tryUrootBuiltin(ctx, args); handled {
				return err
			}
		}
		return next(ctx, args)
	}
}

// tryUrootBuiltin runs args with a registered utility.
//
//   - (false, nil): not registered; the caller falls back to the host
//   - (true, nil): ran successfully
//   - (true, ExitStatus(1)): ran and failed; the message went to stderr
//
// A failing utility never falls back to the host binary.
func (r *VirtualRuntime) tryUrootBuiltin(ctx context.Context, args []string) (bool, error) {
	if len(args) == 0 {
		return false, nil
	}
	cmd, found := r.utilities().Lookup(args[0])
	if !found {
		return false, nil
	}

	if err := cmd.Run(ctx, args); err != nil {
		fmt.Fprintln(interp.HandlerCtx(ctx).Stderr, err)
		return true, interp.ExitStatus(types.ExitFailure)
	}
	return true, nil
}
