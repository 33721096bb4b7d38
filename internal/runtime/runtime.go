// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"shzip-cli/pkg/types"
)

// Runtime type constants for the supported execution environments.
const (
	RuntimeTypeVirtual RuntimeType = "virtual"
	RuntimeTypeNative  RuntimeType = "native"
)

// ErrRuntimeNotAvailable is returned when the selected runtime cannot run
// on this system.
var ErrRuntimeNotAvailable = errors.New("runtime not available")

type (
	// ExecutionContext contains everything needed to run one archive.
	ExecutionContext struct {
		// Context is the Go context for cancellation.
		Context context.Context
		// Script is the archive content.
		Script []byte
		// ScriptName labels the script in parse errors.
		ScriptName string
		// Target, when non-empty, is exported as TARGET to override the
		// archive's baked-in extraction root.
		Target string
		// WorkDir is the working directory; empty means the current one.
		WorkDir string
		// ExtraEnv holds additional environment variables.
		ExtraEnv map[string]string
		// Stdout is where to write standard output.
		Stdout io.Writer
		// Stderr is where to write standard error.
		Stderr io.Writer
		// Stdin is where to read standard input.
		Stdin io.Reader
	}

	// Result contains the result of an execution.
	Result struct {
		// ExitCode is the script's exit status.
		ExitCode types.ExitCode
		// Error is set for failures outside the script itself.
		Error error
		// Output contains captured stdout (if captured).
		Output string
		// ErrOutput contains captured stderr (if captured).
		ErrOutput string
	}

	// Runtime runs archives.
	Runtime interface {
		// Name returns the runtime name.
		Name() string
		// Execute runs the archive.
		Execute(ctx *ExecutionContext) *Result
		// Available reports whether this runtime works on the current system.
		Available() bool
		// Validate checks the archive can be run by this runtime.
		Validate(ctx *ExecutionContext) error
	}

	// CapturingRuntime is implemented by runtimes that can capture output.
	CapturingRuntime interface {
		ExecuteCapture(ctx *ExecutionContext) *Result
	}

	// RuntimeType identifies a runtime.
	//
	//nolint:revive // RuntimeType is more descriptive than Type for external callers
	RuntimeType string

	// Registry holds the available runtimes.
	Registry struct {
		runtimes map[RuntimeType]Runtime
	}
)

// NewExecutionContext returns a context for script wired to the process's
// standard streams.
func NewExecutionContext(ctx context.Context, script []byte) *ExecutionContext {
	return &ExecutionContext{
		Context:    ctx,
		Script:     script,
		ScriptName: "archive",
		ExtraEnv:   make(map[string]string),
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		Stdin:      os.Stdin,
	}
}

// Success returns true if the archive ran to completion with status 0.
func (r *Result) Success() bool {
	return r.ExitCode.IsSuccess() && r.Error == nil
}

// NewRegistry creates a registry holding the virtual and native runtimes.
func NewRegistry() *Registry {
	r := &Registry{runtimes: make(map[RuntimeType]Runtime)}
	r.Register(RuntimeTypeVirtual, NewVirtualRuntime(true))
	r.Register(RuntimeTypeNative, NewNativeRuntime())
	return r
}

// Register adds or replaces a runtime.
func (r *Registry) Register(typ RuntimeType, rt Runtime) {
	r.runtimes[typ] = rt
}

// Get returns a runtime by type.
func (r *Registry) Get(typ RuntimeType) (Runtime, error) {
	rt, ok := r.runtimes[typ]
	if !ok {
		return nil, fmt.Errorf("runtime '%s' not registered", typ)
	}
	return rt, nil
}

// Available returns the available runtimes in sorted order.
func (r *Registry) Available() []RuntimeType {
	var available []RuntimeType
	for typ, rt := range r.runtimes {
		if rt.Available() {
			available = append(available, typ)
		}
	}
	sort.Slice(available, func(i, j int) bool { return available[i] < available[j] })
	return available
}

// Execute validates and runs ctx with the runtime of the given type.
func (r *Registry) Execute(typ RuntimeType, ctx *ExecutionContext) *Result {
	rt, err := r.Get(typ)
	if err != nil {
		return NewErrorResult(types.ExitFailure, err)
	}
	if !rt.Available() {
		return NewErrorResult(types.ExitFailure, fmt.Errorf("%w: %s", ErrRuntimeNotAvailable, rt.Name()))
	}
	if err := rt.Validate(ctx); err != nil {
		return NewErrorResult(types.ExitFailure, err)
	}
	return rt.Execute(ctx)
}

func (ctx *ExecutionContext) context() context.Context {
	if ctx.Context == nil {
		return context.Background()
	}
	return ctx.Context
}
