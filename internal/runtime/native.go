// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"shzip-cli/internal/issue"
	"shzip-cli/pkg/platform"
	"shzip-cli/pkg/types"
)

// NativeRuntime runs archives with a host POSIX shell.
type NativeRuntime struct {
	// Shell overrides the interpreter; empty means "sh" from PATH.
	Shell string
	// Sandbox, when set, routes the shell through the sandbox's host spawn
	// helper (flatpak-spawn --host, snap run --shell).
	Sandbox platform.SandboxType
}

// NewNativeRuntime creates a native runtime for the current process's
// sandbox, if any.
func NewNativeRuntime() *NativeRuntime {
	return &NativeRuntime{Sandbox: platform.DetectSandbox()}
}

// Name returns the runtime name.
func (r *NativeRuntime) Name() string {
	return string(RuntimeTypeNative)
}

// Available reports whether a shell can be found.
func (r *NativeRuntime) Available() bool {
	if spawn := platform.SpawnCommandFor(r.Sandbox); spawn != "" {
		_, err := exec.LookPath(spawn)
		return err == nil
	}
	_, err := r.getShell()
	return err == nil
}

// Validate checks there is something to run.
func (r *NativeRuntime) Validate(ctx *ExecutionContext) error {
	if len(ctx.Script) == 0 {
		return errors.New("archive has no content to execute")
	}
	return nil
}

// Execute runs the archive, streaming output to ctx's writers.
func (r *NativeRuntime) Execute(ctx *ExecutionContext) *Result {
	return r.run(ctx, newStreamingOutput(ctx.Stdout, ctx.Stderr), nil)
}

// ExecuteCapture runs the archive and captures its output.
func (r *NativeRuntime) ExecuteCapture(ctx *ExecutionContext) *Result {
	out, captured := newCapturingOutput()
	return r.run(ctx, out, captured)
}

func (r *NativeRuntime) run(ctx *ExecutionContext, out *executeOutput, captured *capturedOutput) *Result {
	if platform.SpawnCommandFor(r.Sandbox) != "" {
		cmd := r.hostCommand(ctx)
		cmd.Stdout = out.stdout
		cmd.Stderr = out.stderr
		return extractExitCode(cmd.Run(), captured)
	}

	shell, err := r.getShell()
	if err != nil {
		return withCaptured(NewErrorResult(types.ExitFailure, err), captured)
	}

	// The script goes through a file rather than -c so archive size is not
	// bounded by the argument length limit, and stdin stays the caller's.
	tmp, err := os.CreateTemp("", "shzip-archive-*.sh")
	if err != nil {
		return withCaptured(NewErrorResult(types.ExitFailure, err), captured)
	}
	defer func() { _ = os.Remove(tmp.Name()) }() // Cleanup temp file; error non-critical
	if _, err := tmp.Write(ctx.Script); err != nil {
		_ = tmp.Close()
		return withCaptured(NewErrorResult(types.ExitFailure, fmt.Errorf("stage archive: %w", err)), captured)
	}
	if err := tmp.Close(); err != nil {
		return withCaptured(NewErrorResult(types.ExitFailure, fmt.Errorf("stage archive: %w", err)), captured)
	}

	cmd := exec.CommandContext(ctx.context(), shell, tmp.Name())
	cmd.Dir = ctx.WorkDir
	cmd.Env = buildEnv(ctx)
	cmd.Stdin = ctx.Stdin
	cmd.Stdout = out.stdout
	cmd.Stderr = out.stderr

	return extractExitCode(cmd.Run(), captured)
}

// hostCommand builds the spawn helper invocation used inside a sandbox.
// The host cannot see the sandbox's temp dir, so the script is fed to
// "sh -s" on stdin. flatpak-spawn does not forward the environment or the
// working directory, so both are passed as flags.
func (r *NativeRuntime) hostCommand(ctx *ExecutionContext) *exec.Cmd {
	shell := r.Shell
	if shell == "" {
		shell = "sh"
	}

	args := platform.SpawnArgsFor(r.Sandbox)
	if r.Sandbox == platform.SandboxFlatpak {
		for _, kv := range EnvToSlice(envOverlay(ctx)) {
			args = append(args, "--env="+kv)
		}
		if ctx.WorkDir != "" {
			args = append(args, "--directory="+ctx.WorkDir)
		}
	}
	args = append(args, shell, "-s")

	cmd := exec.CommandContext(ctx.context(), platform.SpawnCommandFor(r.Sandbox), args...)
	cmd.Dir = ctx.WorkDir
	cmd.Env = buildEnv(ctx)
	cmd.Stdin = bytes.NewReader(ctx.Script)
	return cmd
}

func (r *NativeRuntime) getShell() (string, error) {
	candidate := r.Shell
	if candidate == "" {
		candidate = "sh"
	}
	sh, err := exec.LookPath(candidate)
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("find shell").
			WithResource("shells attempted: "+candidate).
			WithSuggestion("Install a POSIX shell such as dash or busybox").
			WithSuggestion("Extract with the built-in interpreter by dropping --native").
			WithIssue(issue.ShellNotFoundId).
			Wrap(fmt.Errorf("no shell found: %w", err)).
			BuildError()
	}
	return sh, nil
}
