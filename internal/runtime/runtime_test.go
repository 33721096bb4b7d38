// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"os"
	"slices"
	"strings"
	"testing"

	"shzip-cli/pkg/types"
)

type unavailableRuntime struct{}

func (unavailableRuntime) Name() string { return "unavailable" }
func (unavailableRuntime) Execute(*ExecutionContext) *Result { return NewSuccessResult() }
func (unavailableRuntime) Available() bool { return false }
func (unavailableRuntime) Validate(*ExecutionContext) error { return nil }

func TestRegistry_Get(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	for _, typ := range []RuntimeType{RuntimeTypeVirtual, RuntimeTypeNative} {
		rt, err := r.Get(typ)
		if err != nil {
			t.Fatalf("Get(%s) returned error: %v", typ, err)
		}
		if rt.Name() != string(typ) {
			t.Errorf("Get(%s).Name() = %q", typ, rt.Name())
		}
	}
	if _, err := r.Get("container"); err == nil {
		t.Error("Get(container) should fail")
	}
}

func TestRegistry_Available_IncludesVirtual(t *testing.T) {
	t.Parallel()

	if !slices.Contains(NewRegistry().Available(), RuntimeTypeVirtual) {
		t.Error("virtual runtime should always be available")
	}
}

func TestRegistry_Execute_Unavailable(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register("unavailable", unavailableRuntime{})

	result := r.Execute("unavailable", NewExecutionContext(t.Context(), []byte("true\n")))
	if !errors.Is(result.Error, ErrRuntimeNotAvailable) {
		t.Errorf("Execute() error = %v, want ErrRuntimeNotAvailable", result.Error)
	}
	if result.ExitCode != types.ExitFailure {
		t.Errorf("ExitCode = %d, want %d", result.ExitCode, types.ExitFailure)
	}
}

func TestRegistry_Execute_ValidationFailure(t *testing.T) {
	t.Parallel()

	result := NewRegistry().Execute(RuntimeTypeVirtual, NewExecutionContext(t.Context(), nil))
	if result.Error == nil {
		t.Fatal("empty archive should fail validation")
	}
	if result.Success() {
		t.Error("Success() = true for failed validation")
	}
}

func TestResult_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *Result
		want   bool
	}{
		{"success", NewSuccessResult(), true},
		{"non-zero exit", NewExitCodeResult(types.ExitCommandNotFound), false},
		{"error", NewErrorResult(types.ExitFailure, errors.New("boom")), false},
	}
	for _, tt := range tests {
		if got := tt.result.Success(); got != tt.want {
			t.Errorf("%s: Success() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEnvToSlice(t *testing.T) {
	t.Parallel()

	got := EnvToSlice(map[string]string{"B": "2", "A": "1", "C": "x=y"})
	want := []string{"A=1", "B=2", "C=x=y"}
	if !slices.Equal(got, want) {
		t.Errorf("EnvToSlice() = %v, want %v", got, want)
	}
}

func TestBuildEnv_TargetOverridesHost(t *testing.T) {
	t.Setenv(TargetEnvVar, "/from/host")

	ctx := &ExecutionContext{Target: "/from/flag", ExtraEnv: map[string]string{"EXTRA": "1"}}
	env := buildEnv(ctx)

	var targets []string
	for _, kv := range env {
		if strings.HasPrefix(kv, TargetEnvVar+"=") {
			targets = append(targets, kv)
		}
	}
	if !slices.Equal(targets, []string{"TARGET=/from/flag"}) {
		t.Errorf("TARGET entries = %v, want exactly the override", targets)
	}
	if !slices.Contains(env, "EXTRA=1") {
		t.Error("extra env missing")
	}
}

func TestBuildEnv_KeepsHostTargetWithoutOverride(t *testing.T) {
	t.Setenv(TargetEnvVar, "/from/host")

	env := buildEnv(&ExecutionContext{})
	if !slices.Contains(env, "TARGET=/from/host") {
		t.Error("host TARGET should pass through when no override is set")
	}
	if len(env) != len(os.Environ()) {
		t.Errorf("len(env) = %d, want host size %d", len(env), len(os.Environ()))
	}
}
