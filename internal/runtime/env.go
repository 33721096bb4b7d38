// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os"
	"sort"
	"strings"
)

// TargetEnvVar overrides an archive's extraction root.
const TargetEnvVar = "TARGET"

// buildEnv returns the host environment overlaid with ctx.ExtraEnv and,
// when set, ctx.Target. Later entries win, so the overlay is appended in a
// stable order after the host entries it replaces are dropped.
func buildEnv(ctx *ExecutionContext) []string {
	overlay := envOverlay(ctx)
	env := make([]string, 0, len(os.Environ())+len(overlay))
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if _, replaced := overlay[name]; !replaced {
			env = append(env, kv)
		}
	}
	return append(env, EnvToSlice(overlay)...)
}

// envOverlay is ctx.ExtraEnv plus TARGET when ctx.Target is set.
func envOverlay(ctx *ExecutionContext) map[string]string {
	overlay := make(map[string]string, len(ctx.ExtraEnv)+1)
	for k, v := range ctx.ExtraEnv {
		overlay[k] = v
	}
	if ctx.Target != "" {
		overlay[TargetEnvVar] = ctx.Target
	}
	return overlay
}

// EnvToSlice converts a map to KEY=VALUE entries sorted by key.
func EnvToSlice(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]string, 0, len(env))
	for _, k := range keys {
		out = append(out, k+"="+env[k])
	}
	return out
}
