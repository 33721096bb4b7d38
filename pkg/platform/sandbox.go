// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

const (
	// SandboxNone means the process runs directly on the host.
	SandboxNone SandboxType = ""
	// SandboxFlatpak is detected through /.flatpak-info.
	SandboxFlatpak SandboxType = "flatpak"
	// SandboxSnap is detected through the SNAP_NAME variable.
	SandboxSnap SandboxType = "snap"

	flatpakInfoPath = "/.flatpak-info"
)

// detectOnce caches detection for the life of the process.
// detectSandboxFrom must not panic: sync.OnceValue re-panics on every call.
var detectOnce = sync.OnceValue(func() SandboxType {
	return detectSandboxFrom(os.Getenv, statFile)
})

// SandboxType identifies an application sandbox.
type SandboxType string

// DetectSandbox returns the sandbox the current process runs in.
func DetectSandbox() SandboxType {
	return detectOnce()
}

// IsInSandbox reports whether DetectSandbox found a sandbox.
func IsInSandbox() bool {
	return DetectSandbox() != SandboxNone
}

// SpawnCommandFor returns the helper that escapes st to the host, or ""
// when no helper is needed.
func SpawnCommandFor(st SandboxType) string {
	switch st {
	case SandboxFlatpak:
		return "flatpak-spawn"
	case SandboxSnap:
		return "snap"
	default:
		return ""
	}
}

// SpawnArgsFor returns the arguments that precede the host command line.
func SpawnArgsFor(st SandboxType) []string {
	switch st {
	case SandboxFlatpak:
		return []string{"--host"}
	case SandboxSnap:
		return []string{"run", "--shell"}
	default:
		return nil
	}
}

// detectSandboxFrom takes its lookups as parameters so tests can fake them.
// Flatpak wins when both markers are present.
func detectSandboxFrom(getenv func(string) string, stat func(string) error) SandboxType {
	if err := stat(flatpakInfoPath); err == nil {
		return SandboxFlatpak
	}
	if getenv("SNAP_NAME") != "" {
		return SandboxSnap
	}
	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
