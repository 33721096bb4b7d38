// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"maps"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// MustSetenv sets the environment variable key to value.
// It returns a cleanup function that restores the original value (or unsets it).
// The test fails immediately if the operation fails.
func MustSetenv(t testing.TB, key, value string) func() {
	t.Helper()
	originalValue, hadValue := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	return func() {
		if hadValue {
			if err := os.Setenv(key, originalValue); err != nil {
				t.Errorf("failed to restore env %s: %v", key, err)
			}
		} else {
			if err := os.Unsetenv(key); err != nil {
				t.Errorf("failed to unset env %s: %v", key, err)
			}
		}
	}
}

// WriteFile writes data to root/rel, creating parent directories.
// The test fails immediately if the operation fails.
func WriteFile(t testing.TB, root, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", rel, err)
	}
}

// WriteTree writes every file of tree below root. Keys are slash-separated
// relative paths; files are written in name order.
func WriteTree(t testing.TB, root string, tree map[string]string) {
	t.Helper()
	for _, rel := range slices.Sorted(maps.Keys(tree)) {
		WriteFile(t, root, rel, []byte(tree[rel]))
	}
}

// MustSymlink creates root/rel as a symlink to target.
// The test fails immediately if the operation fails.
func MustSymlink(t testing.TB, root, rel, target string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create directory for %s: %v", rel, err)
	}
	if err := os.Symlink(target, path); err != nil {
		t.Fatalf("failed to create symlink %s: %v", rel, err)
	}
}
