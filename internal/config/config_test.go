// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"shzip-cli/internal/issue"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Archive.Shell != "/bin/sh" {
		t.Errorf("expected default shell /bin/sh, got %q", cfg.Archive.Shell)
	}
	if cfg.Archive.Target != "." {
		t.Errorf("expected default target '.', got %q", cfg.Archive.Target)
	}
	if cfg.Archive.Compression != CompressionNone {
		t.Errorf("expected no compression by default, got %s", cfg.Archive.Compression)
	}
	if cfg.Archive.Jobs != 1 {
		t.Errorf("expected 1 job by default, got %d", cfg.Archive.Jobs)
	}
	if cfg.Archive.CodecBackend != CodecBackendExec {
		t.Errorf("expected exec codec backend, got %s", cfg.Archive.CodecBackend)
	}
	if cfg.Archive.Reproducible || cfg.Archive.Dereference || cfg.Archive.SkipCheck {
		t.Error("expected boolean archive flags to default to false")
	}
	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected auto color scheme, got %s", cfg.UI.ColorScheme)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config should be valid, got %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if runtime.GOOS == "linux" {
		xdg := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", xdg)

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() returned error: %v", err)
		}
		if want := filepath.Join(xdg, AppName); dir != want {
			t.Errorf("ConfigDir() = %q, want %q", dir, want)
		}
	}

	override := t.TempDir()
	SetConfigDirOverride(override)
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if dir != override {
		t.Errorf("ConfigDir() = %q, want override %q", dir, override)
	}

	path, err := ConfigFilePath()
	if err != nil {
		t.Fatalf("ConfigFilePath() returned error: %v", err)
	}
	if want := filepath.Join(override, "config.cue"); path != want {
		t.Errorf("ConfigFilePath() = %q, want %q", path, want)
	}
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, path, err := LoadWithPath(t.Context(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("LoadWithPath() returned error: %v", err)
	}
	if path != "" {
		t.Errorf("expected no resolved path, got %q", path)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, `
archive: {
	compression: "xz"
	jobs: 4
}
ui: verbose: true
`)

	cfg, path, err := LoadWithPath(t.Context(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("LoadWithPath() returned error: %v", err)
	}
	if path != cfgPath || cfg.Source != cfgPath {
		t.Errorf("resolved path = %q, Source = %q, want %q", path, cfg.Source, cfgPath)
	}
	if cfg.Archive.Compression != CompressionXz || cfg.Archive.Jobs != 4 || !cfg.UI.Verbose {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Archive.Shell != "/bin/sh" || cfg.Archive.Target != "." || cfg.Archive.CodecBackend != CodecBackendExec {
		t.Errorf("defaults lost for unset fields: %+v", cfg.Archive)
	}
}

func TestLoad_CurrentDirectoryFallback(t *testing.T) {
	work := t.TempDir()
	t.Chdir(work)
	writeConfig(t, work, `archive: target: "restore"`)

	cfg, path, err := LoadWithPath(t.Context(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("LoadWithPath() returned error: %v", err)
	}
	if path != "config.cue" {
		t.Errorf("resolved path = %q, want config.cue", path)
	}
	if cfg.Archive.Target != "restore" {
		t.Errorf("Target = %q, want restore", cfg.Archive.Target)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SHZIP_ARCHIVE_JOBS", "8")
	t.Setenv("SHZIP_ARCHIVE_REPRODUCIBLE", "true")

	cfg, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Archive.Jobs != 8 {
		t.Errorf("Jobs = %d, want 8", cfg.Archive.Jobs)
	}
	if !cfg.Archive.Reproducible {
		t.Error("Reproducible = false, want true")
	}
}

func TestLoad_InvalidEnvironmentValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SHZIP_ARCHIVE_COMPRESSION", "zstd")

	_, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidCompression) {
		t.Fatalf("expected ErrInvalidCompression, got %v", err)
	}
	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) || actionable.Operation != "validate configuration" {
		t.Errorf("expected validate configuration ActionableError, got %v", err)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Chdir(t.TempDir())

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{name: "jobs below bound", content: `archive: jobs: 0`, field: "jobs"},
		{name: "unknown compression", content: `archive: compression: "zstd"`, field: "compression"},
		{name: "wrong type", content: `ui: verbose: "yes"`, field: "verbose"},
		{name: "unknown field", content: `archive: level: 9`, field: "level"},
		{name: "empty shell", content: `archive: shell: ""`, field: "shell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			cfgPath := writeConfig(t, dir, tt.content)

			_, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("expected Load() to fail")
			}
			errStr := err.Error()
			if !strings.Contains(errStr, "load configuration") {
				t.Errorf("error should contain operation, got: %s", errStr)
			}
			if !strings.Contains(errStr, cfgPath) {
				t.Errorf("error should contain resource path, got: %s", errStr)
			}
			if !strings.Contains(errStr, tt.field) {
				t.Errorf("error should name %q, got: %s", tt.field, errStr)
			}
		})
	}
}

func TestLoad_BuiltinBackendRequiresGzip(t *testing.T) {
	t.Chdir(t.TempDir())

	dir := t.TempDir()
	writeConfig(t, dir, `archive: {compression: "bzip2", codec_backend: "builtin"}`)

	_, err := NewProvider().Load(t.Context(), LoadOptions{ConfigDirPath: dir})
	if !errors.Is(err, ErrInvalidArchiveConfig) {
		t.Fatalf("expected ErrInvalidArchiveConfig, got %v", err)
	}
}

func TestLoad_CustomPath(t *testing.T) {
	t.Chdir(t.TempDir())

	t.Run("valid", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.cue")
		if err := os.WriteFile(path, []byte(`archive: shell: "/bin/dash"`), 0o644); err != nil {
			t.Fatal(err)
		}

		cfg, resolved, err := LoadWithPath(t.Context(), LoadOptions{ConfigFilePath: path})
		if err != nil {
			t.Fatalf("LoadWithPath() returned error: %v", err)
		}
		if resolved != path || cfg.Archive.Shell != "/bin/dash" {
			t.Errorf("got shell %q from %q", cfg.Archive.Shell, resolved)
		}
	})

	t.Run("not found", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "missing.cue")

		_, err := NewProvider().Load(t.Context(), LoadOptions{ConfigFilePath: missing})
		var actionable *issue.ActionableError
		if !errors.As(err, &actionable) {
			t.Fatalf("expected ActionableError, got %v", err)
		}
		if actionable.Resource != missing || !actionable.HasSuggestions() {
			t.Errorf("unexpected error context: %+v", actionable)
		}
	})
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	canceled, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := NewProvider().Load(canceled, LoadOptions{}); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestSaveAndCreateDefault(t *testing.T) {
	Reset()
	t.Cleanup(Reset)
	t.Chdir(t.TempDir())

	configDir := filepath.Join(t.TempDir(), AppName)
	SetConfigDirOverride(configDir)

	created, err := CreateDefaultConfig()
	if err != nil || !created {
		t.Fatalf("CreateDefaultConfig() = %v, %v; want true, nil", created, err)
	}
	created, err = CreateDefaultConfig()
	if err != nil || created {
		t.Fatalf("second CreateDefaultConfig() = %v, %v; want false, nil", created, err)
	}

	custom := DefaultConfig()
	custom.Archive.Shell = "/usr/bin/env bash"
	custom.Archive.Target = "out dir"
	custom.Archive.Compression = CompressionGzip
	custom.Archive.CodecBackend = CodecBackendBuiltin
	custom.Archive.Reproducible = true
	custom.Archive.Dereference = true
	custom.Archive.SkipCheck = true
	custom.Archive.Jobs = 3
	custom.UI.Verbose = true
	custom.UI.ColorScheme = ColorSchemeDark

	if err := Save(custom); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	loaded, path, err := LoadWithPath(t.Context(), LoadOptions{})
	if err != nil {
		t.Fatalf("LoadWithPath() returned error: %v", err)
	}
	if path != filepath.Join(configDir, "config.cue") {
		t.Errorf("resolved path = %q", path)
	}
	if loaded.Source != path {
		t.Errorf("loaded.Source = %q, want %q", loaded.Source, path)
	}
	loaded.Source = ""
	if *loaded != *custom {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", loaded, custom)
	}
}

func TestGenerateCUE(t *testing.T) {
	t.Parallel()

	out := GenerateCUE(DefaultConfig())
	for _, want := range []string{
		`shell: "/bin/sh"`,
		`compression: "none"`,
		`jobs: 1`,
		`codec_backend: "exec"`,
		`color_scheme: "auto"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("GenerateCUE() missing %q:\n%s", want, out)
		}
	}
}
