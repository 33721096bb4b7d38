// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// CompressionNone stores payloads as-is (base64 when not text-safe).
	CompressionNone Compression = "none"
	// CompressionGzip pipes payloads through gzip.
	CompressionGzip Compression = "gzip"
	// CompressionBzip2 pipes payloads through bzip2.
	CompressionBzip2 Compression = "bzip2"
	// CompressionXz pipes payloads through xz.
	CompressionXz Compression = "xz"

	// CodecBackendExec runs the host's compressor binaries.
	// Defined locally to avoid coupling config to internal/codec.
	CodecBackendExec CodecBackend = "exec"
	// CodecBackendBuiltin compresses in-process (gzip only).
	CodecBackendBuiltin CodecBackend = "builtin"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	defaultShell  = "/bin/sh"
	defaultTarget = "."
)

var (
	// ErrInvalidCompression is returned when a Compression value is not recognized.
	ErrInvalidCompression = errors.New("invalid compression")
	// ErrInvalidCodecBackend is returned when a CodecBackend value is not recognized.
	ErrInvalidCodecBackend = errors.New("invalid codec backend")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidArchiveConfig is the sentinel error wrapped by InvalidArchiveConfigError.
	ErrInvalidArchiveConfig = errors.New("invalid archive config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Compression names the codec applied to every payload.
	Compression string

	// InvalidCompressionError is returned when a Compression value is not recognized.
	InvalidCompressionError struct {
		Value Compression
	}

	// CodecBackend selects how compression runs at generation time.
	CodecBackend string

	// InvalidCodecBackendError is returned when a CodecBackend value is not recognized.
	InvalidCodecBackendError struct {
		Value CodecBackend
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidArchiveConfigError collects field-level errors of an ArchiveConfig.
	InvalidArchiveConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects field-level errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Archive holds the defaults for archive generation
		Archive ArchiveConfig `json:"archive" mapstructure:"archive"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Source is the file the values were read from; empty when only
		// defaults and environment overrides apply.
		Source string `json:"-" mapstructure:"-"`
	}

	// ArchiveConfig mirrors the generation flags of the root command.
	ArchiveConfig struct {
		// Shell is the interpreter written to the shebang line
		Shell string `json:"shell" mapstructure:"shell"`
		// Target is the extraction root baked into archives
		Target string `json:"target" mapstructure:"target"`

		Compression  Compression  `json:"compression" mapstructure:"compression"`
		Reproducible bool         `json:"reproducible" mapstructure:"reproducible"`
		Dereference  bool         `json:"dereference" mapstructure:"dereference"`
		SkipCheck    bool         `json:"skip_check" mapstructure:"skip_check"`
		Jobs         int          `json:"jobs" mapstructure:"jobs"`
		CodecBackend CodecBackend `json:"codec_backend" mapstructure:"codec_backend"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging and detailed error output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// ColorScheme selects the style used to render error guides
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// String returns the string representation of the Compression.
func (c Compression) String() string { return string(c) }

// IsValid returns whether the Compression is one of the defined codecs.
func (c Compression) IsValid() (bool, []error) {
	switch c {
	case CompressionNone, CompressionGzip, CompressionBzip2, CompressionXz:
		return true, nil
	default:
		return false, []error{&InvalidCompressionError{Value: c}}
	}
}

// Error implements the error interface for InvalidCompressionError.
func (e *InvalidCompressionError) Error() string {
	return fmt.Sprintf("invalid compression %q (valid: none, gzip, bzip2, xz)", e.Value)
}

// Unwrap returns ErrInvalidCompression for errors.Is() compatibility.
func (e *InvalidCompressionError) Unwrap() error { return ErrInvalidCompression }

// String returns the string representation of the CodecBackend.
func (b CodecBackend) String() string { return string(b) }

// IsValid returns whether the CodecBackend is one of the defined backends.
func (b CodecBackend) IsValid() (bool, []error) {
	switch b {
	case CodecBackendExec, CodecBackendBuiltin:
		return true, nil
	default:
		return false, []error{&InvalidCodecBackendError{Value: b}}
	}
}

// Error implements the error interface for InvalidCodecBackendError.
func (e *InvalidCodecBackendError) Error() string {
	return fmt.Sprintf("invalid codec backend %q (valid: exec, builtin)", e.Value)
}

// Unwrap returns ErrInvalidCodecBackend for errors.Is() compatibility.
func (e *InvalidCodecBackendError) Unwrap() error { return ErrInvalidCodecBackend }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid checks the enum fields and the rules CUE cannot express: the
// builtin backend only implements gzip, and the shell and target must be
// single non-blank lines.
func (c ArchiveConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Compression.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.CodecBackend.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.CodecBackend == CodecBackendBuiltin && c.Compression != CompressionNone && c.Compression != CompressionGzip {
		errs = append(errs, fmt.Errorf("codec backend %q does not support %q", c.CodecBackend, c.Compression))
	}
	if !singleLine(c.Shell) {
		errs = append(errs, fmt.Errorf("shell %q must be a non-empty single line", c.Shell))
	}
	if !singleLine(c.Target) {
		errs = append(errs, fmt.Errorf("target %q must be a non-empty single line", c.Target))
	}
	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("jobs must be at least 1, got %d", c.Jobs))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidArchiveConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidArchiveConfigError.
func (e *InvalidArchiveConfigError) Error() string {
	return fmt.Sprintf("invalid archive config: %s", errors.Join(e.FieldErrors...))
}

// Unwrap exposes ErrInvalidArchiveConfig and the field errors to errors.Is().
func (e *InvalidArchiveConfigError) Unwrap() []error {
	return append([]error{ErrInvalidArchiveConfig}, e.FieldErrors...)
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Archive.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", errors.Join(e.FieldErrors...))
}

// Unwrap exposes ErrInvalidConfig and the field errors to errors.Is().
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

func singleLine(s string) bool {
	return strings.TrimSpace(s) != "" && !strings.ContainsAny(s, "\r\n")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Archive: ArchiveConfig{
			Shell:        defaultShell,
			Target:       defaultTarget,
			Compression:  CompressionNone,
			Reproducible: false,
			Dereference:  false,
			SkipCheck:    false,
			Jobs:         1,
			CodecBackend: CodecBackendExec,
		},
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}
