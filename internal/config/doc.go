// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/shzip/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/shzip/config.cue on macOS, %APPDATA%\shzip\config.cue
// on Windows), falling back to ./config.cue. It supplies defaults for every archive
// generation flag plus UI settings; SHZIP_* environment variables override file values.
//
// Files are validated against the embedded CUE schema (config_schema.cue) before they
// are merged over the defaults.
package config
