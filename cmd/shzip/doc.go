// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for shzip.
//
// The root command creates archives; extract, list and config are
// subcommands. Every handler receives an App, which carries the config
// provider, the extraction runtimes and the standard streams.
package cmd
