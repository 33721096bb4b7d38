// SPDX-License-Identifier: MPL-2.0

// Package main is the entry point for the shzip CLI.
package main

import (
	cmd "shzip-cli/cmd/shzip"
)

func main() {
	cmd.Execute()
}
