// SPDX-License-Identifier: MPL-2.0

// Package platform answers host questions: which OS family the binary runs
// on and whether it is confined to an application sandbox whose processes
// must be spawned on the host explicitly.
package platform
