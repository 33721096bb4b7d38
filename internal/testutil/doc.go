// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers build input trees for archive tests (WriteFile, WriteTree,
// MustSymlink), manage environment variables (MustSetenv) and bound
// concurrent container work (ContainerSemaphore).
package testutil
