// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// The helpers cover environment variable management (MustSetenv,
// MustUnsetenv) with cleanup functions that restore the original state.
package testutil
