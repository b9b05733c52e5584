// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"launchbox-cli/internal/boundary"
	"launchbox-cli/internal/issue"
	"launchbox-cli/internal/resolve"
)

// issueForLaunchError maps a launch failure to its issue catalog entry, or 0
// when no catalog entry applies.
func issueForLaunchError(err error) issue.Id {
	switch {
	case errors.Is(err, resolve.ErrPackageNotFound):
		return issue.PackageNotFoundId
	case errors.Is(err, resolve.ErrVersionNotFound):
		return issue.VersionNotFoundId
	case errors.Is(err, resolve.ErrChecksumMismatch):
		return issue.ChecksumMismatchId
	case errors.Is(err, boundary.ErrEntryNotFound):
		return issue.EntryPointNotFoundId
	}
	return 0
}

// renderIssue writes the catalog entry's rendered help text to stderr.
// Rendering failures are logged and swallowed; the primary error message has
// already been printed by the caller.
func renderIssue(stderr io.Writer, id issue.Id) {
	if id == 0 {
		return
	}

	catalogEntry := issue.Get(id)
	if catalogEntry == nil {
		return
	}

	rendered, err := catalogEntry.Render("dark")
	if err != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", id, "error", err)
		return
	}
	fmt.Fprint(stderr, rendered)
}
