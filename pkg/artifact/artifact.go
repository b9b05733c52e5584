// SPDX-License-Identifier: MPL-2.0

package artifact

// Resolved is a single artifact produced by dependency resolution: a
// local filesystem location plus the concrete version it was resolved
// to. Resolution always yields an ordered, non-empty sequence of these;
// the first element is the primary artifact whose version is reported
// to the user. Values are immutable once returned by a resolver.
type Resolved struct {
	// Path is the local filesystem path of the downloaded artifact
	// (a directory or a zip bundle).
	Path string
	// Version is the concrete resolved version, e.g. "2.3.0".
	Version string
}
