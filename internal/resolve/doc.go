// SPDX-License-Identifier: MPL-2.0

// Package resolve turns a package coordinate into an ordered list of
// local artifacts. The launch core depends only on the Resolver
// interface and the ResolutionError it reports; the default
// implementation resolves against configured HTTP and local directory
// repositories, verifies SHA-256 checksums, and keeps a versioned
// on-disk cache so repeated launches skip the download.
package resolve
