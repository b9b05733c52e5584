// SPDX-License-Identifier: MPL-2.0

// Package boundary builds the isolated execution context a downloaded
// tool runs inside. A Boundary restricts entry point and resource
// lookups to a fixed, ordered set of local artifacts, delegating
// anything not found there to a single ancestor boundary. Each launch
// constructs a fresh Boundary and closes it when the invocation
// returns; boundaries are never shared between launches.
package boundary
