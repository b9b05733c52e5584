// SPDX-License-Identifier: MPL-2.0

// Package artifact defines the package coordinate and resolved-artifact
// values exchanged between the resolver, the isolation boundary, and the
// entry point invoker, plus the launchbox.cue manifest every artifact
// carries to declare its entry points.
package artifact
