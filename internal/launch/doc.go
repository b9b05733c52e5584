// SPDX-License-Identifier: MPL-2.0

// Package launch composes the launch pipeline: resolve a package
// coordinate into local artifacts, build a fresh isolation boundary
// over them, and invoke the requested entry point inside it.
//
// A launch moves through three states, strictly in sequence and with
// no concurrency between them:
//
//	StateResolving -> StateLaunching -> StateTerminated
//
// Resolution failures surface as *resolve.ResolutionError. Everything
// that goes wrong after resolution (boundary construction, entry
// lookup, method lookup, or the invocation itself) is wrapped into a
// single *Error with a fixed exit code of 1 so the host never has to
// understand the failure taxonomy of an arbitrary downloaded tool.
package launch
