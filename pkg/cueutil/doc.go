// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides the shared schema-unify-decode flow for the
// CUE documents launchbox reads: the user configuration file and the
// launchbox.cue manifest carried by every artifact. It also formats CUE
// validation errors into single-line, path-prefixed messages.
package cueutil
