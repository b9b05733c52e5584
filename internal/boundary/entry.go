// SPDX-License-Identifier: MPL-2.0

package boundary

import (
	"errors"
	"fmt"
	"slices"

	"launchbox-cli/pkg/artifact"
)

var (
	// ErrMethodNotFound is returned when an entry point has no method
	// with the requested name.
	ErrMethodNotFound = errors.New("entry point method not found")

	// ErrSignatureMismatch is returned when the caller-supplied
	// parameter signature does not match the method declaration.
	ErrSignatureMismatch = errors.New("method signature mismatch")
)

// Entry is a resolved entry point: a manifest declaration pinned to the
// artifact source it was found in. It is only valid while the boundary
// that produced it remains open.
type Entry struct {
	// Name is the qualified entry point name, e.g. "example.Main".
	Name string

	decl artifact.EntryPoint
	src  *source
}

// Method resolves a named method. When argTypes is non-nil it must
// match the declared parameter descriptors exactly, mirroring
// signature-based method lookup; a mismatch is a lookup failure, not an
// invocation failure.
func (e *Entry) Method(name string, argTypes []string) (artifact.Method, error) {
	m, ok := e.decl.Methods[name]
	if !ok {
		return artifact.Method{}, fmt.Errorf("%w: %s.%s", ErrMethodNotFound, e.Name, name)
	}
	if argTypes != nil && !slices.Equal(argTypes, m.Params) {
		return artifact.Method{}, fmt.Errorf("%w: %s.%s declares %v, caller supplied %v",
			ErrSignatureMismatch, e.Name, name, m.Params, argTypes)
	}
	return m, nil
}

// Materialize extracts the executable member of an exec method into
// destDir (the invoker's per-launch scratch directory) and returns its
// path, ready to run.
func (e *Entry) Materialize(m artifact.Method, destDir string) (string, error) {
	if m.Kind != artifact.MethodExec {
		return "", fmt.Errorf("method kind %q has no executable member", m.Kind)
	}
	return e.src.extract(m.Path, destDir)
}

// ArtifactPath returns the path of the artifact the entry was found in.
func (e *Entry) ArtifactPath() string { return e.src.path }
