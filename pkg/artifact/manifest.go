// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	_ "embed"
	"errors"
	"fmt"

	"launchbox-cli/pkg/cueutil"
)

// ManifestFileName is the manifest every artifact carries at its root.
const ManifestFileName = "launchbox.cue"

// Method kinds. Exec methods run a bundled executable member; shell
// methods run an inline script in the embedded interpreter.
const (
	MethodExec  = "exec"
	MethodShell = "shell"
)

//go:embed manifest_schema.cue
var manifestSchema []byte

// ErrNoEntrypoints is returned for a manifest that declares none.
var ErrNoEntrypoints = errors.New("manifest declares no entrypoints")

type (
	// Manifest declares the entry points an artifact exposes.
	Manifest struct {
		// Tool is the package name this artifact belongs to.
		Tool string `json:"tool"`
		// Description is optional human-readable text.
		Description string `json:"description,omitempty"`
		// DefaultEntrypoint names the entry point used when the caller
		// does not ask for one explicitly (optional).
		DefaultEntrypoint string `json:"default_entrypoint,omitempty"`
		// Entrypoints maps qualified entry point names to declarations.
		Entrypoints map[string]EntryPoint `json:"entrypoints"`
	}

	// EntryPoint is a named, invokable unit inside an artifact.
	EntryPoint struct {
		Description string            `json:"description,omitempty"`
		Methods     map[string]Method `json:"methods"`
	}

	// Method describes one invokable method of an entry point.
	Method struct {
		// Kind is MethodExec or MethodShell.
		Kind string `json:"kind"`
		// Path is the executable member path for exec methods.
		Path string `json:"path,omitempty"`
		// Script is the inline source for shell methods.
		Script string `json:"script,omitempty"`
		// Args is the base argv prepended before caller arguments.
		Args []string `json:"args,omitempty"`
		// Params are ordered parameter type descriptors. When a caller
		// supplies a signature it must match these exactly.
		Params []string `json:"params,omitempty"`
	}
)

// ParseManifest validates data against the embedded schema and decodes
// it. filename is used in error messages only.
func ParseManifest(data []byte, filename string) (*Manifest, error) {
	m, err := cueutil.Decode[Manifest](manifestSchema, data, "#Manifest", filename)
	if err != nil {
		return nil, err
	}
	if len(m.Entrypoints) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrNoEntrypoints)
	}
	return m, nil
}

// Default returns the entry point to use when none is named: the
// declared default_entrypoint if set, or the sole entry point when the
// manifest has exactly one. Otherwise it reports that a name is required.
func (m *Manifest) Default() (string, error) {
	if m.DefaultEntrypoint != "" {
		if _, ok := m.Entrypoints[m.DefaultEntrypoint]; !ok {
			return "", fmt.Errorf("default_entrypoint %q not declared in entrypoints", m.DefaultEntrypoint)
		}
		return m.DefaultEntrypoint, nil
	}
	if len(m.Entrypoints) == 1 {
		for name := range m.Entrypoints {
			return name, nil
		}
	}
	return "", errors.New("manifest has multiple entrypoints and no default_entrypoint")
}
