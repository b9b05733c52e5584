// SPDX-License-Identifier: MPL-2.0

package boundary

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"launchbox-cli/pkg/artifact"
)

var (
	// ErrNoArtifacts is returned when New is called with an empty path list.
	ErrNoArtifacts = errors.New("no artifact paths supplied")

	// ErrEntryNotFound is returned when an entry point name resolves
	// neither in the artifacts nor in the ancestor chain.
	ErrEntryNotFound = errors.New("entry point not found")

	// ErrResourceNotFound is returned when a resource name resolves
	// neither in the artifacts nor in the ancestor chain.
	ErrResourceNotFound = errors.New("resource not found")

	// ErrClosed is returned for lookups on a closed boundary.
	ErrClosed = errors.New("boundary is closed")
)

type (
	// Boundary is a restricted execution context. Lookups search the
	// artifact sources in the order supplied at construction, then
	// delegate to the ancestor, then fail. The artifact set is fixed at
	// construction and never mutated.
	Boundary struct {
		sources  []*source
		ancestor *Boundary

		mu     sync.Mutex
		closed bool
	}

	// ArtifactError reports an artifact path that could not be admitted
	// into a boundary at construction time.
	ArtifactError struct {
		Path string
		Err  error
	}
)

// Error implements the error interface.
func (e *ArtifactError) Error() string {
	return fmt.Sprintf("artifact %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *ArtifactError) Unwrap() error { return e.Err }

// New constructs a boundary over the given ordered artifact paths with
// a single optional ancestor as the fallback scope. Every path must
// reference an existing, readable artifact (a directory or a zip
// bundle); the builder checks existence only, never artifact integrity.
// An empty path list or a missing path is a construction error and no
// boundary is created.
//
// The returned boundary owns the resources it opened; Close releases
// them. The ancestor is not owned and is left open.
func New(paths []string, ancestor *Boundary) (*Boundary, error) {
	if len(paths) == 0 {
		return nil, ErrNoArtifacts
	}

	b := &Boundary{ancestor: ancestor}
	for _, p := range paths {
		src, err := openSource(p)
		if err != nil {
			b.Close()
			return nil, &ArtifactError{Path: p, Err: err}
		}
		b.sources = append(b.sources, src)
	}
	return b, nil
}

// Ancestor returns the boundary this one delegates unresolved lookups
// to, or nil for a root boundary.
func (b *Boundary) Ancestor() *Boundary { return b.ancestor }

// Paths returns the artifact paths in search order.
func (b *Boundary) Paths() []string {
	paths := make([]string, len(b.sources))
	for i, src := range b.sources {
		paths[i] = src.path
	}
	return paths
}

// Manifests returns the manifests of this boundary's own artifacts in
// search order. Artifacts without a manifest are skipped; the ancestor
// chain is not consulted.
func (b *Boundary) Manifests() ([]*artifact.Manifest, error) {
	if err := b.check(); err != nil {
		return nil, err
	}

	var manifests []*artifact.Manifest
	for _, src := range b.sources {
		m, err := src.loadManifest()
		if err != nil {
			return nil, fmt.Errorf("artifact %s: %w", src.path, err)
		}
		if m != nil {
			manifests = append(manifests, m)
		}
	}
	return manifests, nil
}

// LookupEntry resolves a qualified entry point name. Artifact manifests
// are consulted in search order before the ancestor. The returned Entry
// stays valid until the boundary that owns it is closed.
func (b *Boundary) LookupEntry(name string) (*Entry, error) {
	if err := b.check(); err != nil {
		return nil, err
	}

	for _, src := range b.sources {
		m, err := src.loadManifest()
		if err != nil {
			return nil, fmt.Errorf("artifact %s: %w", src.path, err)
		}
		if m == nil {
			continue
		}
		if ep, ok := m.Entrypoints[name]; ok {
			return &Entry{Name: name, decl: ep, src: src}, nil
		}
	}

	if b.ancestor != nil {
		return b.ancestor.LookupEntry(name)
	}
	return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
}

// DefaultEntry returns the name of the entry point to use when the
// caller does not name one: the first artifact (in search order) that
// carries a manifest decides, falling back to the ancestor.
func (b *Boundary) DefaultEntry() (string, error) {
	if err := b.check(); err != nil {
		return "", err
	}

	for _, src := range b.sources {
		m, err := src.loadManifest()
		if err != nil {
			return "", fmt.Errorf("artifact %s: %w", src.path, err)
		}
		if m == nil {
			continue
		}
		return m.Default()
	}

	if b.ancestor != nil {
		return b.ancestor.DefaultEntry()
	}
	return "", fmt.Errorf("%w: no artifact carries a manifest", ErrEntryNotFound)
}

// Open resolves a named resource (a slash-separated path relative to an
// artifact root) with the same artifact-before-ancestor precedence as
// entry lookup. The caller must close the returned reader.
func (b *Boundary) Open(name string) (io.ReadCloser, error) {
	if err := b.check(); err != nil {
		return nil, err
	}
	if err := validateResourceName(name); err != nil {
		return nil, err
	}

	for _, src := range b.sources {
		rc, err := src.open(name)
		if err == nil {
			return rc, nil
		}
		if !errors.Is(err, errMemberNotFound) {
			return nil, fmt.Errorf("artifact %s: %w", src.path, err)
		}
	}

	if b.ancestor != nil {
		return b.ancestor.Open(name)
	}
	return nil, fmt.Errorf("%w: %s", ErrResourceNotFound, name)
}

// Close releases everything the boundary holds. It is idempotent and
// does not close the ancestor, which belongs to the host.
func (b *Boundary) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	var errs []error
	for _, src := range b.sources {
		if err := src.close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Boundary) check() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return ErrClosed
	}
	return nil
}
