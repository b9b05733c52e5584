// SPDX-License-Identifier: MPL-2.0

package boundary

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"launchbox-cli/pkg/artifact"
)

// errMemberNotFound is the internal miss signal between a single source
// and the boundary search loop; it never escapes the package.
var errMemberNotFound = errors.New("member not found")

// source is one artifact admitted into a boundary: either a directory
// or a zip bundle. Sources are read-only; the only writes a boundary
// ever performs happen in per-launch scratch directories owned by the
// invoker.
type source struct {
	path string

	// archive is non-nil for zip bundles and owned by the source.
	archive *zip.ReadCloser

	manifestOnce sync.Once
	manifest     *artifact.Manifest
	manifestErr  error
}

// openSource admits a local artifact path. Directories are used as-is;
// regular files must be zip bundles.
func openSource(p string) (*source, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return &source{path: p}, nil
	}

	archive, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("not a readable artifact bundle: %w", err)
	}
	return &source{path: p, archive: archive}, nil
}

// loadManifest parses the artifact's launchbox.cue once. Artifacts
// without a manifest participate in resource lookup only; loadManifest
// reports (nil, nil) for them.
func (s *source) loadManifest() (*artifact.Manifest, error) {
	s.manifestOnce.Do(func() {
		data, err := s.readAll(artifact.ManifestFileName)
		if err != nil {
			if errors.Is(err, errMemberNotFound) {
				return
			}
			s.manifestErr = err
			return
		}
		s.manifest, s.manifestErr = artifact.ParseManifest(data, filepath.Join(s.path, artifact.ManifestFileName))
	})
	return s.manifest, s.manifestErr
}

// open returns a reader for a member by slash-separated relative path.
// Misses are reported as errMemberNotFound.
func (s *source) open(name string) (io.ReadCloser, error) {
	if s.archive != nil {
		f, err := s.archive.Open(name)
		if err != nil {
			return nil, errMemberNotFound
		}
		return f, nil
	}

	full := filepath.Join(s.path, filepath.FromSlash(name))
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errMemberNotFound
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, errMemberNotFound
	}
	return f, nil
}

func (s *source) readAll(name string) ([]byte, error) {
	rc, err := s.open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// extract copies a member into destDir and marks it executable. It is
// used by the invoker to materialize exec methods into the per-launch
// scratch directory.
func (s *source) extract(name, destDir string) (string, error) {
	rc, err := s.open(name)
	if err != nil {
		if errors.Is(err, errMemberNotFound) {
			return "", fmt.Errorf("executable member %q not found in %s", name, s.path)
		}
		return "", err
	}
	defer rc.Close()

	dest := filepath.Join(destDir, path.Base(name))
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o755)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return dest, nil
}

func (s *source) close() error {
	if s.archive != nil {
		return s.archive.Close()
	}
	return nil
}

// validateResourceName rejects absolute and traversing names so a
// lookup can never escape an artifact root.
func validateResourceName(name string) error {
	if name == "" {
		return errors.New("empty resource name")
	}
	if strings.HasPrefix(name, "/") || path.IsAbs(name) {
		return fmt.Errorf("absolute resource name %q not allowed", name)
	}
	clean := path.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("resource name %q escapes the artifact root", name)
	}
	return nil
}
