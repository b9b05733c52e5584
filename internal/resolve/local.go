// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"launchbox-cli/pkg/artifact"
)

// resolveLocal resolves a coordinate against a local directory
// repository laid out as <root>/<name>/<version>/. Each version
// directory holds the artifact contents directly: the version directory
// itself is the single resolved artifact, followed by any zip bundles
// it contains (sorted by name) as secondary artifacts.
func (r *CachingResolver) resolveLocal(coord artifact.Coordinate, repo Repository) ([]artifact.Resolved, error) {
	pkgDir := filepath.Join(repo.Location, coord.Name)
	entries, err := os.ReadDir(pkgDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, coord.Name)
		}
		return nil, fmt.Errorf("reading repository directory: %w", err)
	}

	var versions []string
	for _, e := range entries {
		if e.IsDir() {
			versions = append(versions, e.Name())
		}
	}

	version, err := pickVersion(coord, versions)
	if err != nil {
		return nil, err
	}

	versionDir := filepath.Join(pkgDir, version)
	resolved := []artifact.Resolved{{Path: versionDir, Version: version}}

	bundles, err := os.ReadDir(versionDir)
	if err != nil {
		return nil, fmt.Errorf("reading version directory: %w", err)
	}
	var names []string
	for _, e := range bundles {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".zip") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, n := range names {
		resolved = append(resolved, artifact.Resolved{Path: filepath.Join(versionDir, n), Version: version})
	}

	return resolved, nil
}
