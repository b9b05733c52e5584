// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"fmt"

	"golang.org/x/mod/semver"

	"launchbox-cli/pkg/artifact"
)

// pickVersion selects the version for a coordinate from the available
// list: an exact match for concrete specs, the highest semantic version
// for the latest sentinel. Versions that are not valid semver sort
// below every valid one so a repository can mix tagged snapshots with
// releases without hijacking "latest".
func pickVersion(coord artifact.Coordinate, available []string) (string, error) {
	if len(available) == 0 {
		return "", fmt.Errorf("%w: %s has no versions", ErrVersionNotFound, coord.Name)
	}

	if !coord.IsLatest() {
		for _, v := range available {
			if v == coord.Version {
				return v, nil
			}
		}
		return "", fmt.Errorf("%w: %s@%s", ErrVersionNotFound, coord.Name, coord.Version)
	}

	best := available[0]
	for _, v := range available[1:] {
		if compareVersions(v, best) > 0 {
			best = v
		}
	}
	return best, nil
}

// compareVersions orders two repository version strings. Valid semver
// (with or without the leading "v") wins over invalid; two valid
// versions compare semantically, two invalid ones lexically.
func compareVersions(a, b string) int {
	ca, cb := canonical(a), canonical(b)
	switch {
	case ca != "" && cb != "":
		return semver.Compare(ca, cb)
	case ca != "":
		return 1
	case cb != "":
		return -1
	default:
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	}
}

func canonical(v string) string {
	if v == "" {
		return ""
	}
	if v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return ""
	}
	return v
}
