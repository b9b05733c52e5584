// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"errors"
	"fmt"
	"strings"
)

// VersionLatest is the sentinel version spec meaning "newest available".
// It is the default when a coordinate carries no explicit version.
const VersionLatest = "latest"

// ErrInvalidCoordinate is the sentinel error wrapped by InvalidCoordinateError.
var ErrInvalidCoordinate = errors.New("invalid package coordinate")

type (
	// Coordinate identifies a downloadable tool package: a name plus a
	// version spec. The version spec is either a concrete version
	// ("2.3.0") or VersionLatest. Coordinates are immutable values,
	// constructed once per launch request.
	Coordinate struct {
		// Name is the tool package name, e.g. "example-tool".
		Name string
		// Version is the version spec; never empty after ParseCoordinate.
		Version string
	}

	// InvalidCoordinateError is returned when a coordinate string cannot
	// be parsed or fails validation.
	InvalidCoordinateError struct {
		Input  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidCoordinateError) Error() string {
	return fmt.Sprintf("invalid package coordinate %q: %s", e.Input, e.Reason)
}

// Unwrap returns ErrInvalidCoordinate so callers can use errors.Is.
func (e *InvalidCoordinateError) Unwrap() error { return ErrInvalidCoordinate }

// ParseCoordinate parses "name" or "name@version" into a Coordinate.
// A missing version defaults to VersionLatest.
func ParseCoordinate(s string) (Coordinate, error) {
	name, version := s, VersionLatest

	if at := strings.LastIndex(s, "@"); at >= 0 {
		name, version = s[:at], s[at+1:]
		if version == "" {
			return Coordinate{}, &InvalidCoordinateError{Input: s, Reason: "empty version after '@'"}
		}
	}

	if err := validateName(name); err != nil {
		return Coordinate{}, &InvalidCoordinateError{Input: s, Reason: err.Error()}
	}

	return Coordinate{Name: name, Version: version}, nil
}

// IsLatest reports whether the coordinate asks for the newest available version.
func (c Coordinate) IsLatest() bool { return strings.EqualFold(c.Version, VersionLatest) }

// String returns the canonical "name@version" form.
func (c Coordinate) String() string { return c.Name + "@" + c.Version }

// validateName checks the package name character set: lowercase letters,
// digits, '.', '_' and '-', starting with a letter or digit.
func validateName(name string) error {
	if name == "" {
		return errors.New("empty name")
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case i > 0 && (r == '.' || r == '_' || r == '-'):
		default:
			return fmt.Errorf("illegal character %q at position %d", r, i)
		}
	}
	return nil
}
