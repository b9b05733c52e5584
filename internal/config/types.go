// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidRepositoryName is returned when a RepositoryName value is empty or whitespace-only.
	ErrInvalidRepositoryName = errors.New("invalid repository name")
	// ErrInvalidRepositoryLocation is returned when a RepositoryLocation value is empty or whitespace-only.
	ErrInvalidRepositoryLocation = errors.New("invalid repository location")
	// ErrInvalidCacheDirPath is returned when a CacheDirPath value is whitespace-only.
	ErrInvalidCacheDirPath = errors.New("invalid cache dir path")
	// ErrInvalidScopePath is returned when a ScopePath value is empty or whitespace-only.
	ErrInvalidScopePath = errors.New("invalid scope path")
	// ErrInvalidRepositoryEntry is the sentinel error wrapped by InvalidRepositoryEntryError.
	ErrInvalidRepositoryEntry = errors.New("invalid repository entry")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// RepositoryName identifies a configured repository in error messages
	// and diagnostics. A valid name must be non-empty and not whitespace-only.
	RepositoryName string

	// InvalidRepositoryNameError is returned when a RepositoryName value is
	// empty or whitespace-only. It wraps ErrInvalidRepositoryName for errors.Is().
	InvalidRepositoryNameError struct {
		Value RepositoryName
	}

	// RepositoryLocation is where a repository lives: an http(s) base URL
	// for remote repositories or a filesystem path for local ones.
	// A valid location must be non-empty and not whitespace-only.
	RepositoryLocation string

	// InvalidRepositoryLocationError is returned when a RepositoryLocation
	// value is empty or whitespace-only. It wraps ErrInvalidRepositoryLocation
	// for errors.Is().
	InvalidRepositoryLocationError struct {
		Value RepositoryLocation
	}

	// CacheDirPath represents a filesystem path to the artifact cache directory.
	// The zero value ("") is valid and means "use default cache directory".
	// Non-zero values must not be whitespace-only.
	CacheDirPath string

	// InvalidCacheDirPathError is returned when a CacheDirPath value is
	// non-empty but whitespace-only.
	InvalidCacheDirPathError struct {
		Value CacheDirPath
	}

	// ScopePath represents a filesystem path to an artifact (a directory or
	// a zip bundle) admitted into the host's boundary chain.
	// A valid path must be non-empty and not whitespace-only.
	ScopePath string

	// InvalidScopePathError is returned when a ScopePath value is
	// empty or whitespace-only. It wraps ErrInvalidScopePath for errors.Is().
	InvalidScopePathError struct {
		Value ScopePath
	}

	// InvalidRepositoryEntryError is returned when a RepositoryEntry has invalid
	// fields. It wraps ErrInvalidRepositoryEntry for errors.Is() compatibility
	// and collects field-level validation errors from Name and Location.
	InvalidRepositoryEntryError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// RepositoryEntry specifies one repository consulted during package
	// resolution. Entries are tried in the order they appear in the config.
	RepositoryEntry struct {
		// Name identifies the repository in diagnostics.
		Name RepositoryName `json:"name" mapstructure:"name"`
		// Location is the repository's base URL or local directory path.
		Location RepositoryLocation `json:"location" mapstructure:"location"`
	}

	// Config holds the application configuration.
	Config struct {
		// Repositories are consulted in order during package resolution.
		Repositories []RepositoryEntry `json:"repositories" mapstructure:"repositories"`
		// CacheDir overrides the artifact cache directory.
		CacheDir CacheDirPath `json:"cache_dir" mapstructure:"cache_dir"`
		// PlatformPaths are artifacts shared with every launched tool. They
		// form the scope that launched boundaries fall back to.
		PlatformPaths []ScopePath `json:"platform_paths" mapstructure:"platform_paths"`
		// HostPaths are artifacts private to the host itself. Launched
		// tools never see them.
		HostPaths []ScopePath `json:"host_paths" mapstructure:"host_paths"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// IsValid returns whether the RepositoryEntry has valid fields.
// It delegates to Name.IsValid() and Location.IsValid().
func (e RepositoryEntry) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := e.Name.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := e.Location.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidRepositoryEntryError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRepositoryEntryError.
func (e *InvalidRepositoryEntryError) Error() string {
	return fmt.Sprintf("invalid repository entry: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidRepositoryEntry for errors.Is() compatibility.
func (e *InvalidRepositoryEntryError) Unwrap() error { return ErrInvalidRepositoryEntry }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to each Repositories entry's IsValid(), CacheDir.IsValid(),
// each scope path's IsValid(), and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, entry := range c.Repositories {
		if valid, fieldErrs := entry.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.CacheDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, p := range c.PlatformPaths {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, p := range c.HostPaths {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the RepositoryName.
func (n RepositoryName) String() string { return string(n) }

// IsValid returns whether the RepositoryName is valid.
// A valid name must be non-empty and not whitespace-only.
func (n RepositoryName) IsValid() (bool, []error) {
	if strings.TrimSpace(string(n)) == "" {
		return false, []error{&InvalidRepositoryNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRepositoryNameError.
func (e *InvalidRepositoryNameError) Error() string {
	return fmt.Sprintf("invalid repository name %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidRepositoryName for errors.Is() compatibility.
func (e *InvalidRepositoryNameError) Unwrap() error { return ErrInvalidRepositoryName }

// String returns the string representation of the RepositoryLocation.
func (l RepositoryLocation) String() string { return string(l) }

// IsRemote reports whether the location is an http(s) URL.
func (l RepositoryLocation) IsRemote() bool {
	return strings.HasPrefix(string(l), "http://") || strings.HasPrefix(string(l), "https://")
}

// IsValid returns whether the RepositoryLocation is valid.
// A valid location must be non-empty and not whitespace-only.
func (l RepositoryLocation) IsValid() (bool, []error) {
	if strings.TrimSpace(string(l)) == "" {
		return false, []error{&InvalidRepositoryLocationError{Value: l}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRepositoryLocationError.
func (e *InvalidRepositoryLocationError) Error() string {
	return fmt.Sprintf("invalid repository location %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidRepositoryLocation for errors.Is() compatibility.
func (e *InvalidRepositoryLocationError) Unwrap() error { return ErrInvalidRepositoryLocation }

// String returns the string representation of the CacheDirPath.
func (p CacheDirPath) String() string { return string(p) }

// IsValid returns whether the CacheDirPath is valid.
// The zero value ("") is valid (means "use default cache directory").
// Non-zero values must not be whitespace-only.
func (p CacheDirPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidCacheDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCacheDirPathError.
func (e *InvalidCacheDirPathError) Error() string {
	return fmt.Sprintf("invalid cache dir path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidCacheDirPath for errors.Is() compatibility.
func (e *InvalidCacheDirPathError) Unwrap() error { return ErrInvalidCacheDirPath }

// String returns the string representation of the ScopePath.
func (p ScopePath) String() string { return string(p) }

// IsValid returns whether the ScopePath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p ScopePath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidScopePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidScopePathError.
func (e *InvalidScopePathError) Error() string {
	return fmt.Sprintf("invalid scope path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidScopePath for errors.Is() compatibility.
func (e *InvalidScopePathError) Unwrap() error { return ErrInvalidScopePath }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Repositories:  []RepositoryEntry{},
		CacheDir:      "", // Will use default cache dir if empty
		PlatformPaths: []ScopePath{},
		HostPaths:     []ScopePath{},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
