// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"launchbox-cli/pkg/artifact"
)

var (
	// ErrPackageNotFound is returned when no configured repository knows
	// the requested package name.
	ErrPackageNotFound = errors.New("package not found in any repository")

	// ErrVersionNotFound is returned when the package exists but the
	// requested version does not.
	ErrVersionNotFound = errors.New("version not found")

	// ErrNoRepositories is returned when resolution is attempted with an
	// empty repository list.
	ErrNoRepositories = errors.New("no repositories configured")
)

type (
	// Repository is one configured artifact repository. Location is
	// either an http(s) base URL or a local directory path.
	Repository struct {
		Name     string
		Location string
	}

	// Resolver resolves a package coordinate against a set of
	// repositories into an ordered, non-empty artifact list. The first
	// artifact is the primary one whose version is reported to the
	// user. Implementations report failures as *ResolutionError.
	Resolver interface {
		Resolve(ctx context.Context, coord artifact.Coordinate, repos []Repository) ([]artifact.Resolved, error)
	}

	// ResolutionError is the single failure kind resolution reports.
	// It is terminal: the launch core never retries resolution.
	ResolutionError struct {
		Coordinate artifact.Coordinate
		Err        error
	}

	// CachingResolver is the default Resolver. Downloads land in a
	// versioned cache directory and are reused when their checksums
	// still verify.
	CachingResolver struct {
		cacheDir   string
		httpClient *http.Client
		userAgent  string
	}

	// Option configures a CachingResolver during construction.
	Option func(*CachingResolver)
)

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("failed to resolve %s: %v", e.Coordinate, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *ResolutionError) Unwrap() error { return e.Err }

// IsRemote reports whether the repository is reached over HTTP.
func (r Repository) IsRemote() bool {
	return strings.HasPrefix(r.Location, "http://") || strings.HasPrefix(r.Location, "https://")
}

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy
// configurations.
func WithHTTPClient(c *http.Client) Option {
	return func(r *CachingResolver) { r.httpClient = c }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(r *CachingResolver) { r.userAgent = ua }
}

// NewCachingResolver creates the default resolver. cacheDir may be
// empty to use DefaultCacheDir.
func NewCachingResolver(cacheDir string, opts ...Option) (*CachingResolver, error) {
	if cacheDir == "" {
		var err error
		cacheDir, err = DefaultCacheDir()
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	r := &CachingResolver{
		cacheDir:   abs,
		httpClient: http.DefaultClient,
		userAgent:  "launchbox/dev",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// CacheDir returns the resolver's artifact cache root.
func (r *CachingResolver) CacheDir() string { return r.cacheDir }

// DefaultCacheDir returns $LAUNCHBOX_CACHE_PATH or ~/.launchbox/artifacts.
func DefaultCacheDir() (string, error) {
	if envPath := os.Getenv("LAUNCHBOX_CACHE_PATH"); envPath != "" {
		return envPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".launchbox", "artifacts"), nil
}

// Resolve tries the repositories in order and returns the artifacts of
// the first one that carries the package. Repositories that do not know
// the package are skipped; any other failure aborts resolution.
func (r *CachingResolver) Resolve(ctx context.Context, coord artifact.Coordinate, repos []Repository) ([]artifact.Resolved, error) {
	if len(repos) == 0 {
		return nil, &ResolutionError{Coordinate: coord, Err: ErrNoRepositories}
	}

	for _, repo := range repos {
		var (
			resolved []artifact.Resolved
			err      error
		)
		if repo.IsRemote() {
			resolved, err = r.resolveRemote(ctx, coord, repo)
		} else {
			resolved, err = r.resolveLocal(coord, repo)
		}
		if err == nil {
			return resolved, nil
		}
		if errors.Is(err, ErrPackageNotFound) {
			continue
		}
		return nil, &ResolutionError{Coordinate: coord, Err: fmt.Errorf("repository %s: %w", repo.Name, err)}
	}

	return nil, &ResolutionError{Coordinate: coord, Err: ErrPackageNotFound}
}
