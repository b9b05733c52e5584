// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"launchbox-cli/pkg/artifact"
)

const (
	// indexFileName is the per-package version index every remote
	// repository serves under <base>/<name>/.
	indexFileName = "index.json"

	// maxIndexBytes is the upper bound on index responses (1 MB).
	maxIndexBytes = 1 << 20

	// maxArtifactBytes is the upper bound on a single artifact download
	// (512 MB). Prevents unbounded disk consumption from a misbehaving
	// repository.
	maxArtifactBytes = 512 << 20
)

type (
	// packageIndex is the JSON wire format of a repository's per-package
	// version index.
	packageIndex struct {
		Name     string         `json:"name"`
		Versions []indexVersion `json:"versions"`
	}

	indexVersion struct {
		Version   string          `json:"version"`
		Artifacts []indexArtifact `json:"artifacts"`
	}

	indexArtifact struct {
		File   string `json:"file"`
		SHA256 string `json:"sha256"`
		Size   int64  `json:"size,omitempty"`
	}
)

// resolveRemote resolves a coordinate against one HTTP repository:
// fetch the version index, pick the version, download every artifact
// of that version into the cache (reusing verified cached copies), and
// return them in index order.
func (r *CachingResolver) resolveRemote(ctx context.Context, coord artifact.Coordinate, repo Repository) ([]artifact.Resolved, error) {
	idx, err := r.fetchIndex(ctx, repo, coord.Name)
	if err != nil {
		return nil, err
	}

	version, err := pickVersion(coord, idx.versionNames())
	if err != nil {
		return nil, err
	}

	var entries []indexArtifact
	for _, v := range idx.Versions {
		if v.Version == version {
			entries = v.Artifacts
			break
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: version %s lists no artifacts", ErrVersionNotFound, version)
	}

	resolved := make([]artifact.Resolved, 0, len(entries))
	for _, entry := range entries {
		local, err := r.download(ctx, repo, coord.Name, version, entry)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, artifact.Resolved{Path: local, Version: version})
	}
	return resolved, nil
}

func (idx *packageIndex) versionNames() []string {
	names := make([]string, len(idx.Versions))
	for i, v := range idx.Versions {
		names[i] = v.Version
	}
	return names
}

// fetchIndex downloads and decodes <base>/<name>/index.json. A 404 is
// reported as ErrPackageNotFound so the caller can try the next
// repository.
func (r *CachingResolver) fetchIndex(ctx context.Context, repo Repository, name string) (*packageIndex, error) {
	indexURL, err := url.JoinPath(repo.Location, name, indexFileName)
	if err != nil {
		return nil, fmt.Errorf("invalid repository location: %w", err)
	}

	resp, err := r.get(ctx, indexURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrPackageNotFound, name)
	default:
		return nil, fmt.Errorf("fetching index for %s: unexpected status %d", name, resp.StatusCode)
	}

	var idx packageIndex
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxIndexBytes)).Decode(&idx); err != nil {
		return nil, fmt.Errorf("decoding index for %s: %w", name, err)
	}
	return &idx, nil
}

// download fetches one artifact into the versioned cache, verifying its
// SHA-256. A cached copy that still verifies is reused without a
// network round trip.
func (r *CachingResolver) download(ctx context.Context, repo Repository, name, version string, entry indexArtifact) (string, error) {
	cacheDir := filepath.Join(r.cacheDir, name, version)
	local := filepath.Join(cacheDir, entry.File)

	if _, err := os.Stat(local); err == nil {
		if err := VerifyFileChecksum(local, entry.SHA256); err == nil {
			return local, nil
		}
		// Stale or corrupt cache entry; re-download below.
		if err := os.Remove(local); err != nil {
			return "", fmt.Errorf("removing corrupt cache entry: %w", err)
		}
	}

	artifactURL, err := url.JoinPath(repo.Location, name, version, entry.File)
	if err != nil {
		return "", fmt.Errorf("invalid repository location: %w", err)
	}

	resp, err := r.get(ctx, artifactURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("downloading %s: unexpected status %d", entry.File, resp.StatusCode)
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(cacheDir, entry.File+".tmp-*")
	if err != nil {
		return "", err
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, io.LimitReader(resp.Body, maxArtifactBytes)); err != nil {
		return "", fmt.Errorf("downloading %s: %w", entry.File, err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	if err := VerifyFileChecksum(tmp.Name(), entry.SHA256); err != nil {
		return "", err
	}

	if err := os.Rename(tmp.Name(), local); err != nil {
		return "", fmt.Errorf("moving %s into cache: %w", entry.File, err)
	}
	return local, nil
}

func (r *CachingResolver) get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
