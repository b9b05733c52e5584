// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"launchbox-cli/pkg/artifact"
)

// newTestResolver creates a CachingResolver with a private cache dir.
func newTestResolver(t *testing.T) *CachingResolver {
	t.Helper()
	r, err := NewCachingResolver(t.TempDir())
	if err != nil {
		t.Fatalf("NewCachingResolver() error = %v", err)
	}
	return r
}

// newRepoServer serves a single package with one version and one
// artifact file, and counts artifact downloads.
func newRepoServer(t *testing.T, name, version, file string, payload []byte) (*httptest.Server, *int) {
	t.Helper()

	sum := sha256.Sum256(payload)
	idx := packageIndex{
		Name: name,
		Versions: []indexVersion{{
			Version: version,
			Artifacts: []indexArtifact{{
				File:   file,
				SHA256: hex.EncodeToString(sum[:]),
				Size:   int64(len(payload)),
			}},
		}},
	}

	downloads := 0
	mux := http.NewServeMux()
	mux.HandleFunc(fmt.Sprintf("/%s/index.json", name), func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(idx)
	})
	mux.HandleFunc(fmt.Sprintf("/%s/%s/%s", name, version, file), func(w http.ResponseWriter, _ *http.Request) {
		downloads++
		w.Write(payload)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &downloads
}

func TestResolve_NoRepositories(t *testing.T) {
	r := newTestResolver(t)
	coord := artifact.Coordinate{Name: "example-tool", Version: "latest"}

	_, err := r.Resolve(context.Background(), coord, nil)
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Resolve() error = %T, want *ResolutionError", err)
	}
	if !errors.Is(err, ErrNoRepositories) {
		t.Errorf("Resolve() error = %v, want ErrNoRepositories", err)
	}
}

func TestResolve_Remote(t *testing.T) {
	payload := []byte("artifact-bytes")
	srv, downloads := newRepoServer(t, "example-tool", "2.3.0", "example-tool-2.3.0.zip", payload)
	r := newTestResolver(t)

	coord := artifact.Coordinate{Name: "example-tool", Version: "latest"}
	repos := []Repository{{Name: "main", Location: srv.URL}}

	resolved, err := r.Resolve(context.Background(), coord, repos)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if len(resolved) != 1 {
		t.Fatalf("Resolve() returned %d artifacts, want 1", len(resolved))
	}
	if resolved[0].Version != "2.3.0" {
		t.Errorf("resolved version = %q, want 2.3.0", resolved[0].Version)
	}
	data, err := os.ReadFile(resolved[0].Path)
	if err != nil {
		t.Fatalf("reading cached artifact: %v", err)
	}
	if string(data) != string(payload) {
		t.Error("cached artifact content does not match served payload")
	}

	// A second resolve must reuse the verified cache entry.
	if _, err := r.Resolve(context.Background(), coord, repos); err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}
	if *downloads != 1 {
		t.Errorf("artifact downloaded %d times, want 1 (cache reuse)", *downloads)
	}
}

func TestResolve_Remote_ChecksumMismatch(t *testing.T) {
	payload := []byte("artifact-bytes")
	srv, _ := newRepoServer(t, "example-tool", "2.3.0", "t.zip", payload)

	// Corrupt the served payload after the index was built by pointing a
	// second server at the same index but different bytes.
	mux := http.NewServeMux()
	mux.HandleFunc("/example-tool/index.json", func(w http.ResponseWriter, r *http.Request) {
		resp, err := http.Get(srv.URL + r.URL.Path)
		if err != nil {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()
		var idx packageIndex
		json.NewDecoder(resp.Body).Decode(&idx)
		json.NewEncoder(w).Encode(idx)
	})
	mux.HandleFunc("/example-tool/2.3.0/t.zip", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("tampered"))
	})
	tampered := httptest.NewServer(mux)
	defer tampered.Close()

	r := newTestResolver(t)
	coord := artifact.Coordinate{Name: "example-tool", Version: "2.3.0"}

	_, err := r.Resolve(context.Background(), coord, []Repository{{Name: "evil", Location: tampered.URL}})
	if !errors.Is(err, ErrChecksumMismatch) {
		t.Fatalf("Resolve() error = %v, want ErrChecksumMismatch", err)
	}
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Resolve() error = %T, want *ResolutionError", err)
	}
}

func TestResolve_FallsThroughToNextRepository(t *testing.T) {
	empty := httptest.NewServer(http.NotFoundHandler())
	defer empty.Close()

	payload := []byte("bytes")
	srv, _ := newRepoServer(t, "example-tool", "1.0.0", "a.zip", payload)
	r := newTestResolver(t)

	coord := artifact.Coordinate{Name: "example-tool", Version: "latest"}
	repos := []Repository{
		{Name: "empty", Location: empty.URL},
		{Name: "main", Location: srv.URL},
	}

	resolved, err := r.Resolve(context.Background(), coord, repos)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved[0].Version != "1.0.0" {
		t.Errorf("resolved version = %q, want 1.0.0", resolved[0].Version)
	}
}

func TestResolve_PackageNotFoundAnywhere(t *testing.T) {
	empty := httptest.NewServer(http.NotFoundHandler())
	defer empty.Close()

	r := newTestResolver(t)
	coord := artifact.Coordinate{Name: "ghost", Version: "latest"}

	_, err := r.Resolve(context.Background(), coord, []Repository{{Name: "empty", Location: empty.URL}})
	if !errors.Is(err, ErrPackageNotFound) {
		t.Fatalf("Resolve() error = %v, want ErrPackageNotFound", err)
	}
}

func TestResolve_Local(t *testing.T) {
	root := t.TempDir()
	for _, v := range []string{"1.0.0", "2.3.0"} {
		dir := filepath.Join(root, "example-tool", v)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "launchbox.cue"), []byte(`tool: "example-tool"
entrypoints: {"example.Main": {methods: {main: {kind: "shell", script: "echo hi"}}}}
`), 0o644); err != nil {
			t.Fatalf("write manifest: %v", err)
		}
	}

	r := newTestResolver(t)
	repos := []Repository{{Name: "local", Location: root}}

	resolved, err := r.Resolve(context.Background(), artifact.Coordinate{Name: "example-tool", Version: "latest"}, repos)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if resolved[0].Version != "2.3.0" {
		t.Errorf("latest local version = %q, want 2.3.0", resolved[0].Version)
	}
	if filepath.Base(filepath.Dir(resolved[0].Path)) != "example-tool" && filepath.Base(resolved[0].Path) != "2.3.0" {
		t.Errorf("resolved path = %q, want the version directory", resolved[0].Path)
	}

	exact, err := r.Resolve(context.Background(), artifact.Coordinate{Name: "example-tool", Version: "1.0.0"}, repos)
	if err != nil {
		t.Fatalf("Resolve(exact) error = %v", err)
	}
	if exact[0].Version != "1.0.0" {
		t.Errorf("exact version = %q, want 1.0.0", exact[0].Version)
	}

	_, err = r.Resolve(context.Background(), artifact.Coordinate{Name: "ghost", Version: "latest"}, repos)
	if !errors.Is(err, ErrPackageNotFound) {
		t.Errorf("Resolve(ghost) error = %v, want ErrPackageNotFound", err)
	}
}
