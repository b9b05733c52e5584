// SPDX-License-Identifier: MPL-2.0

package boundary

import (
	"archive/zip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writeArtifactDir creates a directory artifact with the given files.
// Keys are slash-separated relative paths.
func writeArtifactDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// writeArtifactZip creates a zip bundle artifact with the given members.
func writeArtifactZip(t *testing.T, files map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "artifact.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create zip: %v", err)
	}
	zw := zip.NewWriter(f)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("file close: %v", err)
	}
	return path
}

func manifestWith(entry string) string {
	return `
tool: "test-tool"
entrypoints: {
	"` + entry + `": {
		methods: {
			main: {
				kind:   "shell"
				script: "echo hi"
			}
		}
	}
}
`
}

func TestNew_EmptyPathList(t *testing.T) {
	b, err := New(nil, nil)
	if !errors.Is(err, ErrNoArtifacts) {
		t.Fatalf("New(nil) error = %v, want ErrNoArtifacts", err)
	}
	if b != nil {
		t.Error("New(nil) should not construct a boundary")
	}
}

func TestNew_MissingPath(t *testing.T) {
	existing := writeArtifactDir(t, nil)

	b, err := New([]string{existing, filepath.Join(existing, "nope")}, nil)
	if err == nil {
		t.Fatal("New() expected error for missing path")
	}
	var artErr *ArtifactError
	if !errors.As(err, &artErr) {
		t.Fatalf("New() error = %T, want *ArtifactError", err)
	}
	if b != nil {
		t.Error("New() should not construct a boundary on failure")
	}
}

func TestNew_ValidPaths(t *testing.T) {
	dir := writeArtifactDir(t, map[string]string{"launchbox.cue": manifestWith("a.Main")})
	bundle := writeArtifactZip(t, map[string]string{"data/greeting.txt": "hello"})

	b, err := New([]string{dir, bundle}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer b.Close()

	paths := b.Paths()
	if len(paths) != 2 || paths[0] != dir || paths[1] != bundle {
		t.Errorf("Paths() = %v, want [%s %s]", paths, dir, bundle)
	}
}

func TestLookupEntry_ArtifactBeforeAncestor(t *testing.T) {
	ancestorDir := writeArtifactDir(t, map[string]string{"launchbox.cue": manifestWith("dup.Entry")})
	ancestor, err := New([]string{ancestorDir}, nil)
	if err != nil {
		t.Fatalf("New(ancestor) error = %v", err)
	}
	defer ancestor.Close()

	childDir := writeArtifactDir(t, map[string]string{"launchbox.cue": manifestWith("dup.Entry")})
	child, err := New([]string{childDir}, ancestor)
	if err != nil {
		t.Fatalf("New(child) error = %v", err)
	}
	defer child.Close()

	entry, err := child.LookupEntry("dup.Entry")
	if err != nil {
		t.Fatalf("LookupEntry() error = %v", err)
	}
	if entry.ArtifactPath() != childDir {
		t.Errorf("LookupEntry() resolved in %s, want the artifact %s (not the ancestor)", entry.ArtifactPath(), childDir)
	}
}

func TestLookupEntry_AncestorFallback(t *testing.T) {
	ancestorDir := writeArtifactDir(t, map[string]string{"launchbox.cue": manifestWith("shared.Util")})
	ancestor, err := New([]string{ancestorDir}, nil)
	if err != nil {
		t.Fatalf("New(ancestor) error = %v", err)
	}
	defer ancestor.Close()

	childDir := writeArtifactDir(t, map[string]string{"launchbox.cue": manifestWith("child.Main")})
	child, err := New([]string{childDir}, ancestor)
	if err != nil {
		t.Fatalf("New(child) error = %v", err)
	}
	defer child.Close()

	entry, err := child.LookupEntry("shared.Util")
	if err != nil {
		t.Fatalf("LookupEntry() fallback error = %v", err)
	}
	if entry.ArtifactPath() != ancestorDir {
		t.Errorf("LookupEntry() resolved in %s, want ancestor artifact %s", entry.ArtifactPath(), ancestorDir)
	}
}

func TestLookupEntry_NotFound(t *testing.T) {
	dir := writeArtifactDir(t, map[string]string{"launchbox.cue": manifestWith("a.Main")})
	b, err := New([]string{dir}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer b.Close()

	_, err = b.LookupEntry("ghost.Main")
	if !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("LookupEntry() error = %v, want ErrEntryNotFound", err)
	}
}

func TestOpen_Precedence(t *testing.T) {
	ancestorDir := writeArtifactDir(t, map[string]string{"conf/app.conf": "ancestor"})
	ancestor, err := New([]string{ancestorDir}, nil)
	if err != nil {
		t.Fatalf("New(ancestor) error = %v", err)
	}
	defer ancestor.Close()

	childZip := writeArtifactZip(t, map[string]string{"conf/app.conf": "artifact"})
	child, err := New([]string{childZip}, ancestor)
	if err != nil {
		t.Fatalf("New(child) error = %v", err)
	}
	defer child.Close()

	rc, err := child.Open("conf/app.conf")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "artifact" {
		t.Errorf("Open() read %q, want the artifact copy (precedence over ancestor)", data)
	}
}

func TestOpen_AncestorFallbackAndMiss(t *testing.T) {
	ancestorDir := writeArtifactDir(t, map[string]string{"only-in-ancestor.txt": "up"})
	ancestor, err := New([]string{ancestorDir}, nil)
	if err != nil {
		t.Fatalf("New(ancestor) error = %v", err)
	}
	defer ancestor.Close()

	childDir := writeArtifactDir(t, map[string]string{"child.txt": "down"})
	child, err := New([]string{childDir}, ancestor)
	if err != nil {
		t.Fatalf("New(child) error = %v", err)
	}
	defer child.Close()

	rc, err := child.Open("only-in-ancestor.txt")
	if err != nil {
		t.Fatalf("Open() fallback error = %v", err)
	}
	rc.Close()

	if _, err := child.Open("nowhere.txt"); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("Open(miss) error = %v, want ErrResourceNotFound", err)
	}
}

func TestOpen_RejectsTraversal(t *testing.T) {
	dir := writeArtifactDir(t, map[string]string{"x.txt": "x"})
	b, err := New([]string{dir}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer b.Close()

	for _, name := range []string{"../secret", "/etc/passwd", "a/../../b", ""} {
		if _, err := b.Open(name); err == nil {
			t.Errorf("Open(%q) should be rejected", name)
		}
	}
}

func TestEntry_MethodSignature(t *testing.T) {
	dir := writeArtifactDir(t, map[string]string{"launchbox.cue": `
tool: "test-tool"
entrypoints: {
	"example.Main": {
		methods: {
			main: {
				kind:   "shell"
				script: "echo hi"
				params: ["string"]
			}
		}
	}
}
`})
	b, err := New([]string{dir}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer b.Close()

	entry, err := b.LookupEntry("example.Main")
	if err != nil {
		t.Fatalf("LookupEntry() error = %v", err)
	}

	if _, err := entry.Method("main", []string{"string"}); err != nil {
		t.Errorf("Method() with matching signature error = %v", err)
	}
	if _, err := entry.Method("main", nil); err != nil {
		t.Errorf("Method() without signature check error = %v", err)
	}
	if _, err := entry.Method("main", []string{"int"}); !errors.Is(err, ErrSignatureMismatch) {
		t.Errorf("Method() with wrong signature error = %v, want ErrSignatureMismatch", err)
	}
	if _, err := entry.Method("stop", nil); !errors.Is(err, ErrMethodNotFound) {
		t.Errorf("Method(stop) error = %v, want ErrMethodNotFound", err)
	}
}

func TestEntry_MaterializeFromZip(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit semantics differ on windows")
	}

	bundle := writeArtifactZip(t, map[string]string{
		"launchbox.cue": `
tool: "test-tool"
entrypoints: {
	"tool.Main": {
		methods: {
			main: {
				kind: "exec"
				path: "bin/tool"
			}
		}
	}
}
`,
		"bin/tool": "#!/bin/sh\necho ok\n",
	})

	b, err := New([]string{bundle}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer b.Close()

	entry, err := b.LookupEntry("tool.Main")
	if err != nil {
		t.Fatalf("LookupEntry() error = %v", err)
	}
	method, err := entry.Method("main", nil)
	if err != nil {
		t.Fatalf("Method() error = %v", err)
	}

	scratch := t.TempDir()
	execPath, err := entry.Materialize(method, scratch)
	if err != nil {
		t.Fatalf("Materialize() error = %v", err)
	}

	info, err := os.Stat(execPath)
	if err != nil {
		t.Fatalf("stat extracted executable: %v", err)
	}
	if info.Mode()&0o100 == 0 {
		t.Error("extracted member should be executable")
	}
}

func TestDefaultEntry(t *testing.T) {
	dir := writeArtifactDir(t, map[string]string{"launchbox.cue": manifestWith("sole.Main")})
	b, err := New([]string{dir}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer b.Close()

	name, err := b.DefaultEntry()
	if err != nil {
		t.Fatalf("DefaultEntry() error = %v", err)
	}
	if name != "sole.Main" {
		t.Errorf("DefaultEntry() = %q, want sole.Main", name)
	}
}

func TestClose_Idempotent(t *testing.T) {
	bundle := writeArtifactZip(t, map[string]string{"x.txt": "x"})
	b, err := New([]string{bundle}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if _, err := b.LookupEntry("any"); !errors.Is(err, ErrClosed) {
		t.Errorf("LookupEntry() after Close error = %v, want ErrClosed", err)
	}
	if _, err := b.Open("x.txt"); !errors.Is(err, ErrClosed) {
		t.Errorf("Open() after Close error = %v, want ErrClosed", err)
	}
}
