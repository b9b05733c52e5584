// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"launchbox-cli/internal/config"
)

func executeCache(t *testing.T, app *App, args ...string) error {
	t.Helper()

	cacheCmd := newCacheCommand(app)
	cacheCmd.SetArgs(args)
	cacheCmd.SetOut(app.stdout)
	cacheCmd.SetErr(app.stderr)
	return cacheCmd.Execute()
}

func newCacheTestApp(t *testing.T, cfg *config.Config) (*App, *bytes.Buffer) {
	t.Helper()

	stdout := &bytes.Buffer{}
	app, err := NewApp(Dependencies{
		Config:   &fakeConfigProvider{cfg: cfg},
		Launches: &fakeLaunchService{},
		Stdout:   stdout,
		Stderr:   &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("NewApp() failed: %v", err)
	}
	return app, stdout
}

func TestCacheCommand_PathUsesConfiguredDir(t *testing.T) {
	custom := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.CacheDir = config.CacheDirPath(custom)
	app, stdout := newCacheTestApp(t, cfg)

	if err := executeCache(t, app, "path"); err != nil {
		t.Fatalf("cache path failed: %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != custom {
		t.Errorf("cache path printed %q, want configured dir %q", got, custom)
	}
}

func TestCacheCommand_PathFallsBackToDefault(t *testing.T) {
	fallback := t.TempDir()
	t.Setenv("LAUNCHBOX_CACHE_PATH", fallback)
	app, stdout := newCacheTestApp(t, config.DefaultConfig())

	if err := executeCache(t, app, "path"); err != nil {
		t.Fatalf("cache path failed: %v", err)
	}
	if got := strings.TrimSpace(stdout.String()); got != fallback {
		t.Errorf("cache path printed %q, want default dir %q", got, fallback)
	}
}

func TestCacheCommand_ClearRemovesConfiguredDir(t *testing.T) {
	custom := filepath.Join(t.TempDir(), "artifacts")
	if err := os.MkdirAll(filepath.Join(custom, "example-tool", "2.3.0"), 0o755); err != nil {
		t.Fatalf("failed to seed cache dir: %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.CacheDir = config.CacheDirPath(custom)
	app, stdout := newCacheTestApp(t, cfg)

	if err := executeCache(t, app, "clear"); err != nil {
		t.Fatalf("cache clear failed: %v", err)
	}
	if _, err := os.Stat(custom); !os.IsNotExist(err) {
		t.Errorf("configured cache dir still exists after clear: %v", err)
	}
	if !strings.Contains(stdout.String(), custom) {
		t.Errorf("clear output %q does not name the cleared dir", stdout.String())
	}
}
