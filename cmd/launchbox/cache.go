// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"launchbox-cli/internal/resolve"

	"github.com/spf13/cobra"
)

// newCacheCommand creates the `launchbox cache` command tree.
func newCacheCommand(app *App) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
		Long: `Manage the local artifact cache.

Downloaded artifacts are kept under ~/.launchbox/artifacts (override with
LAUNCHBOX_CACHE_PATH or the cache_dir configuration key) and reused across
launches. Clearing the cache is always safe; artifacts are re-downloaded
on the next launch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the artifact cache directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir(cmd.Context(), app)
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, dir)
			return nil
		},
	})

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir(cmd.Context(), app)
			if err != nil {
				return err
			}
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
			fmt.Fprintf(app.stdout, "%s Cleared artifact cache at %s\n", SuccessStyle.Render("✓"), dir)
			return nil
		},
	})

	return cacheCmd
}

// cacheDir returns the directory launches actually cache into: the
// configured cache_dir when set, the resolver default otherwise.
func cacheDir(ctx context.Context, app *App) (string, error) {
	cfg, err := loadConfigWithFallback(ctx, app.Config, "", app.stderr)
	if err != nil {
		return "", err
	}
	if cfg.CacheDir != "" {
		return cfg.CacheDir.String(), nil
	}
	return resolve.DefaultCacheDir()
}
