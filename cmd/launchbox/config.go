// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"launchbox-cli/internal/config"
	"launchbox-cli/internal/issue"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// newConfigCommand creates the `launchbox config` command tree.
// Subcommands that read configuration use the App's ConfigProvider and
// write through the App's injected streams.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage launchbox configuration",
		Long: `Manage launchbox configuration.

Configuration is stored in:
  - Linux: ~/.config/launchbox/config.cue
  - macOS: ~/Library/Application Support/launchbox/config.cue
  - Windows: %APPDATA%\launchbox\config.cue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(cmd.Context(), app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath(app)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.Context(), app, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{})
			if err != nil {
				return err
			}

			cueContent := config.GenerateCUE(cfg)
			fmt.Fprint(app.stdout, cueContent)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{})
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(app.stderr, rendered)
		return err
	}

	headerStyle := TitleStyle
	keyStyle := EntryStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, headerStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	// The provider does not cache resolved paths; each call derives from
	// the standard config directory.
	cfgDir, dirErr := config.ConfigDir()
	if dirErr == nil && fileExistsCheck(cfgDir+"/config.cue") {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), cfgDir+"/config.cue")
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("repositories"))
	if len(cfg.Repositories) == 0 {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(none configured)"))
	} else {
		for _, repo := range cfg.Repositories {
			fmt.Fprintf(app.stdout, "  - %s: %s\n", valueStyle.Render(repo.Name.String()), repo.Location.String())
		}
	}

	fmt.Fprintln(app.stdout)
	if cfg.CacheDir != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("cache_dir"), valueStyle.Render(cfg.CacheDir.String()))
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("cache_dir"), SubtitleStyle.Render("(default: ~/.launchbox/artifacts)"))
	}

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("platform_paths"))
	printScopePaths(app, cfg.PlatformPaths, valueStyle)

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("host_paths"))
	printScopePaths(app, cfg.HostPaths, valueStyle)

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(app.stdout, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))
	fmt.Fprintf(app.stdout, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func printScopePaths(app *App, paths []config.ScopePath, valueStyle lipgloss.Style) {
	if len(paths) == 0 {
		fmt.Fprintf(app.stdout, "  %s\n", SubtitleStyle.Render("(none configured)"))
		return
	}
	for _, p := range paths {
		fmt.Fprintf(app.stdout, "  - %s\n", valueStyle.Render(p.String()))
	}
}

func initConfig(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Created default configuration at %s/config.cue\n", SuccessStyle.Render("✓"), cfgDir)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s/config.cue\n", cfgDir)
	return nil
}

func setConfigValue(ctx context.Context, app *App, key, value string) error {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{})
	if err != nil {
		return err
	}

	switch key {
	case "cache_dir":
		cfg.CacheDir = config.CacheDirPath(value)

	case "ui.verbose":
		cfg.UI.Verbose = value == "true" || value == "1"

	case "ui.color_scheme":
		scheme := config.ColorScheme(value)
		if valid, _ := scheme.IsValid(); !valid {
			return fmt.Errorf("invalid ui.color_scheme: must be 'auto', 'dark', or 'light'")
		}
		cfg.UI.ColorScheme = scheme

	default:
		return fmt.Errorf("unknown configuration key: %s\nValid keys: cache_dir, ui.verbose, ui.color_scheme", key)
	}

	if valid, errs := cfg.IsValid(); !valid {
		return fmt.Errorf("invalid configuration: %v", errs[0])
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(app.stdout, "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
