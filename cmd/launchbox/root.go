// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"launchbox-cli/internal/issue"

	"github.com/charmbracelet/fang"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCommand creates the launchbox root command with all subcommands
// attached. The verbose and config flags are persistent so every subcommand
// inherits them.
func newRootCommand(app *App) *cobra.Command {
	var (
		verbose bool
		cfgFile string
	)

	rootCmd := &cobra.Command{
		Use:   "launchbox",
		Short: "Run versioned tools in isolated boundaries",
		Long: TitleStyle.Render("launchbox") + SubtitleStyle.Render(" - Run versioned tools in isolated boundaries") + `

launchbox resolves a tool's package coordinate against your configured
repositories, downloads and caches its artifacts, and runs the requested
entry point inside a fresh isolation boundary. Launched tools see their
own artifacts plus the shared platform scope, and nothing else.

` + SubtitleStyle.Render("Quick Start:") + `
  1. Add a repository with: launchbox config init
  2. Run a tool with: launchbox run <tool>[@version]

` + SubtitleStyle.Render("Examples:") + `
  launchbox run example-tool            Run the latest published version
  launchbox run example-tool@2.3.0      Pin an exact version
  launchbox inspect example-tool        List the tool's entry points
  launchbox config show                 Show current configuration`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initLogging(verbose)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/launchbox/config.cue)")

	rootCmd.AddCommand(newRunCommand(app, &cfgFile, &verbose))
	rootCmd.AddCommand(newInspectCommand(app, &cfgFile))
	rootCmd.AddCommand(newConfigCommand(app))
	rootCmd.AddCommand(newCacheCommand(app))

	return rootCmd
}

// initLogging routes slog through a charm log handler on stderr. Launchbox's
// own diagnostics must never mix into the launched tool's stdout.
func initLogging(verbose bool) {
	level := charmlog.WarnLevel
	if verbose {
		level = charmlog.DebugLevel
	}
	handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: false,
		Level:           level,
	})
	slog.SetDefault(slog.New(handler))
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the app and root command and runs the CLI. This is called
// by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	// Use fang.Execute for enhanced Cobra styling.
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version.
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
