// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newRunCommand creates `launchbox run <tool>[@version] [args...]`.
func newRunCommand(app *App, cfgFile *string, verbose *bool) *cobra.Command {
	var (
		entry  string
		method string
	)

	runCmd := &cobra.Command{
		Use:   "run <tool>[@version] [args...]",
		Short: "Resolve a tool and run it in an isolation boundary",
		Long: `Resolve a tool's package coordinate against the configured repositories,
download and cache its artifacts, and run the requested entry point inside
a fresh isolation boundary.

Omitting the version (or asking for "latest") selects the newest published
version. Arguments after the coordinate are passed to the entry point.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := RunRequest{
				Coordinate: args[0],
				Entry:      entry,
				Method:     method,
				Args:       args[1:],
				ConfigPath: *cfgFile,
			}

			outcome, err := app.Launches.Run(cmd.Context(), req)
			if err != nil {
				return err
			}
			if outcome.Success() {
				return nil
			}

			fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(outcome.Err, *verbose))
			renderIssue(app.stderr, issueForLaunchError(outcome.Err))

			return &ExitError{Code: outcome.ExitCode(), Err: outcome.Err}
		},
	}

	// Args following the coordinate belong to the launched tool, including
	// flag-shaped ones.
	runCmd.Flags().SetInterspersed(false)
	runCmd.Flags().StringVar(&entry, "entry", "", "entry point to invoke (default: the tool's declared default)")
	runCmd.Flags().StringVar(&method, "method", "", "entry point method to invoke (default: main)")

	return runCmd
}
