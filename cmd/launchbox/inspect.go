// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"launchbox-cli/internal/boundary"
	"launchbox-cli/internal/launch"
	"launchbox-cli/internal/resolve"
	"launchbox-cli/pkg/artifact"

	"github.com/spf13/cobra"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// newInspectCommand creates `launchbox inspect <tool>[@version]`.
func newInspectCommand(app *App, cfgFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <tool>[@version]",
		Short: "Show a tool's entry points without running it",
		Long: `Resolve a tool's package coordinate, download its artifacts into the
cache, and list the entry points and methods its manifests declare.
Nothing is invoked.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			coord, err := artifact.ParseCoordinate(args[0])
			if err != nil {
				return err
			}

			cfg, err := loadConfigWithFallback(cmd.Context(), app.Config, *cfgFile, app.stderr)
			if err != nil {
				return err
			}

			resolver, err := resolve.NewCachingResolver(cfg.CacheDir.String())
			if err != nil {
				return fmt.Errorf("failed to prepare artifact cache: %w", err)
			}

			resolved, err := resolver.Resolve(cmd.Context(), coord, repositories(cfg))
			if err != nil {
				fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+err.Error())
				renderIssue(app.stderr, issueForLaunchError(err))
				return &ExitError{Code: launch.FailureExitCode, Err: err}
			}

			paths := make([]string, len(resolved))
			for i, art := range resolved {
				paths[i] = art.Path
			}
			b, err := boundary.New(paths, nil)
			if err != nil {
				return err
			}
			defer func() { _ = b.Close() }()

			manifests, err := b.Manifests()
			if err != nil {
				return err
			}

			fmt.Fprintln(app.stdout, TitleStyle.Render(coord.Name)+SubtitleStyle.Render(" @ "+resolved[0].Version))
			printManifests(app, manifests)
			return nil
		},
	}
}

func printManifests(app *App, manifests []*artifact.Manifest) {
	for _, m := range manifests {
		if m.Description != "" {
			fmt.Fprintln(app.stdout, SubtitleStyle.Render(m.Description))
		}
		fmt.Fprintln(app.stdout)

		names := maps.Keys(m.Entrypoints)
		slices.Sort(names)
		for _, name := range names {
			marker := "  "
			if name == m.DefaultEntrypoint {
				marker = SuccessStyle.Render("* ")
			}
			ep := m.Entrypoints[name]
			fmt.Fprintln(app.stdout, marker+EntryStyle.Render(name))
			if ep.Description != "" {
				fmt.Fprintln(app.stdout, "    "+SubtitleStyle.Render(ep.Description))
			}

			methods := maps.Keys(ep.Methods)
			slices.Sort(methods)
			for _, mn := range methods {
				method := ep.Methods[mn]
				sig := mn + "(" + strings.Join(method.Params, ", ") + ")"
				fmt.Fprintf(app.stdout, "    %s  %s\n", sig, VerboseStyle.Render(method.Kind))
			}
		}
	}
}
