// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"launchbox-cli/internal/boundary"
	"launchbox-cli/internal/config"
	"launchbox-cli/internal/launch"
	"launchbox-cli/internal/resolve"
	"launchbox-cli/pkg/artifact"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: all Cobra command handlers receive an App reference and
	// delegate business logic through its service interfaces (Config, Launches).
	App struct {
		Config   ConfigProvider
		Launches LaunchService
		stdout   io.Writer
		stderr   io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp. Tests can supply mock
	// implementations to isolate specific service behavior.
	Dependencies struct {
		Config   ConfigProvider
		Launches LaunchService
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// RunRequest captures all launch inputs as an immutable value. It is the
	// request-scoped data contract between the CLI layer (Cobra handlers) and
	// the LaunchService implementation.
	RunRequest struct {
		// Coordinate is the raw "name[@version]" argument.
		Coordinate string
		// Entry is the --entry override. Zero value means the tool's default.
		Entry string
		// Method is the --method override. Zero value means "main".
		Method string
		// Args are positional arguments handed to the entry point.
		Args []string
		// ConfigPath is the explicit --config flag value.
		ConfigPath string
	}

	// ConfigProvider loads configuration from explicit options.
	// This abstraction enables testing with custom config sources or mock
	// implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// LaunchService runs one launch end to end. The returned error covers
	// pre-launch failures only (bad coordinate, broken config); everything
	// from resolution onward is reported through the Outcome.
	LaunchService interface {
		Run(ctx context.Context, req RunRequest) (launch.Outcome, error)
	}

	// launchService is the production LaunchService. It assembles the
	// resolver, the host's boundary chain, and the launcher from loaded
	// configuration on every request.
	launchService struct {
		config ConfigProvider
		stdout io.Writer
		stderr io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Launches == nil {
		deps.Launches = &launchService{
			config: deps.Config,
			stdout: deps.Stdout,
			stderr: deps.Stderr,
		}
	}

	return &App{
		Config:   deps.Config,
		Launches: deps.Launches,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}, nil
}

// loadConfigWithFallback loads configuration via the provider. On failure with
// the default path it returns defaults with a warning so the CLI stays
// operational; an explicit --config path must load or the whole request fails.
func loadConfigWithFallback(ctx context.Context, provider ConfigProvider, configPath string, stderr io.Writer) (*config.Config, error) {
	cfg, err := provider.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err == nil {
		return cfg, nil
	}

	if configPath != "" {
		return nil, err
	}

	fmt.Fprintln(stderr, WarningStyle.Render("Warning: ")+fmt.Sprintf("failed to load config, using defaults: %v", err))
	return config.DefaultConfig(), nil
}

// repositories converts configured entries into resolver repositories,
// preserving order.
func repositories(cfg *config.Config) []resolve.Repository {
	repos := make([]resolve.Repository, len(cfg.Repositories))
	for i, entry := range cfg.Repositories {
		repos[i] = resolve.Repository{
			Name:     entry.Name.String(),
			Location: entry.Location.String(),
		}
	}
	return repos
}

// hostChain builds the host's boundary chain from configuration: a platform
// boundary over the shared artifacts, and above it a host boundary over the
// host's private artifacts. Launched tools get the platform boundary as their
// ancestor, never the host boundary, so host-private entry points stay
// invisible to them.
//
// The returned closer releases both boundaries and is always non-nil.
func hostChain(cfg *config.Config) (ancestor *boundary.Boundary, closer func(), err error) {
	var platformB, hostB *boundary.Boundary
	closer = func() {
		if hostB != nil {
			_ = hostB.Close()
		}
		if platformB != nil {
			_ = platformB.Close()
		}
	}

	if len(cfg.PlatformPaths) > 0 {
		paths := make([]string, len(cfg.PlatformPaths))
		for i, p := range cfg.PlatformPaths {
			paths[i] = p.String()
		}
		platformB, err = boundary.New(paths, nil)
		if err != nil {
			return nil, closer, fmt.Errorf("platform scope: %w", err)
		}
	}

	if len(cfg.HostPaths) > 0 {
		paths := make([]string, len(cfg.HostPaths))
		for i, p := range cfg.HostPaths {
			paths[i] = p.String()
		}
		hostB, err = boundary.New(paths, platformB)
		if err != nil {
			closer()
			return nil, func() {}, fmt.Errorf("host scope: %w", err)
		}
	}

	if hostB != nil {
		return hostB.Ancestor(), closer, nil
	}
	return platformB, closer, nil
}

// Run resolves the request's coordinate and launches the selected entry point.
func (s *launchService) Run(ctx context.Context, req RunRequest) (launch.Outcome, error) {
	coord, err := artifact.ParseCoordinate(req.Coordinate)
	if err != nil {
		return launch.Outcome{}, err
	}

	cfg, err := loadConfigWithFallback(ctx, s.config, req.ConfigPath, s.stderr)
	if err != nil {
		return launch.Outcome{}, err
	}

	resolver, err := resolve.NewCachingResolver(cfg.CacheDir.String())
	if err != nil {
		return launch.Outcome{}, fmt.Errorf("failed to prepare artifact cache: %w", err)
	}
	slog.Debug("artifact cache ready", "dir", resolver.CacheDir())

	ancestor, closeChain, err := hostChain(cfg)
	if err != nil {
		return launch.Outcome{}, err
	}
	defer closeChain()

	fmt.Fprintf(s.stderr, "Checking for %s...\n", coord.Name)

	launcher := &launch.Launcher{
		Resolver:     resolver,
		Repositories: repositories(cfg),
		Ancestor:     ancestor,
		Invoker:      launch.NewProcessInvoker(),
		OnResolved: func(version string) {
			fmt.Fprintf(s.stderr, "Starting %s at version: %s\n", coord.Name, version)
		},
		IO: launch.IO{Stdout: s.stdout, Stderr: s.stderr, Stdin: os.Stdin},
	}

	spec := launch.EntryPointSpec{
		Name:   req.Entry,
		Method: req.Method,
		Args:   req.Args,
	}

	return launcher.Launch(ctx, coord, spec), nil
}
