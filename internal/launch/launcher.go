// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"launchbox-cli/internal/boundary"
	"launchbox-cli/internal/resolve"
	"launchbox-cli/pkg/artifact"
)

// Launcher drives one coordinate through the full launch pipeline.
// The zero value is not usable; populate Resolver and Invoker.
type Launcher struct {
	// Resolver turns a coordinate into local artifact paths.
	Resolver resolve.Resolver
	// Repositories are consulted by the resolver, in order.
	Repositories []resolve.Repository
	// Ancestor is the fallback scope for the launched boundary. The
	// host passes its own boundary's ancestor here, not itself, so the
	// launched tool never resolves against host-level artifacts.
	Ancestor *boundary.Boundary
	// Invoker runs the selected entry point.
	Invoker Invoker
	// OnResolved, if set, is called with the resolved version after
	// resolution succeeds and before invocation starts.
	OnResolved func(version string)
	// IO is wired through to the invoked entry point.
	IO IO
}

// Launch resolves coord, builds a boundary over the resolved artifacts,
// and invokes the entry point named by spec. The three phases run
// strictly in sequence and the returned Outcome is terminal.
//
// A resolution failure short-circuits the launch: no boundary is built,
// nothing is invoked, and Outcome.Err carries the resolver's own error.
// Every later failure is a *Error with the fixed failure exit code.
func (l *Launcher) Launch(ctx context.Context, coord artifact.Coordinate, spec EntryPointSpec) Outcome {
	out := Outcome{ID: uuid.NewString(), State: StateResolving}

	resolved, err := l.Resolver.Resolve(ctx, coord, l.Repositories)
	if err != nil {
		out.Err = err
		return out
	}
	out.State = StateLaunching
	if len(resolved) == 0 {
		out.Err = newError(fmt.Sprintf("error launching %s", coord),
			fmt.Errorf("resolver returned no artifacts"))
		return out
	}
	out.ResolvedVersion = resolved[0].Version
	if l.OnResolved != nil {
		l.OnResolved(out.ResolvedVersion)
	}

	paths := make([]string, len(resolved))
	for i, r := range resolved {
		paths[i] = r.Path
	}

	b, err := boundary.New(paths, l.Ancestor)
	if err != nil {
		out.Err = newError(fmt.Sprintf("error launching %s", coord), err)
		return out
	}
	defer b.Close()

	err = l.Invoker.Invoke(ctx, b, spec, l.IO)
	out.State = StateTerminated
	if err != nil {
		if le, ok := err.(*Error); ok {
			out.Err = le
		} else {
			out.Err = newError(fmt.Sprintf("error launching %s", coord), err)
		}
	}
	return out
}
