// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"launchbox-cli/internal/boundary"
	"launchbox-cli/pkg/artifact"
)

type (
	// Invoker locates a named entry point inside a boundary and runs it
	// synchronously. Implementations must never let the entry point's
	// own failure type escape: every failure comes back as *Error.
	Invoker interface {
		Invoke(ctx context.Context, b *boundary.Boundary, spec EntryPointSpec, streams IO) error
	}

	// ProcessInvoker is the default Invoker. Exec methods run as child
	// processes, shell methods run in the embedded interpreter; both
	// get a scrubbed environment built from the boundary alone and a
	// private per-launch scratch directory that is removed afterwards.
	ProcessInvoker struct{}
)

// NewProcessInvoker creates the default invoker.
func NewProcessInvoker() *ProcessInvoker {
	return &ProcessInvoker{}
}

// Invoke resolves spec within the boundary's search order and runs the
// selected method. The entry point's return value is discarded; only
// its success or failure signal is propagated. Any failure in the
// invocation path (lookup, signature mismatch, materialization,
// execution, or a panic) is wrapped into a single *Error with the
// fixed failure exit code, never the raw original error.
func (iv *ProcessInvoker) Invoke(ctx context.Context, b *boundary.Boundary, spec EntryPointSpec, streams IO) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newError("panic during entry point invocation", fmt.Errorf("%v", r))
		}
	}()

	name := spec.Name
	if name == "" {
		var derr error
		name, derr = b.DefaultEntry()
		if derr != nil {
			return newError("error locating default entry point", derr)
		}
	}

	entry, lerr := b.LookupEntry(name)
	if lerr != nil {
		return newError(fmt.Sprintf("error locating entry point %s", name), lerr)
	}

	method, merr := entry.Method(spec.MethodName(), spec.ArgTypes)
	if merr != nil {
		return newError(fmt.Sprintf("error locating entry point %s", name), merr)
	}

	scratch, serr := os.MkdirTemp("", "launchbox-run-*")
	if serr != nil {
		return newError("error preparing launch scratch directory", serr)
	}
	defer os.RemoveAll(scratch)

	args := append(append([]string{}, method.Args...), spec.Args...)

	var runErr error
	switch method.Kind {
	case artifact.MethodExec:
		runErr = iv.runExec(ctx, entry, method, args, scratch, streams)
	case artifact.MethodShell:
		runErr = iv.runShell(ctx, method.Script, args, scratch, streams)
	default:
		runErr = fmt.Errorf("unsupported method kind %q", method.Kind)
	}
	if runErr != nil {
		return newError(fmt.Sprintf("error running %s.%s", name, spec.MethodName()), runErr)
	}
	return nil
}

// runExec materializes the executable member into the scratch directory
// and runs it as a child process.
func (iv *ProcessInvoker) runExec(ctx context.Context, entry *boundary.Entry, method artifact.Method, args []string, scratch string, streams IO) error {
	execPath, err := entry.Materialize(method, scratch)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, execPath, args...)
	cmd.Dir = scratch
	cmd.Env = scrubbedEnv(scratch)
	cmd.Stdout = streams.Stdout
	cmd.Stderr = streams.Stderr
	cmd.Stdin = streams.Stdin

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("entry point exited with status %d", exitErr.ExitCode())
		}
		return err
	}
	return nil
}

// runShell parses the inline script and runs it in the embedded
// interpreter, so shell entry points work identically on every host
// without consulting the host's own shell.
func (iv *ProcessInvoker) runShell(ctx context.Context, script string, args []string, scratch string, streams IO) error {
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), "entrypoint")
	if err != nil {
		return fmt.Errorf("script syntax error: %w", err)
	}

	opts := []interp.RunnerOption{
		interp.Dir(scratch),
		interp.Env(expand.ListEnviron(scrubbedEnv(scratch)...)),
		interp.StdIO(streams.Stdin, streams.Stdout, streams.Stderr),
	}
	if len(args) > 0 {
		// "--" stops option parsing so args like "-v" survive as $1.
		opts = append(opts, interp.Params(append([]string{"--"}, args...)...))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, prog); err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return fmt.Errorf("entry point exited with status %d", status)
		}
		return err
	}
	return nil
}

// scrubbedEnv is the isolated environment handed to invoked entry
// points: nothing from the host environment leaks through except a
// working PATH rooted in the scratch directory.
func scrubbedEnv(scratch string) []string {
	return []string{
		"PATH=" + scratch,
		"HOME=" + scratch,
		"TMPDIR=" + scratch,
		"LAUNCHBOX=1",
	}
}
