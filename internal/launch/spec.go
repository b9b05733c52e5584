// SPDX-License-Identifier: MPL-2.0

package launch

import (
	"fmt"
	"io"
	"os"
)

// FailureExitCode is the fixed exit status reported for every launch
// failure, regardless of what went wrong inside the boundary.
const FailureExitCode = 1

// Launch states. A launch visits them strictly in order and never
// revisits one; StateTerminated is terminal.
const (
	StateResolving  State = "resolving"
	StateLaunching  State = "launching"
	StateTerminated State = "terminated"
)

type (
	// State identifies a phase of the launch state machine.
	State string

	// EntryPointSpec names the entry point to invoke and the arguments
	// to hand it. It is constructed by the host command and consumed
	// exactly once per launch.
	EntryPointSpec struct {
		// Name is the qualified entry point name, e.g. "example.Main".
		// Empty means "the boundary's default entry point".
		Name string
		// Method is the method to invoke; empty defaults to "main".
		Method string
		// ArgTypes is the expected parameter signature. When non-nil it
		// must match the method's declared params exactly.
		ArgTypes []string
		// Args are the argument values passed to the method.
		Args []string
	}

	// IO bundles the streams wired into the invoked entry point.
	IO struct {
		Stdout io.Writer
		Stderr io.Writer
		Stdin  io.Reader
	}

	// Error is the single failure kind reported for anything that goes
	// wrong between successful resolution and entry point return. The
	// original condition is retained as the cause for diagnostics but
	// its type identity never drives host control flow.
	Error struct {
		// Message describes the failed launch for the user.
		Message string
		// ExitCode is always FailureExitCode.
		ExitCode int
		// Err is the underlying cause.
		Err error
	}

	// Outcome is the terminal result of one launch.
	Outcome struct {
		// ID uniquely identifies the launch attempt.
		ID string
		// ResolvedVersion is the primary artifact's version, empty when
		// resolution itself failed.
		ResolvedVersion string
		// State is the phase the launch ended in: StateResolving when
		// resolution failed, StateLaunching when the boundary could not
		// be built, StateTerminated once the invoker has returned.
		State State
		// Err is nil exactly when the entry point was invoked and
		// returned without error: either a *resolve.ResolutionError or
		// a *launch.Error otherwise.
		Err error
	}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Err }

// newError wraps a cause into the uniform launch failure.
func newError(message string, cause error) *Error {
	return &Error{Message: message, ExitCode: FailureExitCode, Err: cause}
}

// MethodName returns the method to invoke, defaulting to "main".
func (s EntryPointSpec) MethodName() string {
	if s.Method == "" {
		return "main"
	}
	return s.Method
}

// Success reports whether the entry point ran and returned cleanly.
func (o Outcome) Success() bool { return o.Err == nil }

// ExitCode maps the outcome to a process exit status for the host:
// 0 on success, the fixed launch failure code for launch errors, and 1
// for resolution failures.
func (o Outcome) ExitCode() int {
	if o.Err == nil {
		return 0
	}
	if le, ok := o.Err.(*Error); ok {
		return le.ExitCode
	}
	return 1
}

// DefaultIO wires the invoked entry point to the host process streams.
func DefaultIO() IO {
	return IO{Stdout: os.Stdout, Stderr: os.Stderr, Stdin: os.Stdin}
}
