// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrCannotElevate is the sentinel error wrapped by ElevationError.
var ErrCannotElevate = errors.New("cannot elevate privileges")

// ElevationError is returned when the engine cannot be invoked directly and
// the elevation probe also failed.
type ElevationError struct {
	Engine string
	Cause  error
}

func (e *ElevationError) Error() string {
	return fmt.Sprintf("cannot run %s and cannot elevate privileges: %v", e.Engine, e.Cause)
}

// Unwrap returns ErrCannotElevate for errors.Is() compatibility.
func (e *ElevationError) Unwrap() error { return ErrCannotElevate }

// ElevationResolver decides, at most once per run, whether engine invocations
// need an elevation prefix.
type ElevationResolver struct {
	// Command is the prefix installed on the engine when elevation is
	// needed (e.g. ["sudo"]).
	Command []string
	// Probe validates and caches elevation credentials (e.g. ["sudo",
	// "-v"]). It runs with inherited stdio so credential prompts reach
	// the user.
	Probe []string

	execCommand ExecCommandFunc
}

// NewElevationResolver creates a resolver for the given elevation command.
// The probe is the command followed by "-v", matching sudo's validate mode.
func NewElevationResolver(command []string, opts ...ElevationResolverOption) *ElevationResolver {
	r := &ElevationResolver{
		Command:     command,
		Probe:       append(append([]string{}, command...), "-v"),
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ElevationResolverOption configures an ElevationResolver.
type ElevationResolverOption func(*ElevationResolver)

// WithElevationExecCommand sets a custom exec command function for testing.
func WithElevationExecCommand(fn ExecCommandFunc) ElevationResolverOption {
	return func(r *ElevationResolver) {
		r.execCommand = fn
	}
}

// Resolve probes the engine and, when direct invocation fails, validates
// elevation credentials and installs the prefix on the engine. It must run
// before any lifecycle operation.
func (r *ElevationResolver) Resolve(ctx context.Context, eng Engine) error {
	if eng.Healthy(ctx) {
		return nil
	}

	cmd := r.execCommand(ctx, r.Probe[0], r.Probe[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return &ElevationError{Engine: eng.Name(), Cause: err}
	}

	eng.SetCommandPrefix(r.Command)
	return nil
}
