// SPDX-License-Identifier: MPL-2.0

// Package entry hands the process off to the engine's exec facility. It is
// the terminal action of a dent run: on success no further code in this
// process runs, and the exit code the caller observes is the replaced
// process's exit code.
package entry

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"dent-cli/internal/container"
)

// DefaultCommand is the interactive login shell used when the caller does
// not supply a command.
var DefaultCommand = []string{"/bin/bash", "-l"}

// Executor builds and performs the final exec hand-off into a running
// container.
type Executor struct {
	engine     container.Engine
	isTerminal func(fd int) bool
	execve     func(argv0 string, argv []string, envv []string) error
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithTerminalCheck sets a custom terminal check for testing.
func WithTerminalCheck(fn func(fd int) bool) ExecutorOption {
	return func(x *Executor) {
		x.isTerminal = fn
	}
}

// WithExecve sets a custom process-replacement function for testing.
func WithExecve(fn func(argv0 string, argv []string, envv []string) error) ExecutorOption {
	return func(x *Executor) {
		x.execve = fn
	}
}

// NewExecutor creates an Executor over the given engine.
func NewExecutor(eng container.Engine, opts ...ExecutorOption) *Executor {
	x := &Executor{
		engine:     eng,
		isTerminal: term.IsTerminal,
		execve:     replaceProcess,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Argv builds the complete argument vector for entering the container:
// interactive always, a pseudo-terminal only when the calling process's
// stdin is itself a terminal, then the requested command (or the default
// login shell).
func (x *Executor) Argv(name string, command []string) []string {
	if len(command) == 0 {
		command = DefaultCommand
	}
	return x.engine.ExecArgv(container.ExecOptions{
		Container:   name,
		Command:     command,
		Interactive: true,
		TTY:         x.isTerminal(int(os.Stdin.Fd())),
	})
}

// Enter replaces the current process image with the engine exec command.
// On success this never returns. A returned error always means the exec
// itself failed (e.g. engine binary not found).
func (x *Executor) Enter(name string, command []string) error {
	argv := x.Argv(name, command)
	if err := x.execve(argv[0], argv, os.Environ()); err != nil {
		return fmt.Errorf("cannot exec %s: %w", argv[0], err)
	}
	return nil
}
