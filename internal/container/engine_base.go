// SPDX-License-Identifier: MPL-2.0

package container

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// BaseCLIEngineOption configures a BaseCLIEngine.
	BaseCLIEngineOption func(*BaseCLIEngine)

	// BaseCLIEngine provides the common implementation for CLI-based
	// container engines. Docker and Podman engines embed this struct.
	// Methods that are identical across all CLI engines (Inspect, Build,
	// Run, Start, RemoveImage, the argument builders) are implemented
	// here; engine-specific methods (Available, Version) remain on the
	// concrete types.
	BaseCLIEngine struct {
		name        string // engine name for error messages (e.g. "docker")
		binaryPath  string // resolved at construction via exec.LookPath
		prefix      []string
		execCommand ExecCommandFunc
	}
)

// WithName sets the engine name used in error messages.
func WithName(name string) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.name = name
	}
}

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) BaseCLIEngineOption {
	return func(e *BaseCLIEngine) {
		e.execCommand = fn
	}
}

// NewBaseCLIEngine creates a new base engine with the given binary path.
func NewBaseCLIEngine(binaryPath string, opts ...BaseCLIEngineOption) *BaseCLIEngine {
	e := &BaseCLIEngine{
		binaryPath:  binaryPath,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name returns the engine name used in error messages.
func (e *BaseCLIEngine) Name() string {
	return e.name
}

// BinaryPath returns the path to the container engine binary.
func (e *BaseCLIEngine) BinaryPath() string {
	return e.binaryPath
}

// SetCommandPrefix installs the elevation prefix used by every subsequent
// invocation.
func (e *BaseCLIEngine) SetCommandPrefix(prefix []string) {
	e.prefix = prefix
}

// CommandPrefix returns the installed elevation prefix, if any.
func (e *BaseCLIEngine) CommandPrefix() []string {
	return e.prefix
}

// --- Argument Builders ---

// InspectArgs constructs arguments for an inspect command.
//
// Generated command: <binary> inspect --type <kind> <names...>
func (e *BaseCLIEngine) InspectArgs(kind ObjectKind, names ...string) []string {
	args := []string{"inspect", "--type", string(kind)}
	return append(args, names...)
}

// BuildArgs constructs arguments for an image build command.
//
// Generated command: <binary> build [options] <context>
func (e *BaseCLIEngine) BuildArgs(opts BuildOptions) []string {
	args := []string{"build"}

	if opts.Tag != "" {
		args = append(args, "-t", opts.Tag)
	}

	if opts.NoCache {
		args = append(args, "--no-cache")
	}

	args = append(args, opts.ContextDir)

	return args
}

// RunArgs constructs arguments for a container run command.
//
// Generated command: <binary> run [options] <image> [command...]
func (e *BaseCLIEngine) RunArgs(opts RunOptions) []string {
	args := []string{"run"}

	if opts.Detach {
		args = append(args, "-d")
	}

	if opts.Name != "" {
		args = append(args, "--name", opts.Name)
	}

	if opts.Hostname != "" {
		args = append(args, "--hostname", opts.Hostname)
	}

	args = append(args, opts.Image)
	args = append(args, opts.Command...)

	return args
}

// StartArgs constructs arguments for a container start command.
func (e *BaseCLIEngine) StartArgs(name string) []string {
	return []string{"start", name}
}

// RemoveImageArgs constructs arguments for an image remove command.
func (e *BaseCLIEngine) RemoveImageArgs(image string) []string {
	return []string{"rmi", image}
}

// ExecArgs constructs arguments for a container exec command.
//
// Generated command: <binary> exec [options] <container> <command...>
func (e *BaseCLIEngine) ExecArgs(opts ExecOptions) []string {
	args := []string{"exec"}

	if opts.Interactive {
		args = append(args, "-i")
	}

	if opts.TTY {
		args = append(args, "-t")
	}

	args = append(args, opts.Container)
	args = append(args, opts.Command...)

	return args
}

// ExecArgv returns the complete argument vector for entering a container,
// including the command prefix and the engine binary itself. argv[0] is the
// program the caller must exec.
func (e *BaseCLIEngine) ExecArgv(opts ExecOptions) []string {
	argv := make([]string, 0, len(e.prefix)+1+4+len(opts.Command))
	argv = append(argv, e.prefix...)
	argv = append(argv, e.binaryPath)
	argv = append(argv, e.ExecArgs(opts)...)
	return argv
}

// --- Command Execution ---

// CreateCommand creates an exec.Cmd for the given arguments with the command
// prefix applied. This is useful when the caller needs to customize
// stdin/stdout/stderr.
func (e *BaseCLIEngine) CreateCommand(ctx context.Context, args ...string) *exec.Cmd {
	if len(e.prefix) > 0 {
		full := append(append([]string{}, e.prefix[1:]...), e.binaryPath)
		full = append(full, args...)
		return e.execCommand(ctx, e.prefix[0], full...)
	}
	return e.execCommand(ctx, e.binaryPath, args...)
}

// Healthy probes the engine with a lightweight read-only command. Output is
// discarded; only the exit code matters.
func (e *BaseCLIEngine) Healthy(ctx context.Context) bool {
	if e.binaryPath == "" {
		return false
	}
	cmd := e.CreateCommand(ctx, "info")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	return cmd.Run() == nil
}

// Inspect runs the engine's inspect subcommand and decodes its stdout as a
// JSON array of records. The exit code is deliberately ignored: inspecting a
// nonexistent object exits non-zero while still printing a well-formed empty
// array. Stderr is discarded.
func (e *BaseCLIEngine) Inspect(ctx context.Context, kind ObjectKind, names ...string) ([]Record, error) {
	cmd := e.CreateCommand(ctx, e.InspectArgs(kind, names...)...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard

	// The inspect exit code carries no information we do not already get
	// from the decoded array.
	_ = cmd.Run()

	payload := strings.TrimSpace(stdout.String())
	if payload == "" {
		return nil, nil
	}

	var records []Record
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, fmt.Errorf("malformed %s inspect output from %s: %w", kind, e.name, err)
	}
	return records, nil
}

// Build builds an image from a build-context directory. Build output goes to
// opts.Stdout unless quiet; engine diagnostics always pass through live on
// opts.Stderr.
func (e *BaseCLIEngine) Build(ctx context.Context, opts BuildOptions) error {
	cmd := e.CreateCommand(ctx, e.BuildArgs(opts)...)

	cmd.Stdout = opts.Stdout
	if opts.Quiet || opts.Stdout == nil {
		cmd.Stdout = io.Discard
	}
	cmd.Stderr = opts.Stderr
	if opts.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s build of %s failed: %w", e.name, opts.Tag, err)
	}
	return nil
}

// Run creates (and, detached, starts) a container. The engine's echo of the
// new container ID is suppressed when requested; stderr always passes
// through.
func (e *BaseCLIEngine) Run(ctx context.Context, opts RunOptions) error {
	cmd := e.CreateCommand(ctx, e.RunArgs(opts)...)

	cmd.Stdout = os.Stdout
	if opts.SuppressOutput {
		cmd.Stdout = io.Discard
	}
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s run of %s failed: %w", e.name, opts.Image, err)
	}
	return nil
}

// Start starts an existing container. The engine echoes the name it started;
// that echo is suppressed.
func (e *BaseCLIEngine) Start(ctx context.Context, name string) error {
	cmd := e.CreateCommand(ctx, e.StartArgs(name)...)

	cmd.Stdout = io.Discard
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s start of %s failed: %w", e.name, name, err)
	}
	return nil
}

// RemoveImage untags an image.
func (e *BaseCLIEngine) RemoveImage(ctx context.Context, image string) error {
	cmd := e.CreateCommand(ctx, e.RemoveImageArgs(image)...)

	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s rmi of %s failed: %w", e.name, image, err)
	}
	return nil
}
