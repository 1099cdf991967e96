// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"fmt"
	"io"
)

// ObjectKind identifies the kind of engine object an inspect targets.
type ObjectKind string

const (
	// KindImage inspects images.
	KindImage ObjectKind = "image"
	// KindContainer inspects containers.
	KindContainer ObjectKind = "container"
)

// Engine defines the operations dent needs from a container engine CLI.
type Engine interface {
	// Name returns the engine name (docker or podman).
	Name() string
	// BinaryPath returns the resolved path of the engine binary.
	BinaryPath() string
	// Available checks if the engine binary exists on the system.
	Available() bool
	// Healthy reports whether the engine daemon answers a read-only probe
	// with the current command prefix.
	Healthy(ctx context.Context) bool
	// SetCommandPrefix installs the elevation prefix (e.g. ["sudo"]) used
	// by every subsequent invocation. Resolved at most once per run.
	SetCommandPrefix(prefix []string)
	// CommandPrefix returns the installed elevation prefix, if any.
	CommandPrefix() []string

	// Inspect runs the engine's inspect subcommand for the given object
	// kind and names and decodes the JSON array it prints. A non-zero exit
	// is not an error: inspecting a missing object legitimately fails with
	// an empty array on stdout and a diagnostic on stderr, which is
	// discarded. A payload that does not decode is an internal error.
	Inspect(ctx context.Context, kind ObjectKind, names ...string) ([]Record, error)
	// Build builds an image from a build-context directory.
	Build(ctx context.Context, opts BuildOptions) error
	// Run creates and starts a container.
	Run(ctx context.Context, opts RunOptions) error
	// Start starts an existing, stopped container. The engine's echo of
	// the container name is suppressed.
	Start(ctx context.Context, name string) error
	// RemoveImage untags an image. Callers that only need a best-effort
	// untag discard the returned error deliberately.
	RemoveImage(ctx context.Context, image string) error

	// ExecArgv returns the full argument vector (command prefix, binary,
	// and exec arguments) for entering a running container. The caller
	// replaces the current process with it rather than spawning a child.
	ExecArgv(opts ExecOptions) []string
}

// Record is the subset of the engine's inspect output dent acts on.
type Record struct {
	// ID is the object identifier.
	ID string `json:"Id"`
	// Name is the object name (containers only; leading slash preserved
	// as printed by the engine).
	Name string `json:"Name"`
	// State is the container state (containers only).
	State RecordState `json:"State"`
}

// RecordState is the container state block of an inspect record.
type RecordState struct {
	// Running reports whether the container process is running.
	Running bool `json:"Running"`
	// Status is the engine's textual status (e.g. "running", "exited").
	Status string `json:"Status"`
}

// BuildOptions contains options for building an image.
type BuildOptions struct {
	// ContextDir is the build context directory.
	ContextDir string
	// Tag is the image tag applied to the result.
	Tag string
	// NoCache disables the build cache.
	NoCache bool
	// Quiet suppresses the engine's build output.
	Quiet bool
	// Stdout is where build output is written when not quiet.
	Stdout io.Writer
	// Stderr is where engine diagnostics are written. Always live, never
	// captured, to aid diagnosis of failed builds.
	Stderr io.Writer
}

// RunOptions contains options for creating a container.
type RunOptions struct {
	// Image is the image to run.
	Image string
	// Name is the container name.
	Name string
	// Hostname is the container hostname. dent always sets it to the
	// container name so the environment is addressable by the same word.
	Hostname string
	// Detach runs the container in the background.
	Detach bool
	// Command is the initial command and its arguments.
	Command []string
	// SuppressOutput discards the engine's stdout (the echoed container
	// ID). Stderr is always passed through.
	SuppressOutput bool
}

// ExecOptions describes a command to execute inside a running container.
type ExecOptions struct {
	// Container is the target container name.
	Container string
	// Command is the command and its arguments. Must not be empty.
	Command []string
	// Interactive keeps stdin open (-i). Always set by dent.
	Interactive bool
	// TTY allocates a pseudo-terminal (-t). Set only when the calling
	// process's stdin is itself a terminal.
	TTY bool
}

// EngineType identifies the container engine type.
type EngineType string

const (
	// EngineTypeDocker selects the Docker CLI.
	EngineTypeDocker EngineType = "docker"
	// EngineTypePodman selects the Podman CLI.
	EngineTypePodman EngineType = "podman"
)

// ErrEngineNotAvailable is returned when no usable container engine is found.
type ErrEngineNotAvailable struct {
	Engine string
	Reason string
}

func (e *ErrEngineNotAvailable) Error() string {
	return fmt.Sprintf("container engine '%s' is not available: %s", e.Engine, e.Reason)
}

// NewEngine creates a container engine of the preferred type, falling back to
// the other CLI when the preferred one is not installed.
func NewEngine(preferred EngineType) (Engine, error) {
	switch preferred {
	case EngineTypeDocker:
		docker := NewDockerEngine()
		if docker.Available() {
			return docker, nil
		}
		podman := NewPodmanEngine()
		if podman.Available() {
			return podman, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "docker",
			Reason: "docker is not installed, and podman fallback is also not available",
		}

	case EngineTypePodman:
		podman := NewPodmanEngine()
		if podman.Available() {
			return podman, nil
		}
		docker := NewDockerEngine()
		if docker.Available() {
			return docker, nil
		}
		return nil, &ErrEngineNotAvailable{
			Engine: "podman",
			Reason: "podman is not installed, and docker fallback is also not available",
		}

	default:
		return nil, fmt.Errorf("unknown container engine type: %s", preferred)
	}
}
