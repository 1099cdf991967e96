// SPDX-License-Identifier: MPL-2.0

package container

import (
	"os/exec"
)

// podmanBinaryNames lists podman binaries in preference order.
var podmanBinaryNames = []string{"podman", "podman-remote"}

// findPodmanBinary locates a podman binary, preferring "podman" over
// "podman-remote". Returns "" when neither is on PATH.
func findPodmanBinary() string {
	for _, name := range podmanBinaryNames {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

// PodmanEngine implements the Engine interface using the Podman CLI.
// It embeds BaseCLIEngine for common CLI operations.
type PodmanEngine struct {
	*BaseCLIEngine
}

// NewPodmanEngine creates a new Podman engine.
func NewPodmanEngine(opts ...BaseCLIEngineOption) *PodmanEngine {
	path := findPodmanBinary()

	allOpts := append([]BaseCLIEngineOption{WithName(string(EngineTypePodman))}, opts...)

	return &PodmanEngine{
		BaseCLIEngine: NewBaseCLIEngine(path, allOpts...),
	}
}

// Available checks if a Podman binary exists on the system.
func (e *PodmanEngine) Available() bool {
	return e.BinaryPath() != ""
}
