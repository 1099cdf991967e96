// SPDX-License-Identifier: MPL-2.0

package container

import (
	"os/exec"
)

// DockerEngine implements the Engine interface using the Docker CLI.
// It embeds BaseCLIEngine for common CLI operations.
type DockerEngine struct {
	*BaseCLIEngine
}

// NewDockerEngine creates a new Docker engine.
func NewDockerEngine(opts ...BaseCLIEngineOption) *DockerEngine {
	path, _ := exec.LookPath("docker")

	allOpts := append([]BaseCLIEngineOption{WithName(string(EngineTypeDocker))}, opts...)

	return &DockerEngine{
		BaseCLIEngine: NewBaseCLIEngine(path, allOpts...),
	}
}

// Available checks if the Docker binary exists on the system. Whether the
// daemon actually answers (possibly only under elevation) is a separate
// question answered by Healthy.
func (e *DockerEngine) Available() bool {
	return e.BinaryPath() != ""
}
