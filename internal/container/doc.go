// SPDX-License-Identifier: MPL-2.0

// Package container provides an abstraction layer over CLI-based container
// engines (Docker/Podman). All image and container state lives in the engine
// itself; this package only shells out to the engine binary, builds argument
// vectors, and parses what the engine prints.
package container
