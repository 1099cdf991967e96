// SPDX-License-Identifier: MPL-2.0

//go:build unix

package entry

import "golang.org/x/sys/unix"

// replaceProcess replaces the current process image, inheriting open file
// descriptors. It only returns on failure.
func replaceProcess(argv0 string, argv []string, envv []string) error {
	return unix.Exec(argv0, argv, envv)
}
