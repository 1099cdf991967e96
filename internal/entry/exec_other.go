// SPDX-License-Identifier: MPL-2.0

//go:build !unix

package entry

import (
	"fmt"
	"runtime"
)

// replaceProcess is unavailable without execve semantics.
func replaceProcess(_ string, _ []string, _ []string) error {
	return fmt.Errorf("process replacement is not supported on %s", runtime.GOOS)
}
