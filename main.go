// SPDX-License-Identifier: MPL-2.0

package main

import cmd "dent-cli/cmd/dent"

func main() {
	cmd.Execute()
}
