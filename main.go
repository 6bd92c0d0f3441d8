// SPDX-License-Identifier: MPL-2.0

package main

import cmd "gomaint/cmd/gomaint"

func main() {
	cmd.Execute()
}
