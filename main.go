// SPDX-License-Identifier: MPL-2.0

// launchbox resolves versioned tool packages and runs them in isolated
// boundaries.
package main

import cmd "launchbox-cli/cmd/launchbox"

func main() {
	cmd.Execute()
}
