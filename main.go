// SPDX-License-Identifier: MPL-2.0

package main

import "github.com/optipack/optipack/cmd/optipack"

func main() {
	cmd.Execute()
}
