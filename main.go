// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/argparseutils/argparseutils/cmd/argparseutils"

func main() {
	cmd.Execute()
}
