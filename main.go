// SPDX-License-Identifier: MPL-2.0

// wrench is a workspace task dispatcher for Rust projects: it fronts the
// build tool with short aliases, applies per-target toolchain environment
// profiles, and provisions the rust-analyzer language server.
package main

import "wrench-cli/cmd/wrench"

func main() {
	cmd.Execute()
}
