// Package main is the entry point for the ecsfleet CLI.
//
// ecsfleet drives a named fleet of Seeweb ECS servers to a requested state:
// a running count, fully stopped, or fully terminated. Readiness is gated
// on network and SSH probes, not just the provider's status flag.
//
// Commands: up, stop, down, status, version.
package main

import (
	"fmt"
	"os"

	"github.com/davidem/ecsfleet/cmd/ecsfleet/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
