// Package main is the entry point for the Turbo CLI.
package main

import (
	"os"

	"github.com/ardriveapp/turbo-cli/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
