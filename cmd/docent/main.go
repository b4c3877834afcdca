// Package main provides the docent CLI entry point.
package main

import (
	"os"

	"github.com/docent-ai/docent/internal/adapters/driving/cli"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	if err := cli.Execute(Version); err != nil {
		os.Exit(1)
	}
}
