// Package main provides the docbridge CLI entrypoint.
package main

import (
	"os"

	"github.com/docbridge-ai/docbridge/cmd/docbridge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
