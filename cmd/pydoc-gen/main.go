// Package main provides the CLI for the Python documentation generator.
package main

import (
	"os"

	"github.com/example/pydoc-gen/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
