// Package cli provides the command-line interface for the documentation
// generator.
package cli

import (
	"github.com/spf13/cobra"
)

// Execute creates and runs the root command.
func Execute() error {
	rootCmd := &cobra.Command{
		Use:   "pydoc-gen",
		Short: "Generate Markdown API documentation from Python source",
	}

	rootCmd.AddCommand(newGenerateCommand())
	rootCmd.AddCommand(newCheckCommand())

	return rootCmd.Execute()
}
