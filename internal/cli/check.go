package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/pydoc-gen/internal/validator"
)

func newCheckCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a generated documentation tree",
		RunE: func(_ *cobra.Command, _ []string) error {
			return validator.ValidateDocs(dir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "docs", "Documentation directory to validate")

	return cmd
}
