package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ormgen/ormgen/internal/resolve"
	"github.com/ormgen/ormgen/internal/schema"
	"github.com/ormgen/ormgen/internal/tui"
	"github.com/ormgen/ormgen/internal/validate"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <schema-file>",
	Short: "Browse a schema document interactively",
	Long:  `Open a read-only browser over the tables, fields, and resolved relationship accessors of a schema document.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := schema.LoadFile(args[0])
		if err != nil {
			return err
		}

		if errs := validate.Document(s); errs != nil {
			printValidationErrors(errs)
			return fmt.Errorf("schema validation failed with %d errors", len(errs))
		}

		res, err := resolve.Relationships(s)
		if err != nil {
			return err
		}
		return tui.Run(s, res)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
