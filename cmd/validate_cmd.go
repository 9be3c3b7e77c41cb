package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ormgen/ormgen/internal/schema"
	"github.com/ormgen/ormgen/internal/validate"
)

var validateCmd = &cobra.Command{
	Use:   "validate <schema-file>",
	Short: "Validate a schema document",
	Long:  `Check a schema document for structural and referential errors and report every problem found in one pass.`,
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

		fmt.Println(okStyle.Render("Schema is valid"))
		fmt.Println(dimStyle.Render(s.Summary()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
