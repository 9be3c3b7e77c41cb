package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ormgen/ormgen/internal/codegen"
)

var listFormatsCmd = &cobra.Command{
	Use:   "list-formats",
	Short: "List supported output formats",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, f := range codegen.Formats() {
			fmt.Printf("%s - %s (%s, %s)\n",
				okStyle.Render(string(f.Backend)), f.Name, f.Framework, f.Extension)
			fmt.Println("  " + dimStyle.Render(f.Description))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listFormatsCmd)
}
