package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ormgen/ormgen/internal/codegen"
	"github.com/ormgen/ormgen/internal/config"
	"github.com/ormgen/ormgen/internal/logging"
	"github.com/ormgen/ormgen/internal/schema"
	"github.com/ormgen/ormgen/internal/validate"
	"github.com/ormgen/ormgen/internal/writer"
)

var (
	generateFormat  string
	generateDiagram bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <schema-file> <output-dir>",
	Short: "Generate ORM models from a schema document",
	Long:  `Validate a schema document and generate model source files for the chosen format.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		schemaFile, outputDir := args[0], args[1]

		cfg := loadConfig()
		log, err := logging.Setup(resolveLogLevel(cfg), cfg.Logging.Directory)
		if err != nil {
			return err
		}

		format := generateFormat
		if format == "" {
			format = cfg.Generate.Format
		}
		f, ok := codegen.FormatFor(format)
		if !ok {
			return fmt.Errorf("unsupported format %q; run `ormgen list-formats`", format)
		}

		s, err := schema.LoadFile(schemaFile)
		if err != nil {
			return err
		}
		log.Info("schema loaded", "file", schemaFile, "summary", s.Summary())

		if errs := validate.Document(s); errs != nil {
			printValidationErrors(errs)
			return fmt.Errorf("schema validation failed with %d errors", len(errs))
		}

		units, err := codegen.Generate(s, f.Backend, codegen.Options{
			Diagram: generateDiagram || cfg.Generate.Diagram,
		})
		if err != nil {
			var genErr *codegen.GenerationError
			if errors.As(err, &genErr) {
				fmt.Println(errStyle.Render("generation failed: ") + genErr.Err.Error())
			}
			return err
		}

		results, err := writer.WriteUnits(outputDir, units, cfg.Generate.Workers)
		if err != nil {
			return err
		}

		written := 0
		for _, r := range results {
			if r.Err != nil {
				fmt.Println(errStyle.Render("error: ") + r.Path + ": " + r.Err.Error())
				continue
			}
			written++
			fmt.Println(okStyle.Render("wrote ") + pathStyle.Render(r.Path))
		}

		log.Info("generation complete", "format", format, "files", written)
		fmt.Printf("\n%d files created in %s (%s)\n",
			written, outputDir, time.Since(start).Round(time.Millisecond))

		if written < len(results) {
			return fmt.Errorf("%d of %d files failed to write", len(results)-written, len(results))
		}
		return nil
	},
}

func loadConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return config.Default()
	}
	return cfg
}

func resolveLogLevel(cfg *config.Config) string {
	if logLevel != "" {
		return logLevel
	}
	return cfg.Logging.Level
}

func printValidationErrors(errs validate.Errors) {
	fmt.Println(errStyle.Render(fmt.Sprintf("schema is invalid (%d errors):", len(errs))))
	for _, e := range errs {
		fmt.Println("  " + pathStyle.Render(e.Path) + ": " + e.Message)
	}
}

func init() {
	generateCmd.Flags().StringVar(&generateFormat, "format", "", "output format (prisma, django, sqlalchemy)")
	generateCmd.Flags().BoolVar(&generateDiagram, "diagram", false, "also write a Mermaid relationship diagram")
	rootCmd.AddCommand(generateCmd)
}
