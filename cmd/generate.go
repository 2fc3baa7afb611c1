package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cmmoran/buildergen/pkg/action/generate"
	"github.com/cmmoran/buildergen/pkg/generator"
)

func init() {
	var generateCmd = NewGenerateCommand()
	rootCmd.AddCommand(generateCmd)
}

func NewGenerateCommand() *cobra.Command {
	var options = &generator.Options{}

	// generateCmd represents the buildergen generate command
	var generateCmd = &cobra.Command{
		Use:   "generate",
		Short: "generate builders",
		Long:  "Generate builder classes for every buildable class in the facts inputs and record them in the manifest",
		RunE: func(c *cobra.Command, args []string) error {
			if err := loadOptions(c, options); err != nil {
				return err
			}
			report, err := generate.Generate(filesystem, options, slog.Default())
			if report != nil {
				c.Println(report.Summary())
			}
			return err
		},
	}
	bindOptions(generateCmd, options)

	return generateCmd
}
