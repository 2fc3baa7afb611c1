package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cmmoran/buildergen/pkg/action/check"
	"github.com/cmmoran/buildergen/pkg/generator"
)

func init() {
	var checkCmd = NewCheckCommand()
	rootCmd.AddCommand(checkCmd)
}

func NewCheckCommand() *cobra.Command {
	var options = &generator.Options{}

	// checkCmd represents the buildergen check command
	var checkCmd = &cobra.Command{
		Use:   "check",
		Short: "check builders are up to date",
		Long:  "Render builders in memory and report every file that differs from what is on disk or in the manifest",
		RunE: func(c *cobra.Command, args []string) error {
			if err := loadOptions(c, options); err != nil {
				return err
			}
			drifts, err := check.Check(filesystem, options, slog.Default())
			if len(drifts) > 0 {
				c.Print(check.Format(drifts))
			}
			return err
		},
	}
	bindOptions(checkCmd, options)

	return checkCmd
}
