package cmd

import (
	"bytes"

	"github.com/spf13/cobra"

	"dompet/internal/cli"
	"dompet/internal/export"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	var (
		flags  criteriaFlags
		xlsx   bool
		output string
	)

	c := &cobra.Command{
		Use:   "report",
		Short: "Print the financial report for a month, year and mode",
		Long: `Print the report for the selected view, or save it as an Excel workbook
with --xlsx.

Example:
  dompet report --month 5 --year 2024
  dompet report --mode business --xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			crit, err := flags.criteria()
			if err != nil {
				return err
			}
			return opts.withApp(cmd.Context(), func(app *cli.App) error {
				report := app.Service.Report(crit)
				if !xlsx {
					if output == "" {
						return export.WriteReportText(cmd.OutOrStdout(), report)
					}
					var buf bytes.Buffer
					if err := export.WriteReportText(&buf, report); err != nil {
						return err
					}
					return writeOutput(cmd.OutOrStdout(), output, output, buf.Bytes())
				}
				var buf bytes.Buffer
				if err := export.WriteReportXLSX(&buf, report); err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), output, export.ReportXLSXFilename(report), buf.Bytes())
			})
		},
	}
	flags.register(c)
	c.Flags().BoolVar(&xlsx, "xlsx", false, "write an .xlsx workbook instead of text")
	c.Flags().StringVarP(&output, "output", "o", "", "output path, - for stdout")
	return c
}
