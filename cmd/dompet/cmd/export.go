package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"dompet/internal/cli"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output string

	c := &cobra.Command{
		Use:   "export",
		Short: "Export the whole ledger as CSV",
		Long: `Write every transaction to a CSV file named transaction-finance_YYYY-MM-DD.csv
in the current directory, or to --output. Use --output - for stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(app *cli.App) error {
				var buf bytes.Buffer
				name, err := app.Service.ExportCSV(&buf)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), output, name, buf.Bytes())
			})
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "", "output path, - for stdout")
	return c
}

// writeOutput writes data to stdout for "-", to path when set, or to name.
func writeOutput(stdout io.Writer, path, name string, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if path == "" {
		path = name
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}
