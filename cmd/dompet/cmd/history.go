package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"dompet/internal/cli"
	"dompet/internal/core"
	"dompet/internal/filter"
)

type criteriaFlags struct {
	month, year, mode string
}

func (f *criteriaFlags) register(c *cobra.Command) {
	c.Flags().StringVar(&f.month, "month", filter.All, "month 1-12 or all")
	c.Flags().StringVar(&f.year, "year", filter.All, "four digit year or all")
	c.Flags().StringVar(&f.mode, "mode", string(filter.Personal), "personal or business")
}

func (f *criteriaFlags) criteria() (filter.Criteria, error) {
	return filter.Parse(f.month, f.year, f.mode)
}

func newHistoryCmd(opts *rootOptions) *cobra.Command {
	var flags criteriaFlags

	c := &cobra.Command{
		Use:   "history",
		Short: "List transactions for a month, year and mode",
		Long: `List transactions newest first.

Personal mode shows everything outside the Bisnis category, business mode
shows only Bisnis records including the automatic splits.

Example:
  dompet history --mode business --month 5 --year 2024`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			crit, err := flags.criteria()
			if err != nil {
				return err
			}
			return opts.withApp(cmd.Context(), func(app *cli.App) error {
				out := cmd.OutOrStdout()
				txs := app.Service.History(crit)
				if len(txs) == 0 {
					fmt.Fprintln(out, "No transactions.")
					return nil
				}
				if err := printTransactions(out, txs); err != nil {
					return err
				}
				report := app.Service.Report(crit)
				fmt.Fprintf(out, "\nIncome %s  Expense %s  Net %s\n",
					core.FormatRupiah(report.Totals.Income),
					core.FormatRupiah(report.Totals.Expense),
					core.FormatRupiah(report.Totals.Net))
				return nil
			})
		},
	}
	flags.register(c)
	return c
}
