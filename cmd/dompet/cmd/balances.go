package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"dompet/internal/cli"
	"dompet/internal/core"
)

func newBalancesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "balances",
		Short: "Show account balances and pockets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(app *cli.App) error {
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
				for _, b := range app.Service.Balances().Ordered() {
					fmt.Fprintf(tw, "%s\t%s\t\n", b.Account, core.FormatRupiah(b.Balance))
				}
				p := app.Service.Pockets()
				fmt.Fprintln(tw, "\t\t")
				fmt.Fprintf(tw, "Savings\t%s\t\n", core.FormatRupiah(p.Savings))
				fmt.Fprintf(tw, "Capital\t%s\t\n", core.FormatRupiah(p.Capital))
				fmt.Fprintf(tw, "Discretionary\t%s\t\n", core.FormatRupiah(p.Discretionary))
				return tw.Flush()
			})
		},
	}
}
