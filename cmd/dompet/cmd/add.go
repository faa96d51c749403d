package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"dompet/internal/cli"
	"dompet/internal/core"
	"dompet/internal/ledger"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	var (
		account, kind, amount, note, category, date string
	)

	c := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Long: `Record one income or expense.

A business income is stored on Bank Jago together with the four split
records it produces.

Example:
  dompet add --account Cash --kind expense --amount 50000 --note "makan siang" --category Makanan`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := core.ParseAmount(amount)
			if err != nil {
				return err
			}
			in := ledger.Input{
				Account:  core.Account(account),
				Kind:     core.Kind(strings.ToLower(strings.TrimSpace(kind))),
				Amount:   value,
				Note:     note,
				Category: category,
				Date:     date,
			}
			return opts.withApp(cmd.Context(), func(app *cli.App) error {
				records, err := app.Service.Record(cmd.Context(), in)
				if err != nil {
					return err
				}
				return printTransactions(cmd.OutOrStdout(), records)
			})
		},
	}

	c.Flags().StringVar(&account, "account", "", "account name ("+accountList()+")")
	c.Flags().StringVar(&kind, "kind", "", "income or expense")
	c.Flags().StringVar(&amount, "amount", "", "amount, dot or comma decimal separator")
	c.Flags().StringVar(&note, "note", "", "description")
	c.Flags().StringVar(&category, "category", "", "category name")
	c.Flags().StringVar(&date, "date", time.Now().Format(core.DateLayout), "date as YYYY-MM-DD")
	for _, name := range []string{"account", "kind", "amount", "note", "category"} {
		_ = c.MarkFlagRequired(name)
	}
	return c
}

func accountList() string {
	names := make([]string, 0, len(core.Accounts()))
	for _, a := range core.Accounts() {
		names = append(names, a.String())
	}
	return strings.Join(names, ", ")
}

func printTransactions(w io.Writer, txs []core.Transaction) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tACCOUNT\tKIND\tAMOUNT\tCATEGORY\tNOTE")
	for _, t := range txs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Date, t.Account, t.Kind, core.FormatRupiah(t.Amount), t.Category, t.Note)
	}
	return tw.Flush()
}
