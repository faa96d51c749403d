package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"dompet/internal/cli"
)

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	c := &cobra.Command{
		Use:   "categories",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(cmd.Context(), func(app *cli.App) error {
				for _, name := range app.Service.Categories() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}

	c.AddCommand(&cobra.Command{
		Use:   "add NAME",
		Short: "Register a category",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.Join(args, " ")
			return opts.withApp(cmd.Context(), func(app *cli.App) error {
				if _, err := app.Service.RegisterCategory(cmd.Context(), name); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added category %q\n", strings.TrimSpace(name))
				return nil
			})
		},
	})
	return c
}
