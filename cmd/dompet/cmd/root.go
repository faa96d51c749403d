// Package cmd provides the dompet CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dompet/internal/cli"
	"dompet/internal/config"
	"dompet/internal/log"
)

type rootOptions struct {
	cfgFile string
	debug   bool

	cfg    *config.Config
	logger *log.Logger
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "dompet",
		Short: "Personal and business finance ledger",
		Long: `dompet records income and expenses across a fixed set of accounts.

Business income (category "Bisnis") is split automatically: 30% moves to
savings on SeaBank, 20% to discretionary spending on DANA and the rest stays
in Bank Jago as capital.

Example:
  dompet add --account GoPay --kind income --amount 1000000 --note "project X" --category Bisnis
  dompet history --mode business --month 5 --year 2024
  dompet serve`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cli.LoadEnvFile()
			cfg, err := cli.LoadConfig(opts.cfgFile)
			if err != nil {
				return err
			}
			if opts.debug {
				cfg.LogLevel = "debug"
			}
			logger, err := cli.SetupLogger(cfg)
			if err != nil {
				return err
			}
			opts.cfg, opts.logger = cfg, logger
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "YAML config file (default: environment and .env)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newAddCmd(opts),
		newBalancesCmd(opts),
		newHistoryCmd(opts),
		newCategoriesCmd(opts),
		newExportCmd(opts),
		newReportCmd(opts),
		newServeCmd(opts),
		newMirrorCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// withApp opens the ledger for the duration of fn.
func (o *rootOptions) withApp(ctx context.Context, fn func(*cli.App) error) error {
	app, err := cli.Open(ctx, o.cfg, o.logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			o.logger.Warn("Failed to close ledger", log.FieldError, err)
		}
	}()
	return fn(app)
}
