package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dompet/internal/cli"
	"dompet/internal/worker"
)

func newMirrorCmd(opts *rootOptions) *cobra.Command {
	var (
		follow   bool
		interval time.Duration
	)

	c := &cobra.Command{
		Use:   "mirror",
		Short: "Copy the ledger to the configured Google Sheet",
		Long: `Replace the contents of the configured sheet with the CSV export rows.

With --follow the command keeps running, rewriting the sheet on every
transactions-recorded event from AMQP and on a fixed interval. Running it
next to "dompet serve" requires the sqlite backend, since a bolt file is
held open by a single process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cli.GracefulShutdown(cmd.Context(), opts.logger)
			defer cancel()

			return opts.withApp(ctx, func(app *cli.App) error {
				mirror, err := cli.NewMirror(ctx, app.Config)
				if err != nil {
					return err
				}
				w := worker.NewMirrorWorker(app.State.Ledger, mirror, follow)
				if !follow {
					return w.Sync(ctx)
				}

				consumer, err := cli.NewConsumer(app.Config)
				if err != nil {
					return err
				}
				defer consumer.Close()

				g, ctx := errgroup.WithContext(ctx)
				g.Go(func() error {
					err := consumer.ConsumeTransactionsRecorded(ctx, w.HandleTransactionsRecorded)
					if errors.Is(err, context.Canceled) {
						return nil
					}
					return err
				})
				g.Go(func() error {
					return w.Run(ctx, interval)
				})
				opts.logger.InfoContext(ctx, "Following ledger events", "queue", app.Config.AMQPQueue)
				return g.Wait()
			})
		},
	}
	c.Flags().BoolVar(&follow, "follow", false, "keep mirroring on every ledger event")
	c.Flags().DurationVar(&interval, "interval", 5*time.Minute, "full resync interval with --follow")
	return c
}
