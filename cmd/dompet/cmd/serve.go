package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"dompet/internal/cache"
	"dompet/internal/cli"
	apphttp "dompet/internal/http"
	"dompet/internal/log"
	"dompet/internal/worker"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var mirrorInterval time.Duration

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Long: `Serve the ledger over HTTP on $PORT.

When a spreadsheet is configured the ledger is mirrored to it from this
process after every change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := cli.GracefulShutdown(cmd.Context(), opts.logger)
			defer cancel()

			return opts.withApp(ctx, func(app *cli.App) error {
				var mirrorWorker *worker.MirrorWorker
				if app.Config.MirrorEnabled() {
					mirror, err := cli.NewMirror(ctx, app.Config)
					if err != nil {
						return err
					}
					mirrorWorker = worker.NewMirrorWorker(app.State.Ledger, mirror, false)
				}

				g, ctx := errgroup.WithContext(ctx)

				srv := apphttp.NewServer(":"+app.Config.Port, app.Service, opts.logger.WithComponent(log.ComponentHTTP),
					apphttp.WithWriteRateLimit(app.Config.WriteRateLimit))
				g.Go(func() error {
					return srv.Run(ctx, app.Config.ShutdownTimeout)
				})

				sweeper := cache.NewManager(app.History)
				g.Go(func() error {
					return sweeper.Run(ctx, app.Config.CacheTTL)
				})

				if mirrorWorker != nil {
					g.Go(func() error {
						return mirrorWorker.Run(ctx, mirrorInterval)
					})
				}

				opts.logger.InfoContext(ctx, "Starting dompet server", "port", app.Config.Port, "backend", app.Config.DataBackend)
				err := g.Wait()
				opts.logger.Info("Server stopped")
				return err
			})
		},
	}
	c.Flags().DurationVar(&mirrorInterval, "mirror-interval", 30*time.Second, "how often the spreadsheet mirror is checked")
	return c
}
