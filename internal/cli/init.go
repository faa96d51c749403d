// Package cli provides the initialization shared by the dompet commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"dompet/internal/amqp"
	"dompet/internal/backend"
	"dompet/internal/cache"
	"dompet/internal/config"
	"dompet/internal/ledger"
	"dompet/internal/log"
	"dompet/internal/services"
	"dompet/internal/sheets"
	gsheet "dompet/internal/sheets/google"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig reads the YAML file at path when one is given, otherwise the
// environment, and validates the result.
func LoadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		if cfg, err = config.LoadFile(path); err != nil {
			return nil, err
		}
	} else {
		cfg = config.Load()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogger builds the logger described by cfg and installs it as the
// slog default.
func SetupLogger(cfg *config.Config) (*log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	lc := log.DefaultConfig()
	lc.Level = level
	lc.Format = cfg.LogFormat
	lc.Output = os.Stderr
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger, nil
}

// GracefulShutdown returns a context cancelled on SIGINT or SIGTERM.
func GracefulShutdown(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// App is one loaded ledger together with the resources backing it.
type App struct {
	Config  *config.Config
	Logger  *log.Logger
	State   *services.State
	Service *services.LedgerService
	History *cache.HistoryCache

	backend *backend.BackendResult
}

// Open creates the configured store, loads the ledger from it and, when
// events are enabled, connects the publisher.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*App, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, err
	}

	state := services.NewState(res.Store, ledger.NewSequence(0))
	if err := state.Load(ctx); err != nil {
		_ = res.Close()
		return nil, err
	}
	logger.InfoContext(ctx, "Ledger loaded",
		log.FieldRecords, state.Ledger.Len(),
		"backend", bcfg.Type)

	var publisher services.Publisher
	if cfg.EventsEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			_ = res.Close()
			return nil, fmt.Errorf("connect amqp: %w", err)
		}
		publisher = client
		logger.InfoContext(ctx, "Publishing ledger events", "exchange", cfg.AMQPExchange)
	}

	history := cache.NewHistoryCache(cfg.CacheSize, cfg.CacheTTL)
	return &App{
		Config:  cfg,
		Logger:  logger,
		State:   state,
		Service: services.NewLedgerService(state, publisher, history),
		History: history,
		backend: res,
	}, nil
}

// Close releases the publisher and the store.
func (a *App) Close() error {
	svcErr := a.Service.Close()
	if err := a.backend.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return svcErr
}

// NewMirror connects to the configured spreadsheet.
func NewMirror(ctx context.Context, cfg *config.Config) (sheets.LedgerMirror, error) {
	if !cfg.MirrorEnabled() {
		return nil, fmt.Errorf("no spreadsheet configured: set GOOGLE_SPREADSHEET_ID")
	}
	return gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:      cfg.GoogleSpreadsheetID,
		SheetName:          cfg.GoogleSheetName,
		ServiceAccountJSON: cfg.GoogleServiceAccountJSON,
		ServiceAccountFile: cfg.GoogleServiceAccountFile,
	})
}

// NewConsumer connects an AMQP client for reading ledger events.
func NewConsumer(cfg *config.Config) (*amqp.Client, error) {
	if !cfg.EventsEnabled() {
		return nil, fmt.Errorf("no broker configured: set AMQP_URL")
	}
	return amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
}
