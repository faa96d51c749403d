// Package http serves the ledger as a JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"dompet/internal/log"
	"dompet/internal/middleware/ratelimit"
	"dompet/internal/middleware/security"
	"dompet/internal/services"
)

type Server struct {
	http.Server
	svc      *services.LedgerService
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
}

type options struct {
	writesPerMinute int
}

// Option customizes NewServer.
type Option func(*options)

// WithWriteRateLimit caps POST and PUT requests per client per minute.
func WithWriteRateLimit(perMinute int) Option {
	return func(o *options) { o.writesPerMinute = perMinute }
}

// NewServer wires the routes on a chi router.
func NewServer(addr string, svc *services.LedgerService, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	o := options{writesPerMinute: ratelimit.DefaultConfig().RequestsPerMinute}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		svc:      svc,
		logger:   logger,
		limiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: o.writesPerMinute}),
		detector: security.NewDetector(),
	}
	limitWrites := s.limiter.Middleware(s.detector.ClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate_limited", Message: "too many requests, retry in a minute"})
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(log.Middleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.detector.Middleware)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/transactions", s.handleListTransactions)
		r.With(limitWrites).Post("/transactions", s.handleCreateTransaction)
		r.Get("/balances", s.handleBalances)
		r.Get("/pockets", s.handlePockets)
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/categories", s.handleListCategories)
		r.With(limitWrites).Post("/categories", s.handleCreateCategory)
		r.Get("/years", s.handleYears)
		r.Get("/view", s.handleGetView)
		r.With(limitWrites).Put("/view", s.handleSetView)
		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/report", s.handleReport)
		r.Get("/report.xlsx", s.handleReportXLSX)
	})

	s.Server = http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64KB
	}
	return s
}

// Run serves until ctx is done, then shuts down within timeout.
func (s *Server) Run(ctx context.Context, timeout time.Duration) error {
	defer s.limiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.InfoContext(ctx, "HTTP server listening", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	s.logger.InfoContext(ctx, "HTTP server shutting down", log.FieldOperation, log.OpShutdown)
	return s.Shutdown(shutdownCtx)
}
