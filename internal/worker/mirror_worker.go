package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dompet/internal/amqp"
	"dompet/internal/core"
	"dompet/internal/export"
	"dompet/internal/sheets"
)

// LedgerSource is the part of the ledger the mirror needs.
type LedgerSource interface {
	All() []core.Transaction
	Revision() int64
	Load(ctx context.Context) error
}

// MirrorWorker keeps the spreadsheet mirror equal to the flat-file export of the ledger.
type MirrorWorker struct {
	source LedgerSource
	mirror sheets.LedgerMirror
	// reload re-reads the store before each sync, for a worker running in
	// another process than the one that ingests.
	reload bool

	mu     sync.Mutex
	synced bool
	last   int64
}

func NewMirrorWorker(source LedgerSource, mirror sheets.LedgerMirror, reload bool) *MirrorWorker {
	return &MirrorWorker{
		source: source,
		mirror: mirror,
		reload: reload,
	}
}

// HandleTransactionsRecorded rewrites the mirror after an ingestion.
func (w *MirrorWorker) HandleTransactionsRecorded(ctx context.Context, msg *amqp.TransactionsRecordedMessage) error {
	slog.InfoContext(ctx, "Mirroring recorded transactions",
		"ids", msg.IDs,
		"business", msg.Business)

	if err := w.Sync(ctx); err != nil {
		return fmt.Errorf("mirror ledger: %w", err)
	}
	return nil
}

// Sync writes the whole ledger to the mirror unless the mirror already holds
// the current revision.
func (w *MirrorWorker) Sync(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.reload {
		if err := w.source.Load(ctx); err != nil {
			return fmt.Errorf("reload ledger: %w", err)
		}
	}

	rev := w.source.Revision()
	if w.synced && rev == w.last {
		return nil
	}

	txs := w.source.All()
	if err := w.mirror.Replace(ctx, export.Rows(txs)); err != nil {
		return err
	}
	w.synced = true
	w.last = rev

	slog.InfoContext(ctx, "Ledger mirrored", "transactions", len(txs), "revision", rev)
	return nil
}

// Run syncs every interval until ctx is done. It is the safety net for lost
// messages; failures are logged and retried on the next tick.
func (w *MirrorWorker) Run(ctx context.Context, interval time.Duration) error {
	if err := w.Sync(ctx); err != nil {
		slog.ErrorContext(ctx, "Initial mirror sync failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := w.Sync(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic mirror sync failed", "error", err)
			}
		}
	}
}
