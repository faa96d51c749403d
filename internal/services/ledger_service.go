package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"dompet/internal/amqp"
	"dompet/internal/cache"
	"dompet/internal/core"
	"dompet/internal/export"
	"dompet/internal/filter"
	"dompet/internal/ledger"
	"dompet/internal/summary"
)

// Publisher announces committed ingestions.
type Publisher interface {
	PublishTransactionsRecorded(ctx context.Context, msg *amqp.TransactionsRecordedMessage) error
}

// Dashboard is everything the main screen shows at once.
type Dashboard struct {
	Balances []summary.AccountBalance `json:"balances"`
	Pockets  summary.Pockets          `json:"pockets"`
	Criteria filter.Criteria          `json:"criteria"`
	Totals   summary.Totals           `json:"totals"`
	History  []core.Transaction       `json:"history"`
}

// LedgerService orchestrates ledger operations, event publishing and the history cache.
type LedgerService struct {
	state     *State
	publisher Publisher
	history   *cache.HistoryCache
	now       func() time.Time
}

// NewLedgerService builds the service. publisher and history may be nil.
func NewLedgerService(state *State, publisher Publisher, history *cache.HistoryCache) *LedgerService {
	return &LedgerService{
		state:     state,
		publisher: publisher,
		history:   history,
		now:       time.Now,
	}
}

func (s *LedgerService) State() *State {
	return s.state
}

// Record ingests one user transaction and publishes the resulting ids.
// A publish failure is logged; the records are already committed.
func (s *LedgerService) Record(ctx context.Context, in ledger.Input) ([]core.Transaction, error) {
	records, err := s.state.Ledger.Ingest(ctx, in)
	if err != nil {
		return nil, err
	}
	if !s.state.Categories.Contains(records[0].Category) {
		slog.WarnContext(ctx, "Transaction uses an unregistered category", "category", records[0].Category)
	}

	if err := s.publish(ctx, records); err != nil {
		slog.ErrorContext(ctx, "Failed to publish transactions recorded message",
			"id", records[0].ID, "error", err)
	}
	return records, nil
}

func (s *LedgerService) publish(ctx context.Context, records []core.Transaction) error {
	if s.publisher == nil {
		return nil
	}
	ids := make([]int64, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	msg := amqp.NewTransactionsRecordedMessage(ids, records[0].IsBusiness(), s.state.Ledger.Revision())
	return s.publisher.PublishTransactionsRecorded(ctx, msg)
}

// RegisterCategory adds a category and returns the updated list.
func (s *LedgerService) RegisterCategory(ctx context.Context, name string) ([]string, error) {
	return s.state.Categories.Register(ctx, name)
}

func (s *LedgerService) Categories() []string {
	return s.state.Categories.List()
}

// Balances are always computed over the whole ledger.
func (s *LedgerService) Balances() summary.Balances {
	return summary.ComputeBalances(s.state.Ledger.All())
}

// Pockets ignore the view selection.
func (s *LedgerService) Pockets() summary.Pockets {
	txs := s.state.Ledger.All()
	return summary.ComputePockets(txs, summary.ComputeBalances(txs))
}

// History returns the filtered and sorted view for c.
func (s *LedgerService) History(c filter.Criteria) []core.Transaction {
	rev := s.state.Ledger.Revision()
	if s.history != nil {
		if txs, ok := s.history.Get(rev, c); ok {
			return txs
		}
	}
	txs := filter.Apply(s.state.Ledger.All(), c)
	if s.history != nil {
		s.history.Set(rev, c, txs)
	}
	return txs
}

// Dashboard combines balances, pockets and the history for c.
func (s *LedgerService) Dashboard(c filter.Criteria) Dashboard {
	txs := s.state.Ledger.All()
	balances := summary.ComputeBalances(txs)
	history := s.History(c)
	return Dashboard{
		Balances: balances.Ordered(),
		Pockets:  summary.ComputePockets(txs, balances),
		Criteria: c,
		Totals:   summary.ComputeTotals(history),
		History:  history,
	}
}

// Years lists the year selector values, newest first.
func (s *LedgerService) Years() []int {
	return filter.Years(s.state.Ledger.All(), s.now())
}

// ExportCSV writes the entire unfiltered ledger and returns the file name to use.
func (s *LedgerService) ExportCSV(w io.Writer) (string, error) {
	if err := export.WriteCSV(w, s.state.Ledger.All()); err != nil {
		return "", fmt.Errorf("export csv: %w", err)
	}
	return export.Filename(s.now()), nil
}

// Report builds the printable report for c.
func (s *LedgerService) Report(c filter.Criteria) export.Report {
	return export.BuildReport(s.History(c), c, s.now())
}

// Close releases the publisher when it holds a connection.
func (s *LedgerService) Close() error {
	if c, ok := s.publisher.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("close publisher: %w", err)
		}
	}
	return nil
}
