// Package ledger is the append-only transaction store and the ingestion
// pipeline that feeds it, including the business-income split.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"dompet/internal/core"
	"dompet/internal/store"
)

// Input is a user-entered transaction before ids are assigned.
type Input struct {
	Account  core.Account `json:"account"`
	Kind     core.Kind    `json:"kind"`
	Amount   float64      `json:"amount"`
	Note     string       `json:"note"`
	Category string       `json:"category"`
	Date     string       `json:"date"`
}

// Ledger holds every transaction in insertion order. Records are never
// edited or removed, and every mutation persists the whole list.
type Ledger struct {
	mu       sync.Mutex
	kv       store.KeyValue
	ids      IDSource
	txs      []core.Transaction
	revision int64
}

// New returns an empty ledger. A nil ids uses a Sequence starting at 1.
func New(kv store.KeyValue, ids IDSource) *Ledger {
	if ids == nil {
		ids = NewSequence(0)
	}
	return &Ledger{kv: kv, ids: ids}
}

// Load replaces the in-memory ledger with the persisted one and moves the id
// source past the largest persisted id. The revision only moves when the
// persisted ledger differs in length, which for an append-only list means it
// differs at all.
func (l *Ledger) Load(ctx context.Context) error {
	raw, ok, err := l.kv.Load(ctx, store.KeyTransactions)
	if err != nil {
		return &core.PersistenceError{Op: "load", Key: store.KeyTransactions, Err: err}
	}

	var txs []core.Transaction
	if ok {
		if err := json.Unmarshal(raw, &txs); err != nil {
			return &core.PersistenceError{Op: "decode", Key: store.KeyTransactions, Err: err}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for _, t := range txs {
		l.ids.Advance(t.ID)
	}
	if len(txs) != len(l.txs) {
		l.revision++
	}
	l.txs = txs

	slog.InfoContext(ctx, "Ledger loaded", "transactions", len(txs))
	return nil
}

// Ingest validates in, applies the business-income split when it applies,
// assigns ids and persists the ledger. The records become visible only after
// the save succeeded; on a store failure a *core.PersistenceError is returned
// and the ledger is unchanged.
func (l *Ledger) Ingest(ctx context.Context, in Input) ([]core.Transaction, error) {
	base := core.Transaction{
		Account:  core.Account(strings.TrimSpace(string(in.Account))),
		Kind:     in.Kind,
		Amount:   in.Amount,
		Note:     strings.TrimSpace(in.Note),
		Category: strings.TrimSpace(in.Category),
		Date:     strings.TrimSpace(in.Date),
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	l.flag(ctx, base)

	records := []core.Transaction{base}
	if IsBusinessIncome(base) {
		records[0].Account = core.BankJago
		records = append(records, Split(base)...)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range records {
		records[i].ID = l.ids.Next()
	}

	next := make([]core.Transaction, 0, len(l.txs)+len(records))
	next = append(next, l.txs...)
	next = append(next, records...)

	data, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("encode ledger: %w", err)
	}
	if err := l.kv.Save(ctx, store.KeyTransactions, data); err != nil {
		return nil, &core.PersistenceError{Op: "save", Key: store.KeyTransactions, Err: err}
	}
	l.txs = next
	l.revision++

	slog.InfoContext(ctx, "Transaction recorded",
		"id", records[0].ID,
		"account", records[0].Account,
		"kind", records[0].Kind,
		"amount", records[0].Amount,
		"category", records[0].Category,
		"records", len(records))

	return append([]core.Transaction(nil), records...), nil
}

// flag logs inputs that are accepted but look suspicious.
func (l *Ledger) flag(ctx context.Context, t core.Transaction) {
	if t.Amount == 0 {
		slog.WarnContext(ctx, "Zero amount accepted", "note", t.Note, "date", t.Date)
	}
	if _, ok := t.ParsedDate(); !ok {
		slog.WarnContext(ctx, "Date is not an ISO calendar date", "date", t.Date, "note", t.Note)
	}
	if !t.Account.Known() {
		slog.WarnContext(ctx, "Unknown account, excluded from balances", "account", t.Account)
	}
}

// All returns a copy of every transaction in insertion order.
func (l *Ledger) All() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Transaction(nil), l.txs...)
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.txs)
}

// Revision changes every time the visible ledger changes.
func (l *Ledger) Revision() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.revision
}
