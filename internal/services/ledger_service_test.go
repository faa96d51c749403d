package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"dompet/internal/amqp"
	"dompet/internal/cache"
	"dompet/internal/core"
	"dompet/internal/filter"
	"dompet/internal/ledger"
	"dompet/internal/store/memory"
)

type fakePublisher struct {
	mu     sync.Mutex
	msgs   []*amqp.TransactionsRecordedMessage
	err    error
	closed bool
}

func (p *fakePublisher) PublishTransactionsRecorded(_ context.Context, msg *amqp.TransactionsRecordedMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *fakePublisher) Close() error {
	p.closed = true
	return nil
}

func newService(t *testing.T, pub Publisher) (*LedgerService, *memory.Store) {
	t.Helper()
	kv := memory.New()
	state := NewState(kv, ledger.NewSequence(0))
	if err := state.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	svc := NewLedgerService(state, pub, cache.NewHistoryCache(16, time.Minute))
	svc.now = func() time.Time { return time.Date(2024, 5, 3, 10, 0, 0, 0, time.UTC) }
	return svc, kv
}

var (
	businessIncome = ledger.Input{Account: core.GoPay, Kind: core.Income, Amount: 1000000, Note: "Bisnis project X", Category: "Bisnis", Date: "2024-05-01"}
	lunch          = ledger.Input{Account: core.Cash, Kind: core.Expense, Amount: 50000, Note: "makan siang", Category: "Makanan", Date: "2024-05-02"}
)

func TestRecordPublishesIDs(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newService(t, pub)

	records, err := svc.Record(context.Background(), businessIncome)
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	if len(pub.msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(pub.msgs))
	}
	msg := pub.msgs[0]
	if !msg.Business || len(msg.IDs) != 5 || msg.IDs[0] != records[0].ID || msg.IDs[4] != records[4].ID {
		t.Fatalf("unexpected message %+v", msg)
	}

	b := svc.Balances()
	if b[core.BankJago] != 500000 || b[core.SeaBank] != 300000 || b[core.DANA] != 200000 || b[core.GoPay] != 0 {
		t.Fatalf("unexpected balances %v", b)
	}
}

func TestRecordSurvivesPublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc, _ := newService(t, pub)

	records, err := svc.Record(context.Background(), lunch)
	if err != nil {
		t.Fatalf("publish failure must not fail the ingestion: %v", err)
	}
	if len(records) != 1 || svc.State().Ledger.Len() != 1 {
		t.Fatalf("record should be committed")
	}
	if svc.Balances()[core.Cash] != -50000 {
		t.Fatalf("unexpected cash balance %v", svc.Balances()[core.Cash])
	}
}

func TestRecordPersistenceFailure(t *testing.T) {
	pub := &fakePublisher{}
	svc, kv := newService(t, pub)
	kv.SaveErr = errors.New("quota exceeded")

	_, err := svc.Record(context.Background(), lunch)
	if !errors.Is(err, core.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if svc.State().Ledger.Len() != 0 || len(pub.msgs) != 0 {
		t.Fatal("nothing should be committed or published")
	}
}

func TestRecordValidation(t *testing.T) {
	svc, _ := newService(t, nil)
	bad := lunch
	bad.Note = "  "
	if _, err := svc.Record(context.Background(), bad); !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHistoryInvalidatedByRecord(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	personal := filter.Criteria{Mode: filter.Personal}

	if got := svc.History(personal); len(got) != 0 {
		t.Fatalf("expected empty history, got %v", got)
	}
	if _, err := svc.Record(ctx, lunch); err != nil {
		t.Fatalf("record: %v", err)
	}
	if got := svc.History(personal); len(got) != 1 {
		t.Fatalf("cached view should be invalidated, got %v", got)
	}
	if _, err := svc.Record(ctx, businessIncome); err != nil {
		t.Fatalf("record: %v", err)
	}

	business := svc.History(filter.Criteria{Mode: filter.Business})
	if len(business) != 5 {
		t.Fatalf("expected 5 business rows, got %d", len(business))
	}
	if business[0].ID != 6 {
		t.Fatalf("newest id first within a day, got %d", business[0].ID)
	}
	if len(svc.History(personal)) != 1 {
		t.Fatal("business records must not appear in personal mode")
	}
}

func TestDashboardPocketsIgnoreMode(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	for _, in := range []ledger.Input{businessIncome, lunch,
		{Account: core.Cash, Kind: core.Income, Amount: 100000, Note: "Tabungan darurat", Category: "Lainnya", Date: "2024-05-02"},
	} {
		if _, err := svc.Record(ctx, in); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	personal := svc.Dashboard(filter.Criteria{Mode: filter.Personal})
	business := svc.Dashboard(filter.Criteria{Mode: filter.Business})
	if personal.Pockets != business.Pockets {
		t.Fatalf("pockets depend on mode: %+v vs %+v", personal.Pockets, business.Pockets)
	}
	if personal.Pockets.Savings != 400000 || personal.Pockets.Capital != 500000 || personal.Pockets.Discretionary != 200000 {
		t.Fatalf("unexpected pockets %+v", personal.Pockets)
	}
	if personal.Totals.Income != 100000 || personal.Totals.Expense != 50000 {
		t.Fatalf("unexpected personal totals %+v", personal.Totals)
	}
	if len(personal.Balances) != 7 || personal.Balances[0].Account != core.GoPay {
		t.Fatalf("balances should be in display order: %+v", personal.Balances)
	}
}

func TestCategories(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	list, err := svc.RegisterCategory(ctx, "  Pendidikan ")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if list[len(list)-1] != "Pendidikan" || len(svc.Categories()) != 9 {
		t.Fatalf("unexpected categories %v", list)
	}
	if _, err := svc.RegisterCategory(ctx, "makanan"); !errors.Is(err, core.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestExportReportAndYears(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	old := lunch
	old.Date = "2022-12-31"
	for _, in := range []ledger.Input{lunch, old} {
		if _, err := svc.Record(ctx, in); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	var buf bytes.Buffer
	name, err := svc.ExportCSV(&buf)
	if err != nil || name != "transaction-finance_2024-05-03.csv" {
		t.Fatalf("ExportCSV() = %q, %v", name, err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Fatalf("export should include every transaction:\n%s", buf.String())
	}

	r := svc.Report(filter.Criteria{Month: 5, Year: 2024, Mode: filter.Personal})
	if len(r.Rows) != 1 || r.Totals.Expense != 50000 || r.Title != "Financial Report - May 2024" {
		t.Fatalf("unexpected report %+v", r)
	}

	years := svc.Years()
	if len(years) != 2 || years[0] != 2024 || years[1] != 2022 {
		t.Fatalf("unexpected years %v", years)
	}
}

func TestStateView(t *testing.T) {
	s := NewState(memory.New(), nil)
	if v := s.View(); v.Mode != filter.Personal || v.Month != 0 || v.Year != 0 {
		t.Fatalf("unexpected default view %+v", v)
	}
	s.SetView(filter.Criteria{Month: 5, Year: 2024, Mode: filter.Personal})
	s.SetMode(filter.Business)
	if v := s.View(); v.Mode != filter.Business || v.Month != 5 || v.Year != 2024 {
		t.Fatalf("SetMode should keep month and year: %+v", v)
	}
}

func TestCloseClosesPublisher(t *testing.T) {
	pub := &fakePublisher{}
	svc, _ := newService(t, pub)
	if err := svc.Close(); err != nil || !pub.closed {
		t.Fatalf("Close() = %v, closed = %v", err, pub.closed)
	}
	svc, _ = newService(t, nil)
	if err := svc.Close(); err != nil {
		t.Fatalf("Close() without publisher = %v", err)
	}
}
