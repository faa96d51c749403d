package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"dompet/internal/cache"
	"dompet/internal/core"
	"dompet/internal/ledger"
	"dompet/internal/log"
	"dompet/internal/services"
	"dompet/internal/store/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	kv := memory.New()
	state := services.NewState(kv, ledger.NewSequence(0))
	if err := state.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	svc := services.NewLedgerService(state, nil, cache.NewHistoryCache(8, time.Minute))
	logger := log.New(log.Config{Component: log.ComponentApp, Output: io.Discard})
	srv := NewServer(":0", svc, logger)
	t.Cleanup(srv.limiter.Stop)
	return srv, kv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if strings.HasPrefix(body, "{") {
		req.Header.Set("Content-Type", "application/json")
	} else if body != "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

const businessIncome = `{"account":"GoPay","kind":"income","amount":1000000,"note":"Bisnis project X","category":"Bisnis","date":"2024-05-01"}`

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := do(t, srv, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("security headers missing")
	}
}

func TestWritesAreRateLimited(t *testing.T) {
	kv := memory.New()
	state := services.NewState(kv, ledger.NewSequence(0))
	svc := services.NewLedgerService(state, nil, nil)
	srv := NewServer(":0", svc, log.New(log.Config{Output: io.Discard}), WithWriteRateLimit(2))
	t.Cleanup(srv.limiter.Stop)

	for i := 0; i < 2; i++ {
		if rr := do(t, srv, http.MethodPut, "/api/view", `{"mode":"business"}`); rr.Code != http.StatusOK {
			t.Fatalf("request %d status=%d", i, rr.Code)
		}
	}
	rr := do(t, srv, http.MethodPut, "/api/view", `{"mode":"personal"}`)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d", rr.Code)
	}
	if got := decode[errorBody](t, rr); got.Error != "rate_limited" {
		t.Fatalf("error=%q", got.Error)
	}
	if rr := do(t, srv, http.MethodGet, "/api/view", ""); rr.Code != http.StatusOK {
		t.Fatalf("reads are not limited, status=%d", rr.Code)
	}
}

func TestCreateTransactionSplitsBusinessIncome(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := do(t, srv, http.MethodPost, "/api/transactions", businessIncome)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	created := decode[struct {
		Transactions []core.Transaction `json:"transactions"`
	}](t, rr)
	if len(created.Transactions) != 5 || created.Transactions[0].Account != core.BankJago {
		t.Fatalf("unexpected records %+v", created.Transactions)
	}

	rr = do(t, srv, http.MethodGet, "/api/balances", "")
	balances := decode[struct {
		Balances []struct {
			Account core.Account `json:"account"`
			Balance float64      `json:"balance"`
		} `json:"balances"`
	}](t, rr)
	want := map[core.Account]float64{core.BankJago: 500000, core.SeaBank: 300000, core.DANA: 200000}
	if len(balances.Balances) != 7 {
		t.Fatalf("expected 7 accounts, got %d", len(balances.Balances))
	}
	for _, b := range balances.Balances {
		if b.Balance != want[b.Account] {
			t.Errorf("%s = %v, want %v", b.Account, b.Balance, want[b.Account])
		}
	}
}

func TestCreateTransactionFromForm(t *testing.T) {
	srv, _ := newTestServer(t)
	body := "account=Cash&kind=expense&amount=50000,5&note=makan+siang&category=Makanan&date=2024-05-02"
	rr := do(t, srv, http.MethodPost, "/api/transactions", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	created := decode[struct {
		Transactions []core.Transaction `json:"transactions"`
	}](t, rr)
	if created.Transactions[0].Amount != 50000.5 {
		t.Fatalf("amount = %v", created.Transactions[0].Amount)
	}
}

func TestErrorMapping(t *testing.T) {
	srv, kv := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
		code   string
	}{
		{"missing note", http.MethodPost, "/api/transactions", `{"account":"Cash","kind":"expense","amount":1,"category":"Makanan","date":"2024-05-02"}`, 400, "validation_error"},
		{"bad kind", http.MethodPost, "/api/transactions", `{"account":"Cash","kind":"transfer","amount":1,"note":"x","category":"Makanan","date":"2024-05-02"}`, 400, "validation_error"},
		{"negative amount", http.MethodPost, "/api/transactions", `{"account":"Cash","kind":"expense","amount":"-5","note":"x","category":"Makanan","date":"2024-05-02"}`, 400, "validation_error"},
		{"malformed json", http.MethodPost, "/api/transactions", `{"account":`, 400, "validation_error"},
		{"duplicate category", http.MethodPost, "/api/categories", `{"name":"MAKANAN"}`, 409, "duplicate"},
		{"empty category", http.MethodPost, "/api/categories", `{"name":"  "}`, 400, "validation_error"},
		{"bad month", http.MethodGet, "/api/transactions?month=13", "", 400, "validation_error"},
		{"bad mode", http.MethodGet, "/api/report?mode=family", "", 400, "validation_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, srv, tt.method, tt.path, tt.body)
			if rr.Code != tt.status {
				t.Fatalf("status=%d want %d body=%s", rr.Code, tt.status, rr.Body.String())
			}
			if got := decode[errorBody](t, rr); got.Error != tt.code {
				t.Fatalf("error=%q want %q", got.Error, tt.code)
			}
		})
	}

	t.Run("persistence failure", func(t *testing.T) {
		kv.SaveErr = errors.New("disk full")
		defer func() { kv.SaveErr = nil }()
		rr := do(t, srv, http.MethodPost, "/api/transactions", businessIncome)
		if rr.Code != http.StatusInternalServerError {
			t.Fatalf("status=%d", rr.Code)
		}
		if got := decode[errorBody](t, rr); got.Error != "persistence_error" {
			t.Fatalf("error=%q", got.Error)
		}
		if srv.svc.State().Ledger.Len() != 0 {
			t.Fatal("failed save must not commit")
		}
	})
}

func TestListTransactionsUsesView(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/transactions", businessIncome)
	do(t, srv, http.MethodPost, "/api/transactions", `{"account":"Cash","kind":"expense","amount":50000,"note":"makan siang","category":"Makanan","date":"2024-05-02"}`)

	type list struct {
		Transactions []core.Transaction `json:"transactions"`
	}
	if got := decode[list](t, do(t, srv, http.MethodGet, "/api/transactions", "")); len(got.Transactions) != 1 {
		t.Fatalf("personal view should show 1 row, got %d", len(got.Transactions))
	}

	rr := do(t, srv, http.MethodPut, "/api/view", `{"mode":"business","month":"5","year":"2024"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	if got := decode[list](t, do(t, srv, http.MethodGet, "/api/transactions", "")); len(got.Transactions) != 5 {
		t.Fatalf("business view should show 5 rows, got %d", len(got.Transactions))
	}
	if got := decode[list](t, do(t, srv, http.MethodGet, "/api/transactions?mode=personal&month=all", "")); len(got.Transactions) != 1 {
		t.Fatalf("query should override the view, got %d", len(got.Transactions))
	}
	if got := decode[list](t, do(t, srv, http.MethodGet, "/api/transactions?year=2023", "")); len(got.Transactions) != 0 {
		t.Fatalf("year filter should exclude 2024, got %d", len(got.Transactions))
	}
}

func TestCategories(t *testing.T) {
	srv, _ := newTestServer(t)
	rr := do(t, srv, http.MethodPost, "/api/categories", "name=Pendidikan")
	if rr.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	got := decode[struct {
		Categories []string `json:"categories"`
	}](t, do(t, srv, http.MethodGet, "/api/categories", ""))
	if len(got.Categories) != 9 || got.Categories[8] != "Pendidikan" {
		t.Fatalf("unexpected categories %v", got.Categories)
	}
}

func TestExportCSV(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/transactions", businessIncome)

	rr := do(t, srv, http.MethodGet, "/api/export.csv", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), "transaction-finance_") {
		t.Fatalf("unexpected disposition %q", rr.Header().Get("Content-Disposition"))
	}
	lines := strings.Split(rr.Body.String(), "\n")
	if len(lines) != 6 || lines[0] != "ID,Date,Note,Category,Account,Kind,Amount" {
		t.Fatalf("unexpected csv:\n%s", rr.Body.String())
	}
}

func TestReports(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/transactions", businessIncome)

	rr := do(t, srv, http.MethodGet, "/api/report?mode=business&month=5&year=2024", "")
	report := decode[struct {
		Title  string `json:"title"`
		Totals struct {
			Income  float64 `json:"income"`
			Expense float64 `json:"expense"`
			Net     float64 `json:"net"`
		} `json:"totals"`
	}](t, rr)
	if report.Title != "Financial Report - May 2024" || report.Totals.Income != 1500000 || report.Totals.Expense != 500000 {
		t.Fatalf("unexpected report %+v", report)
	}

	rr = do(t, srv, http.MethodGet, "/api/report.xlsx?mode=business", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	f, err := excelize.OpenReader(bytes.NewReader(rr.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue("Report", "A1"); v != "Financial Report - All Months All Years" {
		t.Fatalf("A1 = %q", v)
	}
}

func TestYearsAndDashboard(t *testing.T) {
	srv, _ := newTestServer(t)
	do(t, srv, http.MethodPost, "/api/transactions", `{"account":"BRI","kind":"income","amount":10,"note":"gaji","category":"Lainnya","date":"2021-01-01"}`)

	years := decode[struct {
		Years []int `json:"years"`
	}](t, do(t, srv, http.MethodGet, "/api/years", ""))
	if len(years.Years) != 2 || years.Years[1] != 2021 || years.Years[0] != time.Now().Year() {
		t.Fatalf("unexpected years %v", years.Years)
	}

	dash := decode[services.Dashboard](t, do(t, srv, http.MethodGet, "/api/dashboard", ""))
	if len(dash.History) != 1 || len(dash.Balances) != 7 || dash.Totals.Income != 10 {
		t.Fatalf("unexpected dashboard %+v", dash)
	}
}
