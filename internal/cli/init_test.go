package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"dompet/internal/config"
	"dompet/internal/core"
	"dompet/internal/ledger"
	"dompet/internal/log"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dompet.yaml")
	body := "data_backend: memory\nport: \"9090\"\nlog_format: json\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DataBackend != "memory" || cfg.Port != "9090" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected config %+v", cfg)
	}

	if err := os.WriteFile(path, []byte("data_backend: floppy\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("invalid backend should fail validation")
	}
}

func TestSetupLogger(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "debug"
	if _, err := SetupLogger(cfg); err != nil {
		t.Fatalf("setup: %v", err)
	}
	cfg.LogLevel = "loud"
	if _, err := SetupLogger(cfg); err == nil {
		t.Fatal("unknown level should fail")
	}
}

func TestOpenPersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.BoltDBPath = filepath.Join(t.TempDir(), "dompet.db")
	logger := log.New(log.Config{Output: os.Stderr})

	app, err := Open(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = app.Service.Record(ctx, ledger.Input{
		Account: core.GoPay, Kind: core.Income, Amount: 1000000,
		Note: "Bisnis project X", Category: core.BusinessCategory, Date: "2024-05-01",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if _, err := app.Service.RegisterCategory(ctx, "Pendidikan"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := app.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	app, err = Open(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer app.Close()

	if app.State.Ledger.Len() != 5 {
		t.Fatalf("expected 5 records after restart, got %d", app.State.Ledger.Len())
	}
	if !app.State.Categories.Contains("pendidikan") {
		t.Fatal("registered category should survive a restart")
	}
	records, err := app.Service.Record(ctx, ledger.Input{
		Account: core.Cash, Kind: core.Expense, Amount: 1, Note: "x", Category: "Makanan", Date: "2024-05-02",
	})
	if err != nil {
		t.Fatalf("record after restart: %v", err)
	}
	if records[0].ID != 6 {
		t.Fatalf("ids should continue after restart, got %d", records[0].ID)
	}
}

func TestNewMirrorRequiresSpreadsheet(t *testing.T) {
	if _, err := NewMirror(context.Background(), config.Default()); err == nil {
		t.Fatal("expected error without spreadsheet id")
	}
	if _, err := NewConsumer(config.Default()); err == nil {
		t.Fatal("expected error without broker url")
	}
}
