package backend

import (
	"context"
	"path/filepath"
	"testing"

	"dompet/internal/config"
	"dompet/internal/store"
)

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"memory", Config{Type: MemoryBackend}},
		{"bolt", Config{Type: BoltBackend, BoltDBPath: filepath.Join(dir, "dompet.db")}},
		{"sqlite", Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "dompet.sqlite")}},
	}

	f := NewFactory(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			res, err := f.CreateBackend(ctx, tt.cfg)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			defer res.Close()

			if err := res.Store.Save(ctx, store.KeyCategories, []byte(`["Makanan"]`)); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, ok, err := res.Store.Load(ctx, store.KeyCategories)
			if err != nil || !ok || string(got) != `["Makanan"]` {
				t.Fatalf("load = %q %v %v", got, ok, err)
			}
		})
	}
}

func TestCreateBackendRejectsInvalidConfig(t *testing.T) {
	f := NewFactory(nil)
	for _, cfg := range []Config{
		{Type: "sheets"},
		{Type: BoltBackend},
		{Type: SQLiteBackend},
	} {
		if _, err := f.CreateBackend(context.Background(), cfg); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
}

func TestFromAppConfig(t *testing.T) {
	app := config.Default()
	app.DataBackend = "sqlite"
	app.SQLiteDBPath = "/tmp/x.sqlite"

	cfg, err := FromAppConfig(app)
	if err != nil || cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "/tmp/x.sqlite" {
		t.Fatalf("FromAppConfig() = %+v, %v", cfg, err)
	}

	app.DataBackend = "postgres"
	if _, err := FromAppConfig(app); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if got := GetBackendTypeStrings(); len(got) != 3 || got[0] != "memory" {
		t.Fatalf("GetBackendTypeStrings() = %v", got)
	}
}
