package sqlite

import (
	"context"
	"path/filepath"
	"testing"
)

func TestRepositoryLoadSave(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dompet.db")

	repo, err := NewRepository(path)
	if err != nil {
		t.Fatalf("new repository: %v", err)
	}
	defer repo.Close()

	if _, ok, err := repo.Load(ctx, "finance_categories"); ok || err != nil {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}

	for _, v := range []string{`["Makanan"]`, `["Makanan","Kopi"]`} {
		if err := repo.Save(ctx, "finance_categories", []byte(v)); err != nil {
			t.Fatalf("save %s: %v", v, err)
		}
	}

	got, ok, err := repo.Load(ctx, "finance_categories")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if string(got) != `["Makanan","Kopi"]` {
		t.Fatalf("upsert should keep the latest value, got %q", got)
	}
}

func TestMigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dompet.db")
	repo, err := NewRepository(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	repo.Close()

	if err := RunMigrations(path); err != nil {
		t.Fatalf("second migration run should be a no-op: %v", err)
	}
}
