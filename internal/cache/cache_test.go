package cache

import (
	"context"
	"testing"
	"time"

	"dompet/internal/core"
	"dompet/internal/filter"
)

func TestLRUCacheEviction(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should be cached")
	}
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b was least recently used and should be evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("a = %v, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("size = %d, want 2", c.Size())
	}
}

func TestLRUCacheExpiry(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Minute)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	c.Set("k2", "v2")
	now = now.Add(2 * time.Minute)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expired entry returned")
	}
	if n := c.CleanExpired(); n != 1 {
		t.Fatalf("CleanExpired() = %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Fatalf("size = %d, want 0", c.Size())
	}
}

func TestLRUCacheDeleteAndPurge(t *testing.T) {
	c := NewLRUCache[int](0, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	if c.Size() != 1 {
		t.Fatalf("maxSize below 1 should keep one entry, got %d", c.Size())
	}
	c.Delete("b")
	if c.Size() != 0 {
		t.Fatalf("size after delete = %d", c.Size())
	}
	c.Set("a", 1)
	c.Purge()
	if _, ok := c.Get("a"); ok {
		t.Fatal("purge should drop entries")
	}
}

func TestHistoryCacheKeyedByRevision(t *testing.T) {
	h := NewHistoryCache(8, time.Minute)
	c := filter.Criteria{Month: 5, Year: 2024, Mode: filter.Personal}
	txs := []core.Transaction{{ID: 1, Account: core.Cash, Kind: core.Expense, Amount: 10, Note: "n", Category: "Makanan", Date: "2024-05-01"}}

	h.Set(1, c, txs)
	txs[0].Note = "mutated"

	got, ok := h.Get(1, c)
	if !ok || len(got) != 1 || got[0].Note != "n" {
		t.Fatalf("unexpected cached view %v %v", got, ok)
	}
	got[0].Note = "mutated again"
	if again, _ := h.Get(1, c); again[0].Note != "n" {
		t.Fatal("Get must return a copy")
	}

	if _, ok := h.Get(2, c); ok {
		t.Fatal("a newer revision must miss")
	}
	if _, ok := h.Get(1, filter.Criteria{Month: 5, Year: 2024, Mode: filter.Business}); ok {
		t.Fatal("a different mode must miss")
	}
}

func TestManagerRunStopsOnCancel(t *testing.T) {
	c := NewLRUCache[int](4, time.Nanosecond)
	c.Set("a", 1)
	m := NewManager(c)

	time.Sleep(time.Millisecond)
	if n := m.Sweep(); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, time.Millisecond) }()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
