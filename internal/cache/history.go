package cache

import (
	"fmt"
	"time"

	"dompet/internal/core"
	"dompet/internal/filter"
)

// HistoryCache memoizes filtered history views. Entries are keyed by the
// ledger revision, so a new ingestion makes every older entry unreachable.
type HistoryCache struct {
	lru *LRUCache[[]core.Transaction]
}

func NewHistoryCache(maxSize int, ttl time.Duration) *HistoryCache {
	return &HistoryCache{lru: NewLRUCache[[]core.Transaction](maxSize, ttl)}
}

func historyKey(revision int64, c filter.Criteria) string {
	return fmt.Sprintf("%d|%s", revision, c.Key())
}

// Get returns a copy of the cached view.
func (h *HistoryCache) Get(revision int64, c filter.Criteria) ([]core.Transaction, bool) {
	txs, ok := h.lru.Get(historyKey(revision, c))
	if !ok {
		return nil, false
	}
	return append([]core.Transaction(nil), txs...), true
}

func (h *HistoryCache) Set(revision int64, c filter.Criteria, txs []core.Transaction) {
	h.lru.Set(historyKey(revision, c), append([]core.Transaction(nil), txs...))
}

func (h *HistoryCache) CleanExpired() int {
	return h.lru.CleanExpired()
}

func (h *HistoryCache) Size() int {
	return h.lru.Size()
}
