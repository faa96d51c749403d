package memory

import (
	"context"
	"sync"

	ports "dompet/internal/sheets"
)

var (
	_ ports.LedgerMirror = (*Store)(nil)
	_ ports.LedgerReader = (*Store)(nil)
)

// Store is an in-process mirror used when no spreadsheet is configured.
type Store struct {
	mu     sync.Mutex
	rows   [][]string
	writes int
}

func New() *Store {
	return &Store{}
}

// Replace stores a copy of rows.
func (s *Store) Replace(_ context.Context, rows [][]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = copyRows(rows)
	s.writes++
	return nil
}

func (s *Store) Rows(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRows(s.rows), nil
}

// Writes reports how many times the mirror was replaced.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func copyRows(in [][]string) [][]string {
	out := make([][]string, len(in))
	for i, r := range in {
		out[i] = append([]string(nil), r...)
	}
	return out
}
