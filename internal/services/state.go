package services

import (
	"context"
	"fmt"
	"sync"

	"dompet/internal/category"
	"dompet/internal/filter"
	"dompet/internal/ledger"
	"dompet/internal/store"
)

// State is the whole application state: the ledger, the category registry
// and the current view selection. It replaces any package-level globals.
type State struct {
	Ledger     *ledger.Ledger
	Categories *category.Registry

	mu   sync.Mutex
	view filter.Criteria
}

// NewState wires a ledger and a registry over the same store. The view starts
// at all months, all years, personal mode.
func NewState(kv store.KeyValue, ids ledger.IDSource) *State {
	return &State{
		Ledger:     ledger.New(kv, ids),
		Categories: category.NewRegistry(kv),
		view:       filter.Criteria{Mode: filter.Personal},
	}
}

// Load reads categories and transactions from the store.
func (s *State) Load(ctx context.Context) error {
	if _, err := s.Categories.Load(ctx); err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	if err := s.Ledger.Load(ctx); err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}
	return nil
}

func (s *State) View() filter.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

func (s *State) SetView(c filter.Criteria) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = c
}

// SetMode flips the personal/business toggle and keeps month and year.
func (s *State) SetMode(m filter.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Mode = m
}
