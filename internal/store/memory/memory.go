package memory

import (
	"context"
	"sync"

	"dompet/internal/store"
)

// Store keeps values in process memory.
type Store struct {
	mu     sync.Mutex
	values map[string][]byte
	// SaveErr, when set, is returned by every Save. Used to exercise rollback paths.
	SaveErr error
}

var _ store.KeyValue = (*Store)(nil)

func New() *Store {
	return &Store{values: map[string][]byte{}}
}

// NewSeeded returns a store pre-populated with the given key/value pairs.
func NewSeeded(seed map[string][]byte) *Store {
	s := New()
	for k, v := range seed {
		s.values[k] = append([]byte(nil), v...)
	}
	return s
}

func (s *Store) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *Store) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.values[key] = append([]byte(nil), value...)
	return nil
}
