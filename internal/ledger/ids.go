package ledger

import "sync/atomic"

// IDSource hands out transaction ids. Every call must return a value greater
// than any value it returned before.
type IDSource interface {
	Next() int64
	// Advance moves the source past id, so later calls never collide with persisted records.
	Advance(id int64)
}

// Sequence is a strictly increasing counter.
type Sequence struct {
	last atomic.Int64
}

// NewSequence returns a counter whose first id is start+1.
func NewSequence(start int64) *Sequence {
	s := &Sequence{}
	s.last.Store(start)
	return s
}

func (s *Sequence) Next() int64 {
	return s.last.Add(1)
}

func (s *Sequence) Advance(id int64) {
	for {
		cur := s.last.Load()
		if id <= cur || s.last.CompareAndSwap(cur, id) {
			return
		}
	}
}
