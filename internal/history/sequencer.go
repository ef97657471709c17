package history

import "sync"

// Sequencer orders overlapping fetch/normalize cycles. A refresh takes a
// token with Next before issuing its fetch and calls Commit with it when
// the response arrives; Commit rejects tokens older than the newest one
// already applied, so a slow response can never overwrite the state of a
// request issued after it.
type Sequencer struct {
	mu      sync.Mutex
	issued  uint64
	applied uint64
}

func (s *Sequencer) Next() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// Commit reports whether the result for token should be applied and, if so,
// records it as the newest applied state.
func (s *Sequencer) Commit(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token <= s.applied {
		return false
	}
	s.applied = token
	return true
}
