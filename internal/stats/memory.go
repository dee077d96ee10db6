package stats

import (
	"context"
	"sync"
)

// Counters tallies results for one operation.
type Counters struct {
	Succeeded int64
	Rejected  int64
	Failed    int64
}

func (c *Counters) add(r Result) {
	switch r {
	case ResultSucceeded:
		c.Succeeded++
	case ResultRejected:
		c.Rejected++
	case ResultFailed:
		c.Failed++
	}
}

// MemoryStore keeps counters in process. No expiry; meant for tests and for
// running without Redis.
type MemoryStore struct {
	mu       sync.Mutex
	byOp     map[Operation]Counters
	byReason map[string]int64
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byOp:     make(map[Operation]Counters),
		byReason: make(map[string]int64),
	}
}

// Record implements Recorder.
func (s *MemoryStore) Record(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.byOp[ev.Operation]
	c.add(ev.Result)
	s.byOp[ev.Operation] = c

	if ev.Reason != "" {
		s.byReason[string(ev.Operation)+":"+ev.Reason]++
	}
	return nil
}

// Get returns the counters for op.
func (s *MemoryStore) Get(op Operation) Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byOp[op]
}

// Reasons returns a copy of the per-reason tallies keyed "operation:reason".
func (s *MemoryStore) Reasons() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int64, len(s.byReason))
	for k, v := range s.byReason {
		out[k] = v
	}
	return out
}
