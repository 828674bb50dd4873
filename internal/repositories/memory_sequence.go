package repositories

import (
	"context"
	"sync"
)

// MemorySequenceStore keeps per-prefix counters in a map.
type MemorySequenceStore struct {
	mu   sync.Mutex
	seqs map[string]int
}

func NewMemorySequenceStore() *MemorySequenceStore {
	return &MemorySequenceStore{
		seqs: make(map[string]int),
	}
}

func (s *MemorySequenceStore) Next(ctx context.Context, prefix string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seqs[prefix]++
	return s.seqs[prefix], nil
}

func (s *MemorySequenceStore) Seed(ctx context.Context, prefix string, lastSeq int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seqs[prefix] < lastSeq {
		s.seqs[prefix] = lastSeq
	}
	return nil
}
