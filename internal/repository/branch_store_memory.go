package repository

import (
	"context"
	"sync"
)

// MemoryBranchStore is an in-process BranchStore.
type MemoryBranchStore struct {
	mu  sync.RWMutex
	set map[string]struct{}
}

// NewMemoryBranchStore creates a store holding the given branches.
func NewMemoryBranchStore(branches ...string) *MemoryBranchStore {
	s := &MemoryBranchStore{set: map[string]struct{}{}}
	for _, b := range branches {
		s.set[b] = struct{}{}
	}
	return s
}

func (s *MemoryBranchStore) HasBumped(_ context.Context, branch string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.set[branch]
	return ok, nil
}

func (s *MemoryBranchStore) MarkBumped(_ context.Context, branch string) error {
	if err := checkBranchKey(branch); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set[branch] = struct{}{}
	return nil
}

func (s *MemoryBranchStore) Reset(_ context.Context, branch string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.set, branch)
	return nil
}

func (s *MemoryBranchStore) ResetAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.set)
	return nil
}

func (s *MemoryBranchStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedBranches(s.set), nil
}
