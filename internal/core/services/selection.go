package services

import (
	"sync"

	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
)

// SelectionSet is the cross-source set of user-picked records, keyed by
// composite key. The UI goroutine toggles it while every source's
// searcher reads it concurrently to pre-mark incoming results, so all
// access goes through an RW mutex. Insertion order is preserved for the
// selected-keys panel.
type SelectionSet struct {
	mu      sync.RWMutex
	entries map[string]domain.Record
	order   []string
}

// NewSelectionSet returns an empty selection set.
func NewSelectionSet() *SelectionSet {
	return &SelectionSet{entries: make(map[string]domain.Record)}
}

// Toggle adds the record if absent or removes it if present, and reports
// whether the record is selected afterwards.
func (s *SelectionSet) Toggle(rec domain.Record) bool {
	key := rec.CompositeKey()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; ok {
		delete(s.entries, key)
		for i, k := range s.order {
			if k == key {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false
	}

	s.entries[key] = rec
	s.order = append(s.order, key)
	return true
}

// Contains reports membership by composite key.
func (s *SelectionSet) Contains(compositeKey string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[compositeKey]
	return ok
}

// Records returns the selected records in insertion order.
func (s *SelectionSet) Records() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Record, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.entries[key])
	}
	return out
}

// Len returns the number of selected records.
func (s *SelectionSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
