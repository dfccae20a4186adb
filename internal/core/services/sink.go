package services

import (
	"sync"

	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driving"
)

// ResultSink accumulates search results accepted under the current
// generation. It is the single staleness defence: searches already
// streaming results for a superseded query are never cancelled, their
// results are simply dropped here.
type ResultSink struct {
	mu         sync.Mutex
	generation uint64
	items      []driving.Result
}

// NewResultSink returns an empty sink at generation zero.
func NewResultSink() *ResultSink {
	return &ResultSink{}
}

// Reset clears the accumulated items and adopts generation as current.
func (s *ResultSink) Reset(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation = generation
	s.items = nil
}

// Add appends the record iff generation still matches the sink's current
// generation, and reports whether it was accepted. Stale results are
// silently dropped.
func (s *ResultSink) Add(rec domain.Record, selected bool, generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if generation != s.generation {
		return false
	}
	s.items = append(s.items, driving.Result{Record: rec, Selected: selected})
	return true
}

// Generation returns the sink's current generation.
func (s *ResultSink) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Items returns a copy of the accepted results in acceptance order.
func (s *ResultSink) Items() []driving.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]driving.Result, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of accepted results.
func (s *ResultSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
