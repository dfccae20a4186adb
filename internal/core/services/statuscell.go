package services

import (
	"sync"

	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
)

// StatusCell is the thread-safe lifecycle state of one source.
//
// Each cell has its own mutex so that concurrently-updating sources never
// block each other; the UI thread reads cells while worker goroutines of
// the owning source write them.
type StatusCell struct {
	mu     sync.Mutex
	status domain.Status
}

// NewStatusCell returns a cell in the Initialized state.
func NewStatusCell() *StatusCell {
	return &StatusCell{status: domain.StatusInitialized}
}

// Set moves the cell to next and reports whether the update applied.
// Moves outside the state machine are refused; NoFile admits no
// successor, so a source whose glob matched nothing can never show as
// searching.
func (c *StatusCell) Set(next domain.Status) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !domain.ValidTransition(c.status, next) {
		return false
	}
	c.status = next
	return true
}

// Status returns the current state.
func (c *StatusCell) Status() domain.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}
