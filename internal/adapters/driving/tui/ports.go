// Package tui provides the interactive terminal interface. It
// implements a driving adapter following hexagonal architecture
// principles: all behaviour comes in through the driving ports, and the
// redraw channel is the only signal from the background workers.
package tui

import (
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driven"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driving"
)

// Ports aggregates everything the TUI needs. This provides a single
// injection point for dependency injection.
type Ports struct {
	// Search drives the federated search.
	Search driving.SearchPort

	// Selection drives the record selection set.
	Selection driving.SelectionPort

	// Commit performs the write-back on exit.
	Commit driving.CommitPort

	// History records submitted queries. Optional.
	History driven.HistoryStore

	// Redraw delivers wake-ups from the background workers. The channel
	// coalesces: one receive may cover many state changes.
	Redraw <-chan struct{}
}

// NewPorts creates a Ports aggregate with the required ports.
func NewPorts(search driving.SearchPort, selection driving.SelectionPort, commit driving.CommitPort, redraw <-chan struct{}) *Ports {
	return &Ports{
		Search:    search,
		Selection: selection,
		Commit:    commit,
		Redraw:    redraw,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchPort
	}
	if p.Selection == nil {
		return ErrMissingSelectionPort
	}
	if p.Commit == nil {
		return ErrMissingCommitPort
	}
	if p.Redraw == nil {
		return ErrMissingRedrawChannel
	}
	return nil
}
