// Package messages defines Bubbletea message types for the TUI.
// Messages represent events that flow through the Elm architecture.
package messages

import (
	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
)

// RedrawTick is sent whenever a background worker changed state the UI
// should reflect: a source status transition, an accepted result or a
// finished entry fetch. The listener re-arms itself after every tick.
type RedrawTick struct{}

// QuerySubmitted is sent when the user presses enter in the search box.
type QuerySubmitted struct {
	Query string
}

// DetailsRequested is sent when the user opens a record's details view.
type DetailsRequested struct {
	Record domain.Record
}

// CommitDone carries the outcome of the write-and-quit action.
type CommitDone struct {
	Err error
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the search box with live results.
	ViewSearch ViewType = iota
	// ViewDetails shows one record in full.
	ViewDetails
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewDetails:
		return "details"
	default:
		return "unknown"
	}
}
