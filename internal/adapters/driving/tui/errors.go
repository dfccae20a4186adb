package tui

import "errors"

// Errors returned when constructing the TUI with incomplete wiring.
var (
	// ErrMissingSearchPort indicates the search port was not provided.
	ErrMissingSearchPort = errors.New("missing search port")

	// ErrMissingSelectionPort indicates the selection port was not provided.
	ErrMissingSelectionPort = errors.New("missing selection port")

	// ErrMissingCommitPort indicates the commit port was not provided.
	ErrMissingCommitPort = errors.New("missing commit port")

	// ErrMissingRedrawChannel indicates the redraw channel was not provided.
	ErrMissingRedrawChannel = errors.New("missing redraw channel")
)
