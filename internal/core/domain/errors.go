package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnresolved indicates a record whose BibTeX entry has not been
	// fetched. The write-back refuses to proceed rather than silently
	// omitting the record.
	ErrUnresolved = errors.New("record has no resolved entry")

	// ErrAmbiguousOutput indicates the output glob matched more than one
	// file, so there is no single file to write back to.
	ErrAmbiguousOutput = errors.New("output glob matches more than one file")

	// ErrHistoryUnavailable indicates the query history store is not
	// configured.
	ErrHistoryUnavailable = errors.New("query history unavailable")
)
