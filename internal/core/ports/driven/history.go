package driven

import (
	"context"
	"time"
)

// QueryEvent is one submitted search query.
type QueryEvent struct {
	// Query is the submitted text.
	Query string

	// SearchedAt is when the query was submitted.
	SearchedAt time.Time
}

// HistoryStore persists submitted queries.
type HistoryStore interface {
	// RecordQuery stores a submitted query.
	RecordQuery(ctx context.Context, query string) error

	// Recent returns up to limit queries, newest first.
	Recent(ctx context.Context, limit int) ([]QueryEvent, error)

	// Close releases resources.
	Close() error
}
