package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is the SQLite-backed query history.
type HistoryStore struct {
	db   *sql.DB
	path string
}

// NewHistoryStore opens (creating if needed) the history database at
// path.
func NewHistoryStore(path string) (*HistoryStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &HistoryStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating history database: %w", err)
	}

	return s, nil
}

// migrate creates the schema.
func (s *HistoryStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS search_history (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			query       TEXT NOT NULL,
			searched_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_search_history_searched_at
			ON search_history(searched_at DESC);
	`)
	return err
}

// RecordQuery implements driven.HistoryStore. Blank queries are not
// worth remembering.
func (s *HistoryStore) RecordQuery(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO search_history (query, searched_at) VALUES (?, ?)`,
		query, time.Now().UTC(),
	)
	return err
}

// Recent implements driven.HistoryStore.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]driven.QueryEvent, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT query, searched_at FROM search_history ORDER BY searched_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []driven.QueryEvent
	for rows.Next() {
		var ev driven.QueryEvent
		if err := rows.Scan(&ev.Query, &ev.SearchedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Path returns the database file path.
func (s *HistoryStore) Path() string {
	return s.path
}

// Close implements driven.HistoryStore.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}
