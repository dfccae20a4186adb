package driven

import (
	"context"

	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
)

// Provider loads and searches one bibliography source.
// Each source kind (glob-backed file set, remote API) implements this
// interface; the variant is selected at construction time.
type Provider interface {
	// Origin returns the source identity: a glob pattern or endpoint URL.
	Origin() string

	// Mode returns the source's access mode.
	Mode() domain.AccessMode

	// Load performs the one-time, potentially slow acquisition. It is
	// called exactly once, by the source's loader worker. Local providers
	// glob and parse their files, skipping (and logging) files that fail
	// to parse; they return StatusNoFile when the glob matches nothing.
	// Remote providers are a no-op returning StatusReady.
	Load(ctx context.Context) (domain.Status, error)

	// Search streams every record matching the free-text query to emit.
	// The stream is restartable per call, not resumable. Blank or trivial
	// input yields nothing. Remote providers perform one network round
	// trip; "no hits" is an empty stream, not an error. A returned error
	// means the search produced nothing beyond what was already emitted.
	Search(ctx context.Context, query string, emit func(domain.Record)) error
}

// ResolvedRecord pairs a selected record with its BibTeX source text for
// write-back. Raw is never empty: unresolved records fail the commit
// before a ResolvedRecord is built.
type ResolvedRecord struct {
	Record domain.Record
	Raw    string
}

// Writer is implemented by the read-write provider. Write merges the
// provider's own records with the extra (selected) records, keyed by
// citation key with later insertions winning, and writes the whole set
// atomically. It fails without touching the file if any merged entry
// cannot be formatted.
type Writer interface {
	Write(ctx context.Context, extra []ResolvedRecord) error

	// OutputPath returns the file the writer targets.
	OutputPath() string
}

// EntryFetcher fetches the canonical BibTeX source of a remote record.
type EntryFetcher interface {
	FetchEntry(ctx context.Context, rec domain.Record) (string, error)
}

// KeyListWriter persists the selected records' citation keys on commit.
type KeyListWriter interface {
	WriteKeys(ctx context.Context, keys []string) error
}
