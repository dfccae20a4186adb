package driving

import (
	"context"

	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
)

// Result is one accepted search hit, pre-marked with its selection state
// at acceptance time.
type Result struct {
	// Record is the matched record.
	Record domain.Record

	// Selected reports whether the record was in the selection set when
	// the result was accepted.
	Selected bool
}

// SourceStatus is a point-in-time snapshot of one source for display.
type SourceStatus struct {
	// Info identifies the source.
	Info domain.SourceInfo

	// Status is the source's current lifecycle state.
	Status domain.Status

	// Enabled reports whether the source's results are displayed.
	// Disabling a source never affects in-flight work.
	Enabled bool
}

// SearchPort drives the federated search.
type SearchPort interface {
	// Dispatch mints a new generation, resets the sink to it and posts
	// (text, generation) to every source. Returns the minted generation.
	Dispatch(text string) uint64

	// Generation returns the current live generation.
	Generation() uint64

	// VisibleResults returns the accepted results whose owning source is
	// currently enabled, in acceptance order.
	VisibleResults() []Result

	// Sources returns a display snapshot of every source.
	Sources() []SourceStatus

	// ToggleSource flips the enabled flag of the source at index.
	// Out-of-range indices are ignored.
	ToggleSource(index int)

	// SetAllSources enables or disables every source at once.
	SetAllSources(enabled bool)
}

// ResolveState describes the fetch progress of a remote record's
// canonical BibTeX entry.
type ResolveState int

const (
	// ResolveNone means no fetch is needed or none has started.
	ResolveNone ResolveState = iota

	// ResolvePending means the fetch is in flight.
	ResolvePending

	// ResolveReady means the entry is available.
	ResolveReady

	// ResolveFailed means the fetch failed; the record cannot be committed.
	ResolveFailed
)

// SelectionPort drives record selection.
type SelectionPort interface {
	// Toggle adds the record if absent or removes it if present, and
	// reports whether it is selected afterwards. Selecting an unresolved
	// remote record starts a background fetch of its canonical entry.
	Toggle(rec domain.Record) bool

	// IsSelected reports membership by composite key.
	IsSelected(compositeKey string) bool

	// Selected returns the selected records in insertion order.
	Selected() []domain.Record

	// ResolutionState reports the fetch progress for a record.
	ResolutionState(rec domain.Record) ResolveState

	// ResolvedText returns the record's BibTeX source text when available
	// without blocking. Local records always have it; remote records only
	// after their fetch completed.
	ResolvedText(rec domain.Record) (string, bool)
}

// CommitPort performs the write-back on the designated commit action.
type CommitPort interface {
	// Commit writes the merged selection through the read-write source's
	// writer and persists the selected-key list. Errors are reported but
	// must not prevent process exit.
	Commit(ctx context.Context) error
}
