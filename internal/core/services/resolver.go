package services

import (
	"context"
	"sync"

	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driven"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driving"
	"github.com/bibrarian/bibrarian-cli/internal/logger"
)

// fetch is a one-shot latch around a single background fetch.
type fetch struct {
	done chan struct{}
	raw  string
	err  error
}

// Resolver fetches the canonical BibTeX entry of remote records in the
// background. Selecting a remote record starts its fetch; the commit
// blocks on completion. Each record is fetched at most once per process.
type Resolver struct {
	mu      sync.Mutex
	fetcher driven.EntryFetcher
	redraw  *RedrawSignal
	fetches map[string]*fetch
}

// NewResolver creates a resolver. The fetcher may be nil, in which case
// unresolved records stay unresolved and fail at commit time.
func NewResolver(fetcher driven.EntryFetcher, redraw *RedrawSignal) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		redraw:  redraw,
		fetches: make(map[string]*fetch),
	}
}

// Prefetch starts a background fetch for an unresolved record. Resolved
// records and records already being fetched are ignored.
func (r *Resolver) Prefetch(rec domain.Record) {
	if rec.Resolved() || r.fetcher == nil {
		return
	}

	key := rec.CompositeKey()

	r.mu.Lock()
	if _, ok := r.fetches[key]; ok {
		r.mu.Unlock()
		return
	}
	f := &fetch{done: make(chan struct{})}
	r.fetches[key] = f
	r.mu.Unlock()

	go r.run(rec, f)
}

// run performs the fetch and settles the latch exactly once.
func (r *Resolver) run(rec domain.Record, f *fetch) {
	logger.Debug("fetching entry for %s", rec.CompositeKey())

	raw, err := r.fetcher.FetchEntry(context.Background(), rec)
	f.raw, f.err = raw, err
	close(f.done)

	if err != nil {
		logger.Error("fetching entry for %s: %v", rec.CompositeKey(), err)
	} else {
		logger.Debug("entry ready for %s", rec.CompositeKey())
	}

	if r.redraw != nil {
		r.redraw.Wake()
	}
}

// Resolve returns the record's BibTeX source text, waiting for an
// in-flight fetch if necessary. Local records resolve immediately from
// their own Raw text.
func (r *Resolver) Resolve(ctx context.Context, rec domain.Record) (string, error) {
	if rec.Resolved() {
		return rec.Raw, nil
	}
	if r.fetcher == nil {
		return "", domain.ErrUnresolved
	}

	r.Prefetch(rec)

	r.mu.Lock()
	f := r.fetches[rec.CompositeKey()]
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-f.done:
	}

	if f.err != nil {
		return "", f.err
	}
	return f.raw, nil
}

// Peek returns the record's BibTeX text without blocking, when either
// the record carries it or a fetch has completed successfully.
func (r *Resolver) Peek(rec domain.Record) (string, bool) {
	if rec.Resolved() {
		return rec.Raw, true
	}

	r.mu.Lock()
	f, ok := r.fetches[rec.CompositeKey()]
	r.mu.Unlock()
	if !ok {
		return "", false
	}

	select {
	case <-f.done:
		if f.err != nil {
			return "", false
		}
		return f.raw, true
	default:
		return "", false
	}
}

// State reports the fetch progress for a record.
func (r *Resolver) State(rec domain.Record) driving.ResolveState {
	if rec.Resolved() {
		return driving.ResolveReady
	}

	r.mu.Lock()
	f, ok := r.fetches[rec.CompositeKey()]
	r.mu.Unlock()

	if !ok {
		return driving.ResolveNone
	}

	select {
	case <-f.done:
		if f.err != nil {
			return driving.ResolveFailed
		}
		return driving.ResolveReady
	default:
		return driving.ResolvePending
	}
}
