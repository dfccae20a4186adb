package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driving"
)

// mockFetcher implements driven.EntryFetcher for testing.
type mockFetcher struct {
	raw     string
	err     error
	calls   atomic.Int32
	release chan struct{} // when non-nil, FetchEntry blocks until closed
}

func (m *mockFetcher) FetchEntry(_ context.Context, _ domain.Record) (string, error) {
	m.calls.Add(1)
	if m.release != nil {
		<-m.release
	}
	return m.raw, m.err
}

func remoteRecord(key string) domain.Record {
	return domain.Record{SourceOrigin: "https://dblp.org", Key: key, RemoteID: "conf/test/" + key}
}

func TestResolver_LocalRecordResolvesImmediately(t *testing.T) {
	r := NewResolver(&mockFetcher{}, nil)
	rec := domain.Record{SourceOrigin: "a.bib", Key: "k", Raw: "@misc{k,}"}

	raw, err := r.Resolve(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, "@misc{k,}", raw)
	assert.Equal(t, driving.ResolveReady, r.State(rec))
}

func TestResolver_PrefetchDeduplicates(t *testing.T) {
	fetcher := &mockFetcher{raw: "@inproceedings{x,}"}
	r := NewResolver(fetcher, nil)
	rec := remoteRecord("x")

	r.Prefetch(rec)
	r.Prefetch(rec)
	r.Prefetch(rec)

	raw, err := r.Resolve(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, "@inproceedings{x,}", raw)
	assert.Equal(t, int32(1), fetcher.calls.Load())
}

func TestResolver_State(t *testing.T) {
	fetcher := &mockFetcher{raw: "@misc{x,}", release: make(chan struct{})}
	redraw := NewRedrawSignal()
	r := NewResolver(fetcher, redraw)
	rec := remoteRecord("x")

	assert.Equal(t, driving.ResolveNone, r.State(rec))

	r.Prefetch(rec)
	assert.Equal(t, driving.ResolvePending, r.State(rec))

	close(fetcher.release)
	require.Eventually(t, func() bool {
		return r.State(rec) == driving.ResolveReady
	}, time.Second, 5*time.Millisecond)

	// The completed fetch wakes the UI.
	select {
	case <-redraw.C():
	case <-time.After(time.Second):
		t.Fatal("expected redraw wake after fetch completion")
	}
}

func TestResolver_Peek(t *testing.T) {
	fetcher := &mockFetcher{raw: "@misc{x,}"}
	r := NewResolver(fetcher, nil)
	rec := remoteRecord("x")

	_, ok := r.Peek(rec)
	assert.False(t, ok)

	_, err := r.Resolve(context.Background(), rec)
	require.NoError(t, err)

	raw, ok := r.Peek(rec)
	assert.True(t, ok)
	assert.Equal(t, "@misc{x,}", raw)

	// Local records peek straight from their own text.
	local := domain.Record{SourceOrigin: "a.bib", Key: "k", Raw: "@misc{k,}"}
	raw, ok = r.Peek(local)
	assert.True(t, ok)
	assert.Equal(t, "@misc{k,}", raw)
}

func TestResolver_FetchFailure(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("connection refused")}
	r := NewResolver(fetcher, nil)
	rec := remoteRecord("x")

	_, err := r.Resolve(context.Background(), rec)
	require.Error(t, err)
	assert.Equal(t, driving.ResolveFailed, r.State(rec))
}

func TestResolver_NilFetcher(t *testing.T) {
	r := NewResolver(nil, nil)
	rec := remoteRecord("x")

	r.Prefetch(rec) // no-op

	_, err := r.Resolve(context.Background(), rec)
	assert.ErrorIs(t, err, domain.ErrUnresolved)
}

func TestResolver_ResolveHonoursContext(t *testing.T) {
	fetcher := &mockFetcher{release: make(chan struct{})}
	r := NewResolver(fetcher, nil)
	rec := remoteRecord("x")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.Resolve(ctx, rec)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(fetcher.release)
}
