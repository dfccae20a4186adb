package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *HistoryStore {
	t.Helper()
	s, err := NewHistoryStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestHistoryStore_RecordAndRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, q := range []string{"lamport", "liskov subtyping", "paxos"} {
		require.NoError(t, s.RecordQuery(ctx, q))
	}

	events, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 3)

	// Newest first.
	assert.Equal(t, "paxos", events[0].Query)
	assert.Equal(t, "liskov subtyping", events[1].Query)
	assert.Equal(t, "lamport", events[2].Query)
	assert.WithinDuration(t, time.Now().UTC(), events[0].SearchedAt, time.Minute)
}

func TestHistoryStore_RecentHonoursLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, q := range []string{"one", "two", "three"} {
		require.NoError(t, s.RecordQuery(ctx, q))
	}

	events, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "three", events[0].Query)
}

func TestHistoryStore_IgnoresBlankQueries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.RecordQuery(ctx, ""))
	require.NoError(t, s.RecordQuery(ctx, "   "))

	events, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestHistoryStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	s, err := NewHistoryStore(path)
	require.NoError(t, err)
	require.NoError(t, s.RecordQuery(ctx, "persistent"))
	require.NoError(t, s.Close())

	s, err = NewHistoryStore(path)
	require.NoError(t, err)
	defer s.Close()

	events, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "persistent", events[0].Query)
}
