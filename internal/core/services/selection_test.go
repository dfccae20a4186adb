package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
)

func selRecord(key string) domain.Record {
	return domain.Record{SourceOrigin: "sel.bib", Key: key, Title: key}
}

func TestSelectionSet_Toggle(t *testing.T) {
	set := NewSelectionSet()
	rec := selRecord("a")

	assert.True(t, set.Toggle(rec))
	assert.True(t, set.Contains(rec.CompositeKey()))
	assert.Equal(t, 1, set.Len())

	assert.False(t, set.Toggle(rec))
	assert.False(t, set.Contains(rec.CompositeKey()))
	assert.Equal(t, 0, set.Len())
}

func TestSelectionSet_ToggleTwiceRestoresPriorState(t *testing.T) {
	set := NewSelectionSet()
	a, b := selRecord("a"), selRecord("b")
	set.Toggle(a)

	before := set.Records()
	set.Toggle(b)
	set.Toggle(b)

	assert.Equal(t, before, set.Records())
}

func TestSelectionSet_InsertionOrder(t *testing.T) {
	set := NewSelectionSet()
	for _, k := range []string{"c", "a", "b"} {
		set.Toggle(selRecord(k))
	}

	recs := set.Records()
	assert.Len(t, recs, 3)
	assert.Equal(t, "c", recs[0].Key)
	assert.Equal(t, "a", recs[1].Key)
	assert.Equal(t, "b", recs[2].Key)

	// Removing from the middle keeps the remaining order.
	set.Toggle(selRecord("a"))
	recs = set.Records()
	assert.Len(t, recs, 2)
	assert.Equal(t, "c", recs[0].Key)
	assert.Equal(t, "b", recs[1].Key)
}

func TestSelectionSet_ConcurrentReadersAndToggler(t *testing.T) {
	set := NewSelectionSet()

	var wg sync.WaitGroup
	stop := make(chan struct{})

	// Searcher goroutines read while the UI goroutine toggles.
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					set.Contains("sel.bib::0")
					set.Records()
				}
			}
		}()
	}

	for i := 0; i < 200; i++ {
		set.Toggle(selRecord(fmt.Sprintf("%d", i%10)))
	}
	close(stop)
	wg.Wait()
}
