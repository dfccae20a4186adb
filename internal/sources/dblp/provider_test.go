package dblp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
)

const searchBody = `{
  "result": {
    "hits": {
      "@total": "3",
      "hit": [
        {"info": {
          "key": "conf/sosp/Lamport78",
          "title": "Time, Clocks, and the Ordering of Events.",
          "venue": "Commun. ACM",
          "year": "1978",
          "url": "https://dblp.org/rec/conf/sosp/Lamport78",
          "authors": {"author": {"@pid": "l/LeslieLamport", "text": "Leslie Lamport"}}
        }},
        {"info": {
          "key": "journals/toplas/LiskovW94",
          "title": "A Behavioral Notion of Subtyping.",
          "venue": ["TOPLAS", "ACM"],
          "year": 1994,
          "authors": {"author": [
            {"@pid": "l/BarbaraLiskov", "text": "Barbara Liskov"},
            "Jeannette M. Wing"
          ]}
        }},
        {"info": {
          "key": "journals/anon/X99",
          "title": "An Anonymous Note."
        }}
      ]
    }
  }
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewProvider(Config{Endpoint: srv.URL, RequestsPerSecond: 1000, Burst: 1000})
}

func search(t *testing.T, p *Provider, query string) []domain.Record {
	t.Helper()
	var out []domain.Record
	require.NoError(t, p.Search(context.Background(), query, func(rec domain.Record) {
		out = append(out, rec)
	}))
	return out
}

func TestProvider_Search(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search/publ/api", r.URL.Path)
		assert.Equal(t, "lamport clocks", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(searchBody))
	})

	records := search(t, p, "lamport clocks")
	require.Len(t, records, 3)

	first := records[0]
	assert.Equal(t, "conf/sosp/Lamport78", first.RemoteID)
	assert.Equal(t, "Time, Clocks, and the Ordering of Events", first.Title)
	assert.Equal(t, []string{"Leslie Lamport"}, first.Authors)
	assert.Equal(t, "Commun. ACM", first.Venue)
	assert.Equal(t, "1978", first.Year)
	assert.Equal(t, p.Origin(), first.SourceOrigin)
	assert.False(t, first.Resolved())

	// Mixed author shapes, array venue, numeric year.
	second := records[1]
	assert.Equal(t, []string{"Barbara Liskov", "Jeannette M. Wing"}, second.Authors)
	assert.Equal(t, "TOPLAS, ACM", second.Venue)
	assert.Equal(t, "1994", second.Year)

	// A hit with only a key still comes through with display fallbacks.
	third := records[2]
	assert.Empty(t, third.Authors)
	assert.Equal(t, "Unknown", third.DisplayYear())
}

func TestProvider_SearchNoHits(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": {"hits": {"@total": "0"}}}`))
	})

	assert.Empty(t, search(t, p, "nothing matches this"))
}

func TestProvider_TrivialQuerySkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	assert.Empty(t, search(t, p, ""))
	assert.Empty(t, search(t, p, "ab"))
	assert.Equal(t, int32(0), calls.Load())
}

func TestProvider_SearchServerError(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	err := p.Search(context.Background(), "anything valid", func(domain.Record) {
		t.Fatal("emit on failed search")
	})
	assert.Error(t, err)
}

func TestProvider_SearchMalformedPayload(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result": {"hits": `))
	})

	err := p.Search(context.Background(), "anything valid", func(domain.Record) {
		t.Fatal("emit on failed search")
	})
	assert.Error(t, err)
}

func TestProvider_FetchEntry(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rec/bib2/conf/sosp/Lamport78.bib", r.URL.Path)
		w.Write([]byte("@inproceedings{DBLP:conf/sosp/Lamport78,\n}\n"))
	})

	raw, err := p.FetchEntry(context.Background(), domain.Record{RemoteID: "conf/sosp/Lamport78"})
	require.NoError(t, err)
	assert.Equal(t, "@inproceedings{DBLP:conf/sosp/Lamport78,\n}", raw)
}

func TestProvider_FetchEntryUnknownKey(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := p.FetchEntry(context.Background(), domain.Record{RemoteID: "conf/x/gone"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProvider_FetchEntryWithoutRemoteID(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected request")
	})

	_, err := p.FetchEntry(context.Background(), domain.Record{Key: "local"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeriveKey(t *testing.T) {
	key := deriveKey("conf/sosp/Lamport78")

	assert.True(t, len(key) == len("Lamport78:")+4)
	assert.Contains(t, key, "Lamport78:")

	// Stable across calls, distinct across identifiers sharing a segment.
	assert.Equal(t, key, deriveKey("conf/sosp/Lamport78"))
	assert.NotEqual(t, key, deriveKey("journals/cacm/Lamport78"))
}

func TestAuthorList_Shapes(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"single string", `{"author": "Ada Lovelace"}`, []string{"Ada Lovelace"}},
		{"single object", `{"author": {"text": "Ada Lovelace"}}`, []string{"Ada Lovelace"}},
		{"string array", `{"author": ["A", "B"]}`, []string{"A", "B"}},
		{"empty", `{}`, nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got authorList
			require.NoError(t, json.Unmarshal([]byte(tc.in), &got))
			assert.Equal(t, tc.want, got.Names)
		})
	}
}
