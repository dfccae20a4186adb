package dblp

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driven"
)

// Ensure Provider implements both interfaces.
var (
	_ driven.Provider     = (*Provider)(nil)
	_ driven.EntryFetcher = (*Provider)(nil)
)

// Provider is the read-only remote source over the DBLP search API.
type Provider struct {
	client *Client
}

// NewProvider creates a DBLP provider.
func NewProvider(cfg Config) *Provider {
	return &Provider{client: NewClient(cfg)}
}

// Origin implements driven.Provider. The endpoint URL identifies the
// source, so records keep their identity across reconfigurations of the
// local globs.
func (p *Provider) Origin() string { return p.client.Endpoint() }

// Mode implements driven.Provider.
func (p *Provider) Mode() domain.AccessMode { return domain.ModeReadOnly }

// Load implements driven.Provider. There is nothing to acquire up front.
func (p *Provider) Load(_ context.Context) (domain.Status, error) {
	return domain.StatusReady, nil
}

// Search implements driven.Provider. One query is one API round trip;
// no hits is an empty stream.
func (p *Provider) Search(ctx context.Context, query string, emit func(domain.Record)) error {
	if len(domain.SignificantTokens(query)) == 0 {
		return nil
	}

	params := url.Values{
		"q":      {query},
		"format": {"json"},
		"h":      {strconv.Itoa(maxHits)},
	}

	var resp searchResponse
	if err := p.client.getJSON(ctx, "/search/publ/api", params, &resp); err != nil {
		return err
	}

	for _, h := range resp.Result.Hits.Hit {
		if h.Info.Key == "" {
			continue
		}
		emit(p.recordFromHit(h.Info))
	}
	return nil
}

// recordFromHit maps one search hit to an unresolved domain record.
func (p *Provider) recordFromHit(info hitInfo) domain.Record {
	return domain.Record{
		SourceOrigin: p.Origin(),
		Key:          deriveKey(info.Key),
		RemoteID:     info.Key,
		Authors:      info.Authors.Names,
		Title:        strings.TrimSuffix(string(info.Title), "."),
		Year:         string(info.Year),
		Venue:        string(info.Venue),
		URL:          string(info.URL),
	}
}

// FetchEntry implements driven.EntryFetcher. It downloads the record's
// canonical BibTeX entry.
func (p *Provider) FetchEntry(ctx context.Context, rec domain.Record) (string, error) {
	if rec.RemoteID == "" {
		return "", fmt.Errorf("record %s: %w", rec.CompositeKey(), domain.ErrInvalidInput)
	}

	body, err := p.client.get(ctx, "/rec/bib2/"+rec.RemoteID+".bib", nil)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(body)), nil
}

// deriveKey builds a short, collision-resistant citation key from a
// DBLP record identifier. The last path segment keeps the key readable;
// the hash suffix disambiguates identical segments across venues.
func deriveKey(remoteID string) string {
	base := remoteID
	if i := strings.LastIndexByte(remoteID, '/'); i >= 0 {
		base = remoteID[i+1:]
	}

	sum := sha1.Sum([]byte(remoteID))
	return base + ":" + strings.ToUpper(hex.EncodeToString(sum[:2]))
}

// searchResponse mirrors the publication search API's JSON shape. DBLP
// collapses single-element collections to bare objects and omits empty
// ones entirely, so the nested fields decode defensively.
type searchResponse struct {
	Result struct {
		Hits struct {
			Hit []hit `json:"hit"`
		} `json:"hits"`
	} `json:"result"`
}

type hit struct {
	Info hitInfo `json:"info"`
}

type hitInfo struct {
	Key     string     `json:"key"`
	Title   flexString `json:"title"`
	Venue   flexString `json:"venue"`
	Year    flexString `json:"year"`
	URL     flexString `json:"url"`
	Authors authorList `json:"authors"`
}

// flexString decodes a JSON value that may arrive as a string, a
// number, or an array of either, into one flat string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(n.String())
		return nil
	}

	var parts []flexString
	if err := json.Unmarshal(data, &parts); err == nil {
		strs := make([]string, len(parts))
		for i, p := range parts {
			strs[i] = string(p)
		}
		*f = flexString(strings.Join(strs, ", "))
		return nil
	}

	return fmt.Errorf("unsupported value %s", data)
}

// authorList decodes the "authors" wrapper. The inner "author" value is
// a single name or a list, and each name is a bare string or an object
// with a "text" field.
type authorList struct {
	Names []string
}

func (a *authorList) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Author json.RawMessage `json:"author"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	if len(wrapper.Author) == 0 {
		return nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(wrapper.Author, &raws); err != nil {
		raws = []json.RawMessage{wrapper.Author}
	}

	for _, raw := range raws {
		name, err := decodeAuthor(raw)
		if err != nil {
			return err
		}
		if name != "" {
			a.Names = append(a.Names, name)
		}
	}
	return nil
}

func decodeAuthor(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", fmt.Errorf("unsupported author value %s", raw)
	}
	return obj.Text, nil
}
