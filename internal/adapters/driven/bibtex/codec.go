package bibtex

import (
	"fmt"
	"os"
	"strings"

	"github.com/nickng/bibtex"

	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driven"
)

// Ensure Codec implements the interface.
var _ driven.BibCodec = (*Codec)(nil)

// Codec parses and formats BibTeX using the nickng/bibtex library.
type Codec struct{}

// NewCodec creates a codec.
func NewCodec() *Codec {
	return &Codec{}
}

// ParseFile reads a BibTeX file and returns one record per entry.
func (c *Codec) ParseFile(path string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	parsed, err := bibtex.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	records := make([]domain.Record, 0, len(parsed.Entries))
	for _, entry := range parsed.Entries {
		records = append(records, recordFromEntry(entry))
	}
	return records, nil
}

// recordFromEntry maps one parsed entry to a domain record. The raw
// text is re-rendered from the parsed form, so every record carries a
// self-contained entry regardless of how the source file was laid out.
func recordFromEntry(entry *bibtex.BibEntry) domain.Record {
	rec := domain.Record{
		Key:   entry.CiteName,
		Title: fieldText(entry, "title"),
		Year:  fieldText(entry, "year"),
		URL:   fieldText(entry, "url"),
		Venue: venueOf(entry),
		Raw:   renderEntry(entry),
	}

	if authors := fieldText(entry, "author"); authors != "" {
		rec.Authors = splitAuthors(authors)
	}

	return rec
}

// venueOf picks the most specific venue field present on an entry.
func venueOf(entry *bibtex.BibEntry) string {
	for _, field := range []string{"booktitle", "journal", "publisher"} {
		if v := fieldText(entry, field); v != "" {
			return v
		}
	}
	return ""
}

// fieldText returns a field's text, or "" when absent.
func fieldText(entry *bibtex.BibEntry, name string) string {
	val, ok := entry.Fields[name]
	if !ok || val == nil {
		return ""
	}
	return strings.TrimSpace(val.String())
}

// splitAuthors splits a BibTeX author field on the "and" keyword.
func splitAuthors(field string) []string {
	parts := strings.Split(field, " and ")
	authors := make([]string, 0, len(parts))
	for _, part := range parts {
		if name := strings.TrimSpace(part); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// renderEntry renders a single entry as standalone BibTeX text.
func renderEntry(entry *bibtex.BibEntry) string {
	doc := bibtex.NewBibTex()
	doc.AddEntry(entry)
	return strings.TrimSpace(doc.String())
}

// Format assembles raw entry texts into one document. Entries sharing a
// citation key collapse to the last occurrence, keeping the position of
// the first, so callers merge by appending the preferred text last.
func (c *Codec) Format(raws []string) ([]byte, error) {
	order := make([]string, 0, len(raws))
	byKey := make(map[string]*bibtex.BibEntry, len(raws))

	for _, raw := range raws {
		parsed, err := bibtex.Parse(strings.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("parsing entry: %w", err)
		}
		for _, entry := range parsed.Entries {
			if _, ok := byKey[entry.CiteName]; !ok {
				order = append(order, entry.CiteName)
			}
			byKey[entry.CiteName] = entry
		}
	}

	doc := bibtex.NewBibTex()
	for _, key := range order {
		doc.AddEntry(byKey[key])
	}
	return []byte(doc.PrettyString()), nil
}
