package domain

import (
	"strings"
	"unicode/utf8"
)

// unknownField is the display fallback for absent record fields.
const unknownField = "Unknown"

// minTokenLen is the minimum rune length for a query token to be
// significant. Shorter tokens are ignored so that one or two accidental
// characters in the search box do not match the entire collection.
const minTokenLen = 3

// Record is one bibliographic entry produced by a source.
//
// Records are immutable after creation. Absent fields are empty values;
// the Display accessors render them as "Unknown" rather than failing.
type Record struct {
	// SourceOrigin is the identity of the owning source (glob pattern or
	// endpoint URL).
	SourceOrigin string

	// Key is the citation key, stable and unique within the source.
	Key string

	// Authors lists the author names. The first element is significant
	// for abbreviated display.
	Authors []string

	// Title is the entry title, empty when absent.
	Title string

	// Year is the publication year as written in the entry, empty when absent.
	Year string

	// Venue is the book title, journal, or publisher, empty when absent.
	Venue string

	// URL is the canonical URL of the entry, empty when absent.
	URL string

	// RemoteID is the provider-side identifier used to fetch the canonical
	// BibTeX of a remote record. Empty for local records.
	RemoteID string

	// Raw is the record's BibTeX source text. Local records carry it from
	// parse time; remote records start unresolved (empty) until their
	// canonical entry has been fetched.
	Raw string
}

// CompositeKey returns the cross-source identity of the record,
// "origin::key". The selection set and the sink are keyed by it.
func (r Record) CompositeKey() string {
	return r.SourceOrigin + "::" + r.Key
}

// Resolved reports whether the record carries its BibTeX source text.
func (r Record) Resolved() bool {
	return r.Raw != ""
}

// DisplayTitle returns the title, or "Unknown" when absent.
func (r Record) DisplayTitle() string {
	if r.Title == "" {
		return unknownField
	}
	return r.Title
}

// DisplayYear returns the year, or "Unknown" when absent.
func (r Record) DisplayYear() string {
	if r.Year == "" {
		return unknownField
	}
	return r.Year
}

// DisplayVenue returns the venue, or "Unknown" when absent.
func (r Record) DisplayVenue() string {
	if r.Venue == "" {
		return unknownField
	}
	return r.Venue
}

// AbbrevAuthors returns the first author, with "et al" appended when there
// is more than one. Returns "Unknown" for an absent author list.
func (r Record) AbbrevAuthors() string {
	if len(r.Authors) == 0 {
		return unknownField
	}
	if len(r.Authors) == 1 {
		return r.Authors[0]
	}
	return r.Authors[0] + " et al"
}

// SignificantTokens splits a query on whitespace and drops tokens shorter
// than three runes. An empty result means the query is trivial and must
// match nothing.
func SignificantTokens(query string) []string {
	fields := strings.Fields(query)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Matches reports whether the record matches every token. A token matches
// when it case-insensitively substring-matches the title or at least one
// author name. An empty token list matches nothing.
func (r Record) Matches(tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}

	title := strings.ToLower(r.Title)
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		if strings.Contains(title, tok) {
			continue
		}

		matched := false
		for _, author := range r.Authors {
			if strings.Contains(strings.ToLower(author), tok) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}
