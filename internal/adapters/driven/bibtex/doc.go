// Package bibtex adapts the nickng/bibtex parser to the domain's record
// model. It is the only package that knows BibTeX syntax; everything
// above it trades in domain.Record values and raw entry text.
package bibtex
