// Package dblp implements the remote bibliography source backed by the
// DBLP computer science bibliography (https://dblp.org). Searches go
// through the public publication search API; the canonical BibTeX of a
// selected record is fetched separately on demand.
package dblp
