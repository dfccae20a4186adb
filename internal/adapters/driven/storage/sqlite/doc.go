// Package sqlite persists the search query history in a local SQLite
// database.
package sqlite
