// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Provider: Loads and searches one bibliography source
//   - BibCodec: Parses and formats BibTeX files
//   - Writer: Writes the merged selection through the read-write source
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EntryFetcher: Fetches canonical BibTeX for remote records. Without it,
//     remote records stay unresolved and cannot be committed.
//   - KeyListWriter: Persists the selected-key list on commit.
//   - HistoryStore: Records submitted queries. Without it, the history
//     command is disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or source package
package driven
