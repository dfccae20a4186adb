package bibfile

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driven"
	"github.com/bibrarian/bibrarian-cli/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.Provider = (*Source)(nil)

// Source is a read-only provider over the files matching one glob
// pattern. Load parses every matched file once; searches run over the
// in-memory records.
type Source struct {
	pattern string
	codec   driven.BibCodec

	mu      sync.RWMutex
	records []domain.Record
}

// NewSource creates a read-only glob source.
func NewSource(pattern string, codec driven.BibCodec) *Source {
	return &Source{pattern: pattern, codec: codec}
}

// Origin implements driven.Provider.
func (s *Source) Origin() string { return s.pattern }

// Mode implements driven.Provider.
func (s *Source) Mode() domain.AccessMode { return domain.ModeReadOnly }

// Load implements driven.Provider. A glob matching no files is reported
// as NoFile; a file that fails to parse is skipped with a warning, so
// one corrupt file never takes down the rest of the source.
func (s *Source) Load(_ context.Context) (domain.Status, error) {
	matches, err := filepath.Glob(s.pattern)
	if err != nil {
		return domain.StatusNoFile, err
	}
	if len(matches) == 0 {
		return domain.StatusNoFile, nil
	}
	sort.Strings(matches)

	var records []domain.Record
	for _, path := range matches {
		parsed, err := s.codec.ParseFile(path)
		if err != nil {
			logger.Warn("skipping %s: %v", path, err)
			continue
		}
		for i := range parsed {
			parsed[i].SourceOrigin = s.pattern
		}
		records = append(records, parsed...)
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()

	return domain.StatusReady, nil
}

// Search implements driven.Provider.
func (s *Source) Search(ctx context.Context, query string, emit func(domain.Record)) error {
	tokens := domain.SignificantTokens(query)
	if len(tokens) == 0 {
		return nil
	}

	s.mu.RLock()
	records := s.records
	s.mu.RUnlock()

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rec.Matches(tokens) {
			emit(rec)
		}
	}
	return nil
}

// Records returns the loaded records.
func (s *Source) Records() []domain.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Record(nil), s.records...)
}
