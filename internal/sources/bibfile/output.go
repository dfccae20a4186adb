package bibfile

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/natefinch/atomic"

	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driven"
	"github.com/bibrarian/bibrarian-cli/internal/logger"
)

// Ensure Output implements both interfaces.
var (
	_ driven.Provider = (*Output)(nil)
	_ driven.Writer   = (*Output)(nil)
)

// Output is the read-write provider over the single file its glob
// resolves to. It searches like any local source, and on commit merges
// the selected records into its own set and rewrites the file.
type Output struct {
	pattern string
	codec   driven.BibCodec

	mu      sync.RWMutex
	path    string
	records []domain.Record
}

// NewOutput creates the read-write output source.
func NewOutput(pattern string, codec driven.BibCodec) *Output {
	return &Output{pattern: pattern, codec: codec}
}

// Origin implements driven.Provider.
func (o *Output) Origin() string { return o.pattern }

// Mode implements driven.Provider.
func (o *Output) Mode() domain.AccessMode { return domain.ModeReadWrite }

// Load implements driven.Provider. The glob must resolve to at most one
// file: the write target must be unambiguous. A literal pattern that
// matches nothing names a file to be created on commit, so the source
// comes up NoFile but stays writable.
func (o *Output) Load(_ context.Context) (domain.Status, error) {
	matches, err := filepath.Glob(o.pattern)
	if err != nil {
		return domain.StatusNoFile, err
	}

	switch len(matches) {
	case 0:
		if strings.ContainsAny(o.pattern, "*?[") {
			return domain.StatusNoFile, nil
		}
		o.mu.Lock()
		o.path = o.pattern
		o.mu.Unlock()
		return domain.StatusNoFile, nil
	case 1:
	default:
		return domain.StatusNoFile, fmt.Errorf("%s matches %d files: %w",
			o.pattern, len(matches), domain.ErrAmbiguousOutput)
	}

	path := matches[0]
	records, err := o.codec.ParseFile(path)
	if err != nil {
		// The file exists but cannot be parsed. The source comes up empty
		// and a later commit overwrites the broken file with the selection.
		logger.Warn("skipping %s: %v", path, err)
		records = nil
	}
	for i := range records {
		records[i].SourceOrigin = o.pattern
	}

	o.mu.Lock()
	o.path = path
	o.records = records
	o.mu.Unlock()

	return domain.StatusReady, nil
}

// Search implements driven.Provider.
func (o *Output) Search(ctx context.Context, query string, emit func(domain.Record)) error {
	tokens := domain.SignificantTokens(query)
	if len(tokens) == 0 {
		return nil
	}

	o.mu.RLock()
	records := o.records
	o.mu.RUnlock()

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

// Write implements driven.Writer. The file is replaced atomically: the
// merged document is fully formatted before a single byte is written, so
// a formatting failure leaves the previous file intact.
func (o *Output) Write(_ context.Context, extra []driven.ResolvedRecord) error {
	o.mu.RLock()
	path := o.path
	records := o.records
	o.mu.RUnlock()

	if path == "" {
		return fmt.Errorf("%s resolves to no writable file: %w", o.pattern, domain.ErrAmbiguousOutput)
	}

	raws := make([]string, 0, len(records)+len(extra))
	for _, rec := range records {
		raws = append(raws, rec.Raw)
	}
	// Own entries first: a selected record sharing a citation key with an
	// existing one replaces it in place.
	for _, rr := range extra {
		raws = append(raws, rr.Raw)
	}

	out, err := o.codec.Format(raws)
	if err != nil {
		return fmt.Errorf("formatting %s: %w", path, err)
	}

	return atomic.WriteFile(path, bytes.NewReader(out))
}

// OutputPath implements driven.Writer.
func (o *Output) OutputPath() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.path != "" {
		return o.path
	}
	return o.pattern
}
