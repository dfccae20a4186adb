package driven

import "github.com/bibrarian/bibrarian-cli/internal/core/domain"

// BibCodec is the BibTeX parse/format service.
//
// ParseFile returns one Record per entry in the file, with every field
// except SourceOrigin populated (the caller owns the origin). A parse
// failure fails the whole file; the policy of skipping bad files belongs
// to the provider, not the codec.
//
// Format assembles raw entry texts into a single well-formed BibTeX
// document. It fails the whole operation if any entry cannot be parsed
// back, so a corrupt entry never produces a partial write.
type BibCodec interface {
	ParseFile(path string) ([]domain.Record, error)
	Format(raws []string) ([]byte, error)
}
