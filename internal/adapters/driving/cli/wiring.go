package cli

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	bibcodec "github.com/bibrarian/bibrarian-cli/internal/adapters/driven/bibtex"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driven/config/file"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driven/keylist"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driven/storage/sqlite"
	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driven"
	"github.com/bibrarian/bibrarian-cli/internal/core/services"
	"github.com/bibrarian/bibrarian-cli/internal/logger"
	"github.com/bibrarian/bibrarian-cli/internal/sources/bibfile"
	"github.com/bibrarian/bibrarian-cli/internal/sources/dblp"
)

// app bundles the wired core for one command invocation.
type app struct {
	coordinator *services.Coordinator
	redraw      *services.RedrawSignal
	history     driven.HistoryStore
}

// buildApp assembles the coordinator and its sources from the loaded
// configuration.
func buildApp(cfg file.Config) (*app, error) {
	codec := bibcodec.NewCodec()
	redraw := services.NewRedrawSignal()

	var sources []services.ProviderSource
	for _, pattern := range cfg.BibFiles {
		sources = append(sources, services.ProviderSource{
			Info: domain.SourceInfo{
				ID:     uuid.NewString(),
				Origin: pattern,
				Label:  filepath.Base(pattern),
				Mode:   domain.ModeReadOnly,
			},
			Provider: bibfile.NewSource(pattern, codec),
		})
	}

	if cfg.BibOutput != "" {
		sources = append(sources, services.ProviderSource{
			Info: domain.SourceInfo{
				ID:     uuid.NewString(),
				Origin: cfg.BibOutput,
				Label:  filepath.Base(cfg.BibOutput),
				Mode:   domain.ModeReadWrite,
			},
			Provider: bibfile.NewOutput(cfg.BibOutput, codec),
		})
	}

	var fetcher driven.EntryFetcher
	if cfg.DBLP.Enabled {
		remote := dblp.NewProvider(dblp.Config{
			Endpoint:          cfg.DBLP.Endpoint,
			RequestsPerSecond: cfg.DBLP.RequestsPerSecond,
			Burst:             cfg.DBLP.Burst,
		})
		fetcher = remote
		sources = append(sources, services.ProviderSource{
			Info: domain.SourceInfo{
				ID:     uuid.NewString(),
				Origin: remote.Origin(),
				Label:  "dblp",
				Mode:   domain.ModeReadOnly,
			},
			Provider: remote,
		})
	}

	var keyList driven.KeyListWriter
	if cfg.KeyList != "" {
		keyList = keylist.NewWriter(cfg.KeyList)
	}

	resolver := services.NewResolver(fetcher, redraw)

	coordinator, err := services.NewCoordinator(services.CoordinatorConfig{
		Sources:   sources,
		Sink:      services.NewResultSink(),
		Selection: services.NewSelectionSet(),
		Redraw:    redraw,
		Resolver:  resolver,
		KeyList:   keyList,
	})
	if err != nil {
		return nil, fmt.Errorf("wiring coordinator: %w", err)
	}

	a := &app{coordinator: coordinator, redraw: redraw}

	if cfg.History.Enabled {
		path, err := cfg.HistoryPath()
		if err == nil {
			a.history, err = sqlite.NewHistoryStore(path)
		}
		if err != nil {
			// History is a convenience; a broken store never blocks a
			// search session.
			logger.Warn("query history unavailable: %v", err)
			a.history = nil
		}
	}

	return a, nil
}

// close releases the app's resources.
func (a *app) close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			logger.Warn("closing history store: %v", err)
		}
	}
}
