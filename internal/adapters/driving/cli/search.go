package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	bibcodec "github.com/bibrarian/bibrarian-cli/internal/adapters/driven/bibtex"
	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driven"
	"github.com/bibrarian/bibrarian-cli/internal/logger"
	"github.com/bibrarian/bibrarian-cli/internal/sources/bibfile"
	"github.com/bibrarian/bibrarian-cli/internal/sources/dblp"
)

var (
	searchLimit int
	searchJSON  bool
	searchLocal bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run one search and print the results",
	Long: `Searches every configured source once and prints the combined
results. Unlike the interactive mode, sources are queried to completion
before anything is printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = unlimited)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchLocal, "local", false, "skip the remote source")
	rootCmd.AddCommand(searchCmd)
}

// searchProviders builds the providers for a one-shot search.
func searchProviders() []driven.Provider {
	codec := bibcodec.NewCodec()

	var providers []driven.Provider
	for _, pattern := range cfg.BibFiles {
		providers = append(providers, bibfile.NewSource(pattern, codec))
	}
	if cfg.BibOutput != "" {
		providers = append(providers, bibfile.NewOutput(cfg.BibOutput, codec))
	}
	if cfg.DBLP.Enabled && !searchLocal {
		providers = append(providers, dblp.NewProvider(dblp.Config{
			Endpoint:          cfg.DBLP.Endpoint,
			RequestsPerSecond: cfg.DBLP.RequestsPerSecond,
			Burst:             cfg.DBLP.Burst,
		}))
	}
	return providers
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	ctx := cmd.Context()

	providers := searchProviders()
	if len(providers) == 0 {
		return errors.New("no sources configured; set bib_files, bib_output or dblp in the config")
	}

	var records []domain.Record
	for _, p := range providers {
		status, err := p.Load(ctx)
		if err != nil {
			logger.Warn("loading %s: %v", p.Origin(), err)
		}
		if status == domain.StatusNoFile {
			logger.Info("source %s has no file, skipping", p.Origin())
			continue
		}

		err = p.Search(ctx, query, func(rec domain.Record) {
			records = append(records, rec)
		})
		if err != nil {
			logger.Error("searching %s: %v", p.Origin(), err)
		}
	}

	if searchLimit > 0 && len(records) > searchLimit {
		records = records[:searchLimit]
	}

	if searchJSON {
		return outputSearchJSON(cmd, records)
	}
	return outputSearchTable(cmd, records)
}

func outputSearchJSON(cmd *cobra.Command, records []domain.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, records []domain.Record) error {
	if len(records) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i, rec := range records {
		cmd.Printf("  [%d] %s: %s (%s)\n", i+1, rec.AbbrevAuthors(), rec.DisplayTitle(), rec.DisplayYear())
		cmd.Printf("      %s  (%s)\n", rec.Key, rec.SourceOrigin)
		if rec.Venue != "" {
			cmd.Printf("      %s\n", rec.Venue)
		}
	}
	cmd.Println()
	cmd.Printf("%d results\n", len(records))
	return nil
}
