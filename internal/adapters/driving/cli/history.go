package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bibrarian/bibrarian-cli/internal/adapters/driven/storage/sqlite"
	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent search queries",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of queries to show")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if !cfg.History.Enabled {
		return fmt.Errorf("query history is disabled in the config: %w", domain.ErrHistoryUnavailable)
	}

	path, err := cfg.HistoryPath()
	if err != nil {
		return err
	}

	store, err := sqlite.NewHistoryStore(path)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer store.Close()

	events, err := store.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	if len(events) == 0 {
		cmd.Println("No queries recorded yet.")
		return nil
	}

	for _, ev := range events {
		cmd.Printf("%s  %s\n", ev.SearchedAt.Local().Format("2006-01-02 15:04"), ev.Query)
	}
	return nil
}
