// Package cli implements the command-line interface. The bare command
// launches the interactive TUI; subcommands cover one-shot searches,
// the query history and version information.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/bibrarian/bibrarian-cli/internal/adapters/driven/config/file"
	"github.com/bibrarian/bibrarian-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagConfig  string
	flagVerbose bool
	flagLogFile string

	// cfg is the loaded configuration, available to every command after
	// the persistent pre-run.
	cfg file.Config
)

var rootCmd = &cobra.Command{
	Use:   "bibrarian",
	Short: "Federated bibliography search",
	Long: `bibrarian searches your local BibTeX files and DBLP from one
interactive search box. Results stream in live while you type; selected
entries are merged into your own bibliography file on exit.

Controls:
  (type)    Search all sources
  tab       Switch between search box and results
  ↑/k, ↓/j  Navigate results
  space     Select / deselect a record
  i         Record details
  o         Open the record's URL in the browser
  alt+N     Toggle source N, alt+0 all off, alt+a all on
  ctrl+w    Write selection and quit
  ctrl+c    Quit without writing`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)

		var err error
		cfg, err = file.Load(flagConfig)
		if err != nil {
			return err
		}

		logPath := cfg.LogFile
		if flagLogFile != "" {
			logPath = flagLogFile
		}
		if logPath != "" {
			if err := logger.SetFile(logPath); err != nil {
				return err
			}
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		logger.Close()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default ~/.bibrarian/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "log file (overrides config)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command under ctx. Cancelling ctx tears
// down the TUI and every in-flight search.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
