package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive search (default)",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("interactive mode needs a terminal; use the search subcommand for scripted use")
	}

	if len(cfg.BibFiles) == 0 && cfg.BibOutput == "" && !cfg.DBLP.Enabled {
		return errors.New("no sources configured; set bib_files, bib_output or dblp in the config")
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cmd.Context()
	a.coordinator.Start(ctx)

	ports := tui.NewPorts(a.coordinator, a.coordinator, a.coordinator, a.redraw.C())
	ports.History = a.history

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("creating TUI: %w", err)
	}

	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
