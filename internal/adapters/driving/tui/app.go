package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/keymap"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/messages"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/styles"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/views/details"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/views/search"
	"github.com/bibrarian/bibrarian-cli/internal/logger"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	// searchView is the search box with live results.
	searchView *search.View

	// detailsView shows one record in full.
	detailsView *details.View

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates the first WindowSizeMsg has arrived.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		searchView:  search.NewView(s, km, ports.Search, ports.Selection),
		detailsView: details.NewView(s, km, ports.Selection),
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("bibrarian - Bibliography Search"),
		a.searchView.Init(),
		a.listenRedraw(),
	)
}

// listenRedraw waits for the next background wake-up. The command is
// re-issued after every tick so the listener is always armed.
func (a *App) listenRedraw() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-a.ctx.Done():
			return nil
		case <-a.ports.Redraw:
			return messages.RedrawTick{}
		}
	}
}

// commit runs the write-back off the UI goroutine.
func (a *App) commit() tea.Cmd {
	return func() tea.Msg {
		return messages.CommitDone{Err: a.ports.Commit.Commit(a.ctx)}
	}
}

// recordQuery persists a submitted query to the history store.
func (a *App) recordQuery(query string) tea.Cmd {
	history := a.ports.History
	if history == nil {
		return nil
	}
	ctx := a.ctx
	return func() tea.Msg {
		if err := history.RecordQuery(ctx, query); err != nil {
			logger.Warn("recording query: %v", err)
		}
		return nil
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.searchView.SetDimensions(msg.Width, msg.Height)
		a.detailsView.SetDimensions(msg.Width, msg.Height)
		a.searchView.Refresh()
		return a, nil

	case messages.RedrawTick:
		a.searchView.Refresh()
		return a, a.listenRedraw()

	case messages.QuerySubmitted:
		return a, a.recordQuery(msg.Query)

	case messages.DetailsRequested:
		a.detailsView.SetRecord(msg.Record)
		a.currentView = messages.ViewDetails
		return a, nil

	case messages.CommitDone:
		if msg.Err != nil {
			// The write-back failed but the session still ends; the log
			// carries the details.
			logger.Error("commit: %v", msg.Err)
			a.err = msg.Err
		}
		return a, tea.Quit

	case tea.KeyMsg:
		switch {
		case keymap.Matches(msg.String(), a.keymap.Quit):
			return a, tea.Quit
		case keymap.Matches(msg.String(), a.keymap.Commit):
			return a, a.commit()
		}

		switch a.currentView {
		case messages.ViewDetails:
			if keymap.Matches(msg.String(), a.keymap.Back) {
				a.currentView = messages.ViewSearch
				a.searchView.Refresh()
				return a, nil
			}
			a.detailsView, cmd = a.detailsView.Update(msg)
			return a, cmd

		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward other messages to the active view.
	switch a.currentView {
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewDetails:
		a.detailsView, cmd = a.detailsView.Update(msg)
	}
	return a, cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewDetails:
		return a.detailsView.View()
	default:
		return a.searchView.View()
	}
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its dimensions.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
	a.detailsView.SetDimensions(width, height)
}
