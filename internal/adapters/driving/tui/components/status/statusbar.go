// Package status provides the source status bar for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/keymap"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/styles"
	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driving"
)

// Bar displays every source's live status plus keybinding hints. The
// alt+N toggle number precedes each source label.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	sources []driving.SourceStatus
	hints   []key.Binding
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		hints:  km.SearchHelp(),
		width:  80,
	}
}

// Init initialises the status bar.
func (b *Bar) Init() tea.Cmd {
	return nil
}

// Update handles status bar messages. The bar is passive; state arrives
// through the Set methods.
func (b *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	return b, nil
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderSources()
	right := b.renderHints()

	padding := b.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderSources renders one cell per source.
func (b *Bar) renderSources() string {
	if len(b.sources) == 0 {
		return b.styles.Muted.Render("no sources")
	}

	cells := make([]string, 0, len(b.sources))
	for i, src := range b.sources {
		cells = append(cells, b.renderSource(i, src))
	}
	return strings.Join(cells, "  ")
}

func (b *Bar) renderSource(index int, src driving.SourceStatus) string {
	label := fmt.Sprintf("%d:%s [%s] %s", index+1, src.Info.Label, src.Info.Mode, src.Status)

	if !src.Enabled {
		return b.styles.Muted.Render(label + " (off)")
	}

	switch src.Status {
	case domain.StatusReady:
		return b.styles.Success.Render(label)
	case domain.StatusLoading, domain.StatusSearching:
		return b.styles.Warning.Render(label)
	case domain.StatusNoFile:
		return b.styles.Error.Render(label)
	default:
		return b.styles.Muted.Render(label)
	}
}

// renderHints renders the keybinding hints.
func (b *Bar) renderHints() string {
	hints := make([]string, 0, len(b.hints))
	for _, binding := range b.hints {
		h := binding.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Help.Render(strings.Join(hints, " | "))
}

// SetSources updates the displayed sources.
func (b *Bar) SetSources(sources []driving.SourceStatus) {
	b.sources = sources
}

// Sources returns the displayed sources.
func (b *Bar) Sources() []driving.SourceStatus {
	return b.sources
}

// SetHints sets the keybinding hints for the current focus.
func (b *Bar) SetHints(hints []key.Binding) {
	b.hints = hints
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}
