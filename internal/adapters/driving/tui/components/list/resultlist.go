// Package list provides the result list component for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/keymap"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/styles"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driving"
)

// ResultList displays search results in a navigable list. Results
// refresh continuously while sources stream in, so the cursor follows
// the highlighted record by identity rather than by index.
type ResultList struct {
	results []driving.Result
	cursor  int
	keymap  *keymap.KeyMap
	styles  *styles.Styles
	width   int
	height  int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles, km *keymap.KeyMap) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &ResultList{
		keymap: km,
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keymap.Matches(msg.String(), r.keymap.Up):
			r.MoveUp()
		case keymap.Matches(msg.String(), r.keymap.Down):
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No results")
	}

	header := r.styles.Subtitle.Render(fmt.Sprintf("Results (%d)", len(r.results)))
	lines := []string{header, ""}

	visible := r.height - 4
	if visible < 1 {
		visible = 1
	}

	start := 0
	if r.cursor >= visible {
		start = r.cursor - visible + 1
	}
	end := start + visible
	if end > len(r.results) {
		end = len(r.results)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, r.results[i]))
	}

	return strings.Join(lines, "\n")
}

// renderResult formats one row: selection mark, authors, title, year.
func (r *ResultList) renderResult(index int, res driving.Result) string {
	mark := "[ ]"
	if res.Selected {
		mark = "[x]"
	}

	rec := res.Record
	row := fmt.Sprintf("%s %s: %s (%s)", mark, rec.AbbrevAuthors(), rec.DisplayTitle(), rec.DisplayYear())

	maxLen := r.width - 4
	if maxLen < 20 {
		maxLen = 20
	}
	if len(row) > maxLen {
		row = row[:maxLen-3] + "..."
	}

	switch {
	case index == r.cursor:
		return r.styles.Selected.Render("> " + row)
	case res.Selected:
		return r.styles.Marked.Render("  " + row)
	default:
		return r.styles.Normal.Render("  " + row)
	}
}

// SetResults replaces the list contents. The cursor stays on the same
// record when it is still present, otherwise it clamps into range.
func (r *ResultList) SetResults(results []driving.Result) {
	var currentKey string
	if cur := r.SelectedResult(); cur != nil {
		currentKey = cur.Record.CompositeKey()
	}

	r.results = results

	if currentKey != "" {
		for i, res := range results {
			if res.Record.CompositeKey() == currentKey {
				r.cursor = i
				return
			}
		}
	}
	if r.cursor >= len(results) {
		r.cursor = len(results) - 1
	}
	if r.cursor < 0 {
		r.cursor = 0
	}
}

// Results returns the current results.
func (r *ResultList) Results() []driving.Result {
	return r.results
}

// SelectedResult returns the record under the cursor, or nil.
func (r *ResultList) SelectedResult() *driving.Result {
	if len(r.results) == 0 || r.cursor < 0 || r.cursor >= len(r.results) {
		return nil
	}
	return &r.results[r.cursor]
}

// Cursor returns the cursor index.
func (r *ResultList) Cursor() int {
	return r.cursor
}

// MoveUp moves the cursor up.
func (r *ResultList) MoveUp() {
	if r.cursor > 0 {
		r.cursor--
	}
}

// MoveDown moves the cursor down.
func (r *ResultList) MoveDown() {
	if r.cursor < len(r.results)-1 {
		r.cursor++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}
