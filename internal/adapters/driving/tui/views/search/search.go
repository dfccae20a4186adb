// Package search implements the main view: the search box, the live
// result list, the selection panel and the source status bar.
package search

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/browser"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/components/input"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/components/list"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/components/status"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/keymap"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/messages"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/styles"
	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driving"
)

// View is the search view. Every keystroke in the search box dispatches
// a new search generation; the result list refreshes on every redraw
// tick as sources stream their hits in.
type View struct {
	styles *styles.Styles
	keymap *keymap.KeyMap

	search    driving.SearchPort
	selection driving.SelectionPort

	input *input.SearchInput
	list  *list.ResultList
	bar   *status.Bar

	// focusList is true when the result list has focus instead of the
	// search box.
	focusList bool

	width  int
	height int
}

// NewView creates the search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, search driving.SearchPort, selection driving.SelectionPort) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		search:    search,
		selection: selection,
		input:     input.NewSearchInput(s),
		list:      list.NewResultList(s, km),
		bar:       status.NewBar(s, km),
		width:     80,
		height:    24,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Refresh pulls the current results and source statuses from the ports.
// The app calls it on every redraw tick.
func (v *View) Refresh() {
	v.list.SetResults(v.search.VisibleResults())
	v.bar.SetSources(v.search.Sources())
}

// Update handles messages.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	keyStr := keyMsg.String()

	// Source toggles work regardless of focus.
	if idx := keymap.SourceToggleIndex(keyStr); idx >= 0 {
		v.search.ToggleSource(idx)
		v.Refresh()
		return v, nil
	}
	switch {
	case keymap.Matches(keyStr, v.keymap.AllSourcesOff):
		v.search.SetAllSources(false)
		v.Refresh()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.AllSourcesOn):
		v.search.SetAllSources(true)
		v.Refresh()
		return v, nil
	case keymap.Matches(keyStr, v.keymap.SwitchFocus):
		v.toggleFocus()
		return v, nil
	}

	if v.focusList {
		return v.updateList(keyMsg)
	}
	return v.updateInput(keyMsg)
}

// updateInput forwards a key to the search box and dispatches on change.
func (v *View) updateInput(msg tea.KeyMsg) (*View, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		query := v.input.Value()
		return v, func() tea.Msg {
			return messages.QuerySubmitted{Query: query}
		}
	}

	var cmd tea.Cmd
	var changed bool
	v.input, cmd, changed = v.input.Update(msg)
	if changed {
		v.search.Dispatch(v.input.Value())
		v.Refresh()
	}
	return v, cmd
}

// updateList handles keys while the result list has focus.
func (v *View) updateList(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.ToggleSelect):
		if res := v.list.SelectedResult(); res != nil {
			v.selection.Toggle(res.Record)
			v.Refresh()
		}
		return v, nil

	case keymap.Matches(keyStr, v.keymap.Details):
		if res := v.list.SelectedResult(); res != nil {
			rec := res.Record
			return v, func() tea.Msg {
				return messages.DetailsRequested{Record: rec}
			}
		}
		return v, nil

	case keymap.Matches(keyStr, v.keymap.OpenURL):
		if res := v.list.SelectedResult(); res != nil && res.Record.URL != "" {
			return v, browser.OpenCmd(res.Record.URL)
		}
		return v, nil
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// toggleFocus moves focus between the search box and the result list.
func (v *View) toggleFocus() {
	v.focusList = !v.focusList
	if v.focusList {
		v.input.Blur()
		v.bar.SetHints(v.keymap.ResultsHelp())
	} else {
		v.input.Focus()
		v.bar.SetHints(v.keymap.SearchHelp())
	}
}

// View renders the search view.
func (v *View) View() string {
	sections := []string{
		v.input.View(),
		"",
		v.renderSelection(),
		"",
		v.list.View(),
	}

	body := strings.Join(sections, "\n")

	// Pin the status bar to the bottom.
	bodyHeight := strings.Count(body, "\n") + 1
	if pad := v.height - bodyHeight - 1; pad > 0 {
		body += strings.Repeat("\n", pad)
	}

	return body + "\n" + v.bar.View()
}

// renderSelection renders the selected-keys panel.
func (v *View) renderSelection() string {
	selected := v.selection.Selected()
	if len(selected) == 0 {
		return v.styles.Muted.Render("Selected: none")
	}

	keys := make([]string, 0, len(selected))
	for _, rec := range selected {
		keys = append(keys, v.renderSelectedKey(rec))
	}

	header := v.styles.Subtitle.Render(fmt.Sprintf("Selected (%d): ", len(selected)))
	return header + strings.Join(keys, ", ")
}

// renderSelectedKey renders one selected key, coloured by its fetch
// state so a slow remote entry is visible before commit.
func (v *View) renderSelectedKey(rec domain.Record) string {
	switch v.selection.ResolutionState(rec) {
	case driving.ResolvePending:
		return v.styles.Warning.Render(rec.Key + "…")
	case driving.ResolveFailed:
		return v.styles.Error.Render(rec.Key + "!")
	default:
		return v.styles.Marked.Render(rec.Key)
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-8)
	v.bar.SetWidth(width)
}

// Query returns the current search box text.
func (v *View) Query() string {
	return v.input.Value()
}

// FocusOnList reports whether the result list has focus.
func (v *View) FocusOnList() bool {
	return v.focusList
}

// SelectedRecord returns the record under the cursor, or nil.
func (v *View) SelectedRecord() *driving.Result {
	return v.list.SelectedResult()
}
