// Package details implements the single-record details view: the full
// metadata plus the BibTeX entry text once it is available.
package details

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/browser"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/keymap"
	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/styles"
	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driving"
)

// View shows one record in full.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	selection driving.SelectionPort

	record domain.Record
	width  int
	height int
}

// NewView creates the details view.
func NewView(s *styles.Styles, km *keymap.KeyMap, selection driving.SelectionPort) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:    s,
		keymap:    km,
		selection: selection,
		width:     80,
		height:    24,
	}
}

// SetRecord sets the displayed record.
func (v *View) SetRecord(rec domain.Record) {
	v.record = rec
}

// Record returns the displayed record.
func (v *View) Record() domain.Record {
	return v.record
}

// Update handles messages. Toggling selection and opening the record's
// URL work from here too.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch keyStr := keyMsg.String(); {
	case keymap.Matches(keyStr, v.keymap.ToggleSelect):
		v.selection.Toggle(v.record)
	case keymap.Matches(keyStr, v.keymap.OpenURL):
		if v.record.URL != "" {
			return v, browser.OpenCmd(v.record.URL)
		}
	}
	return v, nil
}

// View renders the details view.
func (v *View) View() string {
	rec := v.record

	lines := []string{
		v.styles.Title.Render(rec.DisplayTitle()),
		"",
		v.field("Authors", strings.Join(rec.Authors, ", ")),
		v.field("Year", rec.DisplayYear()),
		v.field("Venue", rec.DisplayVenue()),
		v.field("Key", rec.Key),
		v.field("Source", rec.SourceOrigin),
	}
	if rec.URL != "" {
		lines = append(lines, v.field("URL", rec.URL))
	}
	if v.selection.IsSelected(rec.CompositeKey()) {
		lines = append(lines, "", v.styles.Marked.Render("In selection"))
	}

	lines = append(lines, "", v.styles.Subtitle.Render("BibTeX"), v.renderEntry())
	hint := "esc: back | space: select"
	if rec.URL != "" {
		hint += " | o: open url"
	}
	lines = append(lines, "", v.styles.Help.Render(hint))

	return strings.Join(lines, "\n")
}

// field renders one labelled metadata line.
func (v *View) field(label, value string) string {
	if value == "" {
		value = "Unknown"
	}
	return v.styles.Muted.Render(label+": ") + v.styles.Normal.Render(value)
}

// renderEntry renders the BibTeX section according to fetch progress.
func (v *View) renderEntry() string {
	if raw, ok := v.selection.ResolvedText(v.record); ok {
		return v.styles.Normal.Render(raw)
	}

	switch v.selection.ResolutionState(v.record) {
	case driving.ResolvePending:
		return v.styles.Warning.Render("Fetching entry...")
	case driving.ResolveFailed:
		return v.styles.Error.Render("Fetching entry failed")
	default:
		return v.styles.Muted.Render("Entry not fetched yet; select the record to fetch it")
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}
