package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibrarian/bibrarian-cli/internal/adapters/driving/tui/messages"
	"github.com/bibrarian/bibrarian-cli/internal/core/domain"
	"github.com/bibrarian/bibrarian-cli/internal/core/ports/driving"
)

// fakeSearch implements driving.SearchPort for testing.
type fakeSearch struct {
	results    []driving.Result
	sources    []driving.SourceStatus
	dispatched []string
	generation uint64
}

func (f *fakeSearch) Dispatch(text string) uint64 {
	f.generation++
	f.dispatched = append(f.dispatched, text)
	return f.generation
}
func (f *fakeSearch) Generation() uint64                { return f.generation }
func (f *fakeSearch) VisibleResults() []driving.Result  { return f.results }
func (f *fakeSearch) Sources() []driving.SourceStatus   { return f.sources }
func (f *fakeSearch) SetAllSources(enabled bool) {
	for i := range f.sources {
		f.sources[i].Enabled = enabled
	}
}
func (f *fakeSearch) ToggleSource(index int) {
	if index >= 0 && index < len(f.sources) {
		f.sources[index].Enabled = !f.sources[index].Enabled
	}
}

// fakeSelection implements driving.SelectionPort for testing.
type fakeSelection struct {
	selected map[string]domain.Record
	order    []string
}

func newFakeSelection() *fakeSelection {
	return &fakeSelection{selected: make(map[string]domain.Record)}
}

func (f *fakeSelection) Toggle(rec domain.Record) bool {
	key := rec.CompositeKey()
	if _, ok := f.selected[key]; ok {
		delete(f.selected, key)
		return false
	}
	f.selected[key] = rec
	f.order = append(f.order, key)
	return true
}
func (f *fakeSelection) IsSelected(key string) bool { _, ok := f.selected[key]; return ok }
func (f *fakeSelection) Selected() []domain.Record {
	var out []domain.Record
	for _, key := range f.order {
		if rec, ok := f.selected[key]; ok {
			out = append(out, rec)
		}
	}
	return out
}
func (f *fakeSelection) ResolutionState(rec domain.Record) driving.ResolveState {
	if rec.Resolved() {
		return driving.ResolveReady
	}
	return driving.ResolveNone
}
func (f *fakeSelection) ResolvedText(rec domain.Record) (string, bool) {
	return rec.Raw, rec.Resolved()
}

// fakeCommit implements driving.CommitPort for testing.
type fakeCommit struct {
	called bool
	err    error
}

func (f *fakeCommit) Commit(_ context.Context) error {
	f.called = true
	return f.err
}

func testRecord(key string) domain.Record {
	return domain.Record{
		SourceOrigin: "refs.bib",
		Key:          key,
		Title:        "Consensus in Asynchronous Systems",
		Authors:      []string{"Nancy Lynch"},
		Year:         "1989",
		Raw:          "@misc{" + key + ",}",
	}
}

func newTestApp(t *testing.T) (*App, *fakeSearch, *fakeSelection, *fakeCommit) {
	t.Helper()

	search := &fakeSearch{
		sources: []driving.SourceStatus{
			{Info: domain.SourceInfo{Label: "refs.bib"}, Status: domain.StatusReady, Enabled: true},
		},
	}
	selection := newFakeSelection()
	commit := &fakeCommit{}
	redraw := make(chan struct{}, 1)

	app, err := NewApp(NewPorts(search, selection, commit, redraw))
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app, search, selection, commit
}

func keyPress(app *App, keyStr string) (*App, tea.Cmd) {
	var msg tea.Msg
	switch keyStr {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		msg = tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+w":
		msg = tea.KeyMsg{Type: tea.KeyCtrlW}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keyStr)}
	}
	model, cmd := app.Update(msg)
	return model.(*App), cmd
}

func TestNewApp_RequiresPorts(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingSearchPort)

	_, err = NewApp(&Ports{Search: &fakeSearch{}})
	assert.ErrorIs(t, err, ErrMissingSelectionPort)
}

func TestApp_StartsInSearchView(t *testing.T) {
	app, _, _, _ := newTestApp(t)
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.True(t, app.Ready())
}

func TestApp_TypingDispatchesSearch(t *testing.T) {
	app, search, _, _ := newTestApp(t)

	app, _ = keyPress(app, "l")
	app, _ = keyPress(app, "a")

	assert.Equal(t, []string{"l", "la"}, search.dispatched)
}

func TestApp_RedrawTickRefreshesAndRearms(t *testing.T) {
	app, search, _, _ := newTestApp(t)
	search.results = []driving.Result{{Record: testRecord("lynch89")}}

	model, cmd := app.Update(messages.RedrawTick{})
	app = model.(*App)

	require.NotNil(t, cmd, "listener must re-arm after a tick")
	assert.Contains(t, app.View(), "Consensus in Asynchronous Systems")
}

func TestApp_DetailsNavigation(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	rec := testRecord("lynch89")
	model, _ := app.Update(messages.DetailsRequested{Record: rec})
	app = model.(*App)

	assert.Equal(t, messages.ViewDetails, app.CurrentView())
	assert.Contains(t, app.View(), "Consensus in Asynchronous Systems")
	assert.Contains(t, app.View(), "Nancy Lynch")

	app, _ = keyPress(app, "esc")
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_SpaceTogglesSelectionInDetails(t *testing.T) {
	app, _, selection, _ := newTestApp(t)

	rec := testRecord("lynch89")
	model, _ := app.Update(messages.DetailsRequested{Record: rec})
	app = model.(*App)

	app, _ = keyPress(app, " ")
	assert.True(t, selection.IsSelected(rec.CompositeKey()))

	app, _ = keyPress(app, " ")
	assert.False(t, selection.IsSelected(rec.CompositeKey()))
}

func TestApp_CommitWritesAndQuits(t *testing.T) {
	app, _, _, commit := newTestApp(t)

	app, cmd := keyPress(app, "ctrl+w")
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(messages.CommitDone)
	require.True(t, ok)
	assert.NoError(t, done.Err)
	assert.True(t, commit.called)

	model, quitCmd := app.Update(done)
	app = model.(*App)
	require.NotNil(t, quitCmd)
	assert.IsType(t, tea.QuitMsg{}, quitCmd())
}

func TestApp_CommitFailureStillQuits(t *testing.T) {
	app, _, _, commit := newTestApp(t)
	commit.err = errors.New("disk full")

	_, cmd := keyPress(app, "ctrl+w")
	require.NotNil(t, cmd)
	done := cmd().(messages.CommitDone)
	assert.Error(t, done.Err)

	model, quitCmd := app.Update(done)
	app = model.(*App)
	require.NotNil(t, quitCmd)
	assert.IsType(t, tea.QuitMsg{}, quitCmd())
	assert.Error(t, app.Err())
}

func TestApp_QuitWithoutCommit(t *testing.T) {
	app, _, _, commit := newTestApp(t)

	_, cmd := keyPress(app, "ctrl+c")
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, commit.called)
}
