// Package keymap defines keybindings for the TUI.
package keymap

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits without writing anything.
	Quit key.Binding

	// Commit writes the selection and exits.
	Commit key.Binding

	// ToggleSelect adds or removes the highlighted record from the
	// selection.
	ToggleSelect key.Binding

	// Details opens the record details view.
	Details key.Binding

	// OpenURL launches the highlighted record's URL in the browser.
	OpenURL key.Binding

	// SwitchFocus moves focus between the search box and the result list.
	SwitchFocus key.Binding

	// Up navigates up in the result list.
	Up key.Binding

	// Down navigates down in the result list.
	Down key.Binding

	// Back returns from the details view.
	Back key.Binding

	// AllSourcesOff disables every source.
	AllSourcesOff key.Binding

	// AllSourcesOn enables every source.
	AllSourcesOn key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
		Commit: key.NewBinding(
			key.WithKeys("ctrl+w"),
			key.WithHelp("ctrl+w", "write & quit"),
		),
		ToggleSelect: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select"),
		),
		Details: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "details"),
		),
		OpenURL: key.NewBinding(
			key.WithKeys("o", "@"),
			key.WithHelp("o", "open url"),
		),
		SwitchFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch focus"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		AllSourcesOff: key.NewBinding(
			key.WithKeys("alt+0"),
			key.WithHelp("alt+0", "all sources off"),
		),
		AllSourcesOn: key.NewBinding(
			key.WithKeys("alt+a"),
			key.WithHelp("alt+a", "all sources on"),
		),
	}
}

// SearchHelp returns keybindings shown while the search box is focused.
func (k *KeyMap) SearchHelp() []key.Binding {
	return []key.Binding{k.SwitchFocus, k.Commit, k.Quit}
}

// ResultsHelp returns keybindings shown while the result list is focused.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.ToggleSelect, k.Details, k.OpenURL, k.Up, k.Down, k.SwitchFocus}
}

// SourceToggleIndex maps an alt+digit key press to a zero-based source
// index. alt+1 toggles the first source. Returns -1 for any other key.
func SourceToggleIndex(keyStr string) int {
	digit, ok := strings.CutPrefix(keyStr, "alt+")
	if !ok {
		return -1
	}
	n, err := strconv.Atoi(digit)
	if err != nil || n < 1 || n > 9 {
		return -1
	}
	return n - 1
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
