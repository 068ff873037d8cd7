package keymap

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type Mapping struct {
	CycleFocus key.Binding
	CycleBack  key.Binding
	Increase   key.Binding
	Decrease   key.Binding
	CoarseUp   key.Binding
	CoarseDown key.Binding
	Reset      key.Binding
	PlayStop   key.Binding
	Scales     key.Binding
	Select     key.Binding
	Help       key.Binding
	GoBack     key.Binding
	Quit       key.Binding
}

var DefaultMapping = Mapping{
	CycleFocus: key.NewBinding(
		key.WithKeys(tea.KeyTab.String()),
		key.WithHelp("tab", "next control"),
	),
	CycleBack: key.NewBinding(
		key.WithKeys(tea.KeyShiftTab.String()),
		key.WithHelp("shift+tab", "previous control"),
	),
	Increase: key.NewBinding(
		key.WithKeys("right", "l", "up", "k"),
		key.WithHelp("→/l", "turn up"),
	),
	Decrease: key.NewBinding(
		key.WithKeys("left", "h", "down", "j"),
		key.WithHelp("←/h", "turn down"),
	),
	CoarseUp: key.NewBinding(
		key.WithKeys("shift+right", "L", "pgup"),
		key.WithHelp("L", "turn up more"),
	),
	CoarseDown: key.NewBinding(
		key.WithKeys("shift+left", "H", "pgdown"),
		key.WithHelp("H", "turn down more"),
	),
	Reset: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "reset"),
	),
	PlayStop: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "play/stop"),
	),
	Scales: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "scales"),
	),
	Select: key.NewBinding(
		key.WithKeys(tea.KeyEnter.String()),
		key.WithHelp("enter", "select"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	GoBack: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "go back"),
	),
	Quit: key.NewBinding(
		key.WithKeys(tea.KeyCtrlC.String(), "q"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (m Mapping) ShortHelp() []key.Binding {
	return []key.Binding{m.CycleFocus, m.Increase, m.Decrease, m.PlayStop, m.Scales, m.Help, m.Quit}
}

// FullHelp implements help.KeyMap.
func (m Mapping) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.CycleFocus, m.CycleBack, m.Scales, m.Select, m.GoBack},
		{m.Increase, m.Decrease, m.CoarseUp, m.CoarseDown, m.Reset},
		{m.PlayStop, m.Help, m.Quit},
	}
}
