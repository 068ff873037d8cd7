// Package historyui shows a scrolling log of pitch, scale and remote events.
package historyui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rapidmidiex/lambvoice/voxerr"
)

// Reference:
// https://github.com/charmbracelet/bubbletea/blob/master/examples/chat/main.go

const maxLines = 200

type (
	// AppendMsg adds a line to the history.
	AppendMsg struct {
		Line string
		// Remote lines come from the mirror peer.
		Remote bool
	}

	Model struct {
		viewport    viewport.Model
		lines       []string
		localStyle  lipgloss.Style
		remoteStyle lipgloss.Style
		errStyle    lipgloss.Style
	}
)

func New(width, height int) Model {
	vp := viewport.New(width, height)
	vp.SetContent("Turn a knob. Scale and root changes show up here.")

	return Model{
		viewport:    vp,
		lines:       []string{},
		localStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		remoteStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		errStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)

	switch msg := msg.(type) {
	case AppendMsg:
		if msg.Remote {
			m = m.add(m.remoteStyle.Render("remote: " + msg.Line))
		} else {
			m = m.add(m.localStyle.Render(msg.Line))
		}

	// We handle errors just like any other message
	case voxerr.ErrMsg:
		m = m.add(m.errStyle.Render(msg.Error()))
	}

	return m, vpCmd
}

func (m Model) View() string {
	return m.viewport.View()
}

// Lines returns the rendered history, oldest first.
func (m Model) Lines() []string {
	return m.lines
}

func (m Model) add(line string) Model {
	m.lines = append(m.lines, line)
	if len(m.lines) > maxLines {
		m.lines = m.lines[len(m.lines)-maxLines:]
	}
	m.viewport.SetContent(strings.Join(m.lines, "\n"))
	m.viewport.GotoBottom()
	return m
}

// Append returns a command that adds line to the history.
func Append(line string) tea.Cmd {
	return func() tea.Msg {
		return AppendMsg{Line: line}
	}
}
