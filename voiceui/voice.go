// Package voiceui is the panel of one voice: its PITCH knob and SUB level knob.
package voiceui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rapidmidiex/lambvoice/keymap"
	"github.com/rapidmidiex/lambvoice/knob"
	"github.com/rapidmidiex/lambvoice/knobui"
	"github.com/rapidmidiex/lambvoice/styles"
	"github.com/rapidmidiex/lambvoice/voice"
)

const (
	NoFocus Part = iota
	PitchFocus
	SubFocus
)

type (
	Part int

	// SubLeveler sets how much of the sub oscillator is mixed in.
	SubLeveler interface {
		SetSubLevel(voice int, level float64)
	}

	// NudgeMsg turns the focused knob by Delta, in fractions of its travel.
	NudgeMsg struct {
		Delta float64
	}

	// PitchChangedMsg is sent after every pitch gesture.
	PitchChangedMsg struct {
		Voice  string
		Output voice.Output
	}

	Model struct {
		ctrl    *voice.Controller
		sub     *knob.Knob
		leveler SubLeveler
		focus   Part
	}
)

func New(ctrl *voice.Controller, leveler SubLeveler) Model {
	return Model{
		ctrl:    ctrl,
		sub:     knob.New(knob.Config{Min: 0, Max: 1, Default: 0}),
		leveler: leveler,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keymap.DefaultMapping.Increase):
			return m, m.turn(knobui.FineStep)
		case key.Matches(msg, keymap.DefaultMapping.Decrease):
			return m, m.turn(-knobui.FineStep)
		case key.Matches(msg, keymap.DefaultMapping.CoarseUp):
			return m, m.turn(knobui.CoarseStep)
		case key.Matches(msg, keymap.DefaultMapping.CoarseDown):
			return m, m.turn(-knobui.CoarseStep)
		case key.Matches(msg, keymap.DefaultMapping.Reset):
			return m, m.reset()
		}
	case NudgeMsg:
		return m, m.turn(msg.Delta)
	}
	return m, nil
}

func (m Model) View() string {
	out := m.ctrl.Output()
	pitch := knobui.Render(m.ctrl.Knob(), "PITCH", out.Label, m.focus == PitchFocus)
	sub := knobui.Render(m.sub, "SUB", fmt.Sprintf("%.0f%%", m.sub.Value()*100), m.focus == SubFocus)

	mode := styles.DimStyle.Render(fmt.Sprintf("%s · sub %.2f Hz", out.Mode, out.SubFrequency))
	return styles.PanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.PanelTitle.Render("VOICE "+m.ctrl.Name()),
		lipgloss.JoinHorizontal(lipgloss.Top, pitch, sub),
		mode,
	))
}

// Focus moves focus inside the panel. NoFocus blurs it.
func (m Model) Focus(p Part) Model {
	m.focus = p
	return m
}

func (m Model) Focused() Part {
	return m.focus
}

func (m Model) Controller() *voice.Controller {
	return m.ctrl
}

// SubLevel is the position of the SUB knob, 0 to 1.
func (m Model) SubLevel() float64 {
	return m.sub.Value()
}

func (m Model) turn(delta float64) tea.Cmd {
	switch m.focus {
	case PitchFocus:
		return m.pitchChanged(m.ctrl.Drag(delta))
	case SubFocus:
		m.setSubLevel(m.sub.Drag(delta).Raw)
	}
	return nil
}

func (m Model) reset() tea.Cmd {
	switch m.focus {
	case PitchFocus:
		// the pitch knob ignores resets
		m.ctrl.Reset()
	case SubFocus:
		r, _ := m.sub.Reset()
		m.setSubLevel(r.Raw)
	}
	return nil
}

func (m Model) setSubLevel(level float64) {
	if m.leveler != nil {
		m.leveler.SetSubLevel(m.ctrl.ID(), level)
	}
}

func (m Model) pitchChanged(out voice.Output) tea.Cmd {
	name := m.ctrl.Name()
	return func() tea.Msg {
		return PitchChangedMsg{Voice: name, Output: out}
	}
}
