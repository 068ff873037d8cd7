package scaleui_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rapidmidiex/lambvoice/scale"
	"github.com/rapidmidiex/lambvoice/scaleui"
	"github.com/stretchr/testify/require"
)

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var msgs []tea.Msg
	for _, c := range batch {
		msgs = append(msgs, collect(c)...)
	}
	return msgs
}

func TestSelect(t *testing.T) {
	m := scaleui.New(scale.MinPitch, scale.MaxPitch).Focus("pentatonic")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Contains(t, collect(cmd), scaleui.ScaleSelected{Name: "pentatonic"})
}

func TestClose(t *testing.T) {
	m := scaleui.New(scale.MinPitch, scale.MaxPitch)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.Contains(t, collect(cmd), scaleui.Closed{})
}

func TestView(t *testing.T) {
	m := scaleui.New(scale.MinPitch, scale.MaxPitch).Focus("ionian")
	got := m.View()
	require.Contains(t, got, "ionian")
	require.Contains(t, got, "2 2 1 2 2 2 1")
	require.Contains(t, got, "C1 D1 E1 F1")

	got = m.Focus(scale.Free).View()
	require.Contains(t, got, "continuous")
}
