// Package knobui draws knobs as terminal gauges.
package knobui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rapidmidiex/lambvoice/knob"
	"github.com/rapidmidiex/lambvoice/styles"
)

// Gesture sizes, as fractions of a knob's travel.
const (
	FineStep   = 1 / knob.DefaultTravel
	CoarseStep = 10 / knob.DefaultTravel
	// Vertical mouse drag, per cell.
	DragStep = 2.5 / knob.DefaultTravel
)

// Render draws k with its label above the gauge and value below it.
func Render(k *knob.Knob, label, value string, focused bool) string {
	style := styles.KnobStyle
	if focused {
		style = styles.FocusedKnobStyle
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Center,
		styles.BoldStyle.Render(label),
		Gauge(k.Position(), styles.KnobWidth),
		value,
	))
}

// Gauge renders pos in [0, 1] as a bar width cells wide.
func Gauge(pos float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(math.Max(0, math.Min(1, pos)) * float64(width)))
	return styles.KnobFill.Render(strings.Repeat("█", filled)) +
		styles.KnobEmpty.Render(strings.Repeat("░", width-filled))
}
