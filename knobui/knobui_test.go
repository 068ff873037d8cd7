package knobui_test

import (
	"strings"
	"testing"

	"github.com/rapidmidiex/lambvoice/knob"
	"github.com/rapidmidiex/lambvoice/knobui"
	"github.com/stretchr/testify/require"
)

func TestGauge(t *testing.T) {
	cases := map[float64]int{0: 0, 0.5: 5, 1: 10, 2: 10, -1: 0}
	for pos, filled := range cases {
		got := knobui.Gauge(pos, 10)
		require.Equal(t, filled, strings.Count(got, "█"), "pos %v", pos)
		require.Equal(t, 10-filled, strings.Count(got, "░"), "pos %v", pos)
	}
	require.Empty(t, knobui.Gauge(0.5, 0))
}

func TestRender(t *testing.T) {
	k := knob.New(knob.Config{Min: 0, Max: 11, Step: 1, Default: 4})
	got := knobui.Render(k, "root", "E", true)
	require.Contains(t, got, "root")
	require.Contains(t, got, "E")
	require.Contains(t, got, "█")
}
