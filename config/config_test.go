package config_test

import (
	"testing"

	"github.com/rapidmidiex/lambvoice/config"
	"github.com/rapidmidiex/lambvoice/voice"
	"github.com/rapidmidiex/lambvoice/voxerr"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("default is valid", func(t *testing.T) {
		require.NoError(t, config.Default().Validate())
	})

	broken := map[string]func(*config.Config){
		"no voices":      func(c *config.Config) { c.Voices = 0 },
		"too many":       func(c *config.Config) { c.Voices = 5 },
		"low ceiling":    func(c *config.Config) { c.Ceiling = 20 },
		"unknown scale":  func(c *config.Config) { c.Scale = "bebop" },
		"root too high":  func(c *config.Config) { c.Root = 12 },
		"no sample rate": func(c *config.Config) { c.SampleRate = 0 },
	}
	for name, breakIt := range broken {
		t.Run(name, func(t *testing.T) {
			c := config.Default()
			breakIt(&c)
			require.ErrorIs(t, c.Validate(), voxerr.ErrInvalidConfig)
		})
	}
}

func TestBounds(t *testing.T) {
	c := config.Default()
	c.Ceiling = config.CeilingC9
	c.RootRounding = voice.RoundTruncate

	b := c.Bounds()
	require.Equal(t, 24, b.MinPitch)
	require.Equal(t, 84, b.MaxPitch)
	require.InDelta(t, 32.70, b.MinFrequency, 0.01)
	require.Equal(t, 8372.0, b.MaxFrequency)
	require.Equal(t, voice.RoundTruncate, b.RootRounding)
}

func TestParseRounding(t *testing.T) {
	r, err := config.ParseRounding("Round")
	require.NoError(t, err)
	require.Equal(t, voice.RoundNearest, r)

	r, err = config.ParseRounding("truncate")
	require.NoError(t, err)
	require.Equal(t, voice.RoundTruncate, r)

	_, err = config.ParseRounding("ceil")
	require.ErrorIs(t, err, voxerr.ErrInvalidConfig)
}
