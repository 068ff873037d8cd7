// Package config holds the runtime settings of the voice surface.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/rapidmidiex/lambvoice/pitch"
	"github.com/rapidmidiex/lambvoice/scale"
	"github.com/rapidmidiex/lambvoice/synth"
	"github.com/rapidmidiex/lambvoice/voice"
	"github.com/rapidmidiex/lambvoice/voxerr"
)

const (
	MaxVoices = 4

	// C6, the top of the pitch range.
	CeilingC6 = 1046.5
	// C9, the alternative free-mode ceiling.
	CeilingC9 = 8372.0
)

type Config struct {
	// Number of voice panels, 1 to MaxVoices.
	Voices int
	// Highest frequency in free mode, Hz.
	Ceiling      float64
	RootRounding voice.Rounding
	// Initial scale.
	Scale string
	// Initial root, semitones.
	Root       float64
	SampleRate int
	// Open the audio device.
	Audio bool
	// Optional websocket URL to mirror pitches to.
	Server  string
	LogFile string
}

func Default() Config {
	return Config{
		Voices:       MaxVoices,
		Ceiling:      CeilingC6,
		RootRounding: voice.RoundNearest,
		Scale:        scale.Chromatic,
		SampleRate:   synth.DefaultSampleRate,
		Audio:        true,
	}
}

func (c Config) Validate() error {
	if c.Voices < 1 || c.Voices > MaxVoices {
		return fmt.Errorf("voices %d not in [1, %d]: %w", c.Voices, MaxVoices, voxerr.ErrInvalidConfig)
	}
	floor := pitch.ToFrequency(scale.MinPitch)
	if math.IsNaN(c.Ceiling) || c.Ceiling <= floor {
		return fmt.Errorf("ceiling %v Hz must be above %.2f Hz: %w", c.Ceiling, floor, voxerr.ErrInvalidConfig)
	}
	if _, err := scale.Lookup(c.Scale); err != nil {
		return fmt.Errorf("%v: %w", err, voxerr.ErrInvalidConfig)
	}
	if c.Root < 0 || c.Root > 11 {
		return fmt.Errorf("root %v not in [0, 11]: %w", c.Root, voxerr.ErrInvalidConfig)
	}
	if c.SampleRate < 8000 {
		return fmt.Errorf("sample rate %d too low: %w", c.SampleRate, voxerr.ErrInvalidConfig)
	}
	return nil
}

// Bounds returns the voice bounds for this config.
func (c Config) Bounds() voice.Bounds {
	b := voice.DefaultBounds()
	b.MaxFrequency = c.Ceiling
	b.RootRounding = c.RootRounding
	return b
}

// ParseRounding accepts "round" and "truncate".
func ParseRounding(s string) (voice.Rounding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "round", "":
		return voice.RoundNearest, nil
	case "truncate", "trunc":
		return voice.RoundTruncate, nil
	}
	return 0, fmt.Errorf("root rounding %q: %w", s, voxerr.ErrInvalidConfig)
}
