package voice_test

import (
	"bytes"
	"log"
	"math"
	"testing"

	"github.com/rapidmidiex/lambvoice/pitch"
	"github.com/rapidmidiex/lambvoice/scale"
	"github.com/rapidmidiex/lambvoice/voice"
	"github.com/rapidmidiex/lambvoice/voxerr"
	"github.com/stretchr/testify/require"
)

type push struct {
	voice int
	sub   bool
	hz    float64
}

type recorder struct {
	pushes []push
}

func (r *recorder) SetFrequency(v int, hz float64) {
	r.pushes = append(r.pushes, push{voice: v, hz: hz})
}

func (r *recorder) SetSubFrequency(v int, hz float64) {
	r.pushes = append(r.pushes, push{voice: v, sub: true, hz: hz})
}

func (r *recorder) last() (main, sub push) {
	return r.pushes[len(r.pushes)-2], r.pushes[len(r.pushes)-1]
}

func TestNew(t *testing.T) {
	t.Run("starts scaled at C3 and pushes", func(t *testing.T) {
		rec := &recorder{}
		c := voice.New(2, rec, voice.Shared{Scale: scale.Chromatic})

		require.Equal(t, voice.Scaled, c.State().Mode)
		require.Equal(t, voice.DefaultPitch, c.State().Pitch)
		require.Equal(t, 25, c.State().RawIndex)
		require.Equal(t, "C3", c.Output().Label)
		require.Equal(t, "C", c.Name())

		require.Len(t, rec.pushes, 2)
		main, sub := rec.last()
		require.Equal(t, push{voice: 2, hz: pitch.ToFrequency(48)}, main)
		require.Equal(t, push{voice: 2, sub: true, hz: pitch.ToFrequency(36)}, sub)
	})

	t.Run("starts free on the free scale", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: scale.Free})
		require.Equal(t, voice.Free, c.State().Mode)
		require.InDelta(t, pitch.ToFrequency(48), c.Output().Frequency, 1e-9)
		require.Equal(t, "130.81 Hz", c.Output().Label)
	})

	t.Run("unknown scale plays chromatic", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: "bebop"}, voice.WithPitch(61))
		require.Equal(t, scale.Chromatic, c.Scale().Name)
		require.Equal(t, 61, c.Output().Pitch)
	})
}

func TestScaledScenario(t *testing.T) {
	rec := &recorder{}
	c := voice.New(0, rec, voice.Shared{Scale: "ionian", Root: 0})

	out := c.SetValue(1)
	require.Equal(t, 24, out.Pitch)
	require.Equal(t, "C1", out.Label)
	require.InDelta(t, 32.70, out.Frequency, 0.01)
	require.Equal(t, 12, out.SubPitch)
	require.InDelta(t, 16.35, out.SubFrequency, 0.01)

	main, sub := rec.last()
	require.Equal(t, out.Frequency, main.hz)
	require.Equal(t, out.SubFrequency, sub.hz)
	require.True(t, sub.sub)
}

func TestFreeScenario(t *testing.T) {
	rec := &recorder{}
	c := voice.New(1, rec, voice.Shared{Scale: scale.Free, Root: 4.75})

	out := c.SetValue(440)
	require.InDelta(t, 440*math.Pow(2, 4.75/12), out.Frequency, 1e-6)
	require.InDelta(t, 571.2, out.Frequency, 0.05)
	require.InDelta(t, 285.6, out.SubFrequency, 0.05)
	require.Equal(t, out.Frequency/2, out.SubFrequency)
	require.InDelta(t, 440.0, c.State().FrequencyHz, 1e-9)

	main, sub := rec.last()
	require.Equal(t, push{voice: 1, hz: out.Frequency}, main)
	require.Equal(t, push{voice: 1, sub: true, hz: out.SubFrequency}, sub)
}

func TestTranspose(t *testing.T) {
	t.Run("scaled root shifts the resolved pitch", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: "ionian"})
		c.SetValue(1)
		out := c.Apply(voice.Shared{Scale: "ionian", Root: 4})
		require.Equal(t, 28, out.Pitch)
		require.Equal(t, 1, c.State().RawIndex)
		require.Equal(t, 24, c.State().Pitch)
	})

	t.Run("scaled root is rounded", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: scale.Chromatic, Root: 2.6})
		require.Equal(t, 51, c.Output().Pitch)

		c = voice.New(0, nil, voice.Shared{Scale: scale.Chromatic, Root: 2.6},
			voice.WithBounds(voice.Bounds{
				MinPitch:     24,
				MaxPitch:     84,
				MinFrequency: pitch.ToFrequency(24),
				MaxFrequency: pitch.ToFrequency(84),
				RootRounding: voice.RoundTruncate,
			}))
		require.Equal(t, 50, c.Output().Pitch)
	})

	t.Run("clamps to the top of the range", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: scale.Chromatic, Root: 11})
		out := c.SetValue(float64(c.Lattice().Len()))
		require.Equal(t, 84, c.Lattice().Top())
		require.Equal(t, 84, out.Pitch)
		require.Equal(t, 72, out.SubPitch)
		require.InDelta(t, 1046.5, out.Frequency, 0.01)
	})

	t.Run("free root is multiplicative", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: scale.Free})
		c.SetValue(110)
		low := c.Apply(voice.Shared{Scale: scale.Free, Root: 7}).Frequency
		c.SetValue(220)
		high := c.Apply(voice.Shared{Scale: scale.Free, Root: 7}).Frequency
		require.InDelta(t, 2.0, high/low, 1e-9)
		require.InDelta(t, 110*math.Pow(2, 7.0/12), low, 1e-6)
	})

	t.Run("free output clamps to the frequency bounds", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: scale.Free, Root: 11})
		out := c.SetValue(1000)
		require.Equal(t, c.Bounds().MaxFrequency, out.Frequency)
		require.Equal(t, out.Frequency/2, out.SubFrequency)
	})
}

func TestClampLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)

	t.Run("in range pushes stay quiet", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: scale.Chromatic, Root: 3}, voice.WithLogger(logger))
		c.SetValue(10)
		require.Empty(t, buf.String())
	})

	t.Run("scaled clamp is logged", func(t *testing.T) {
		c := voice.New(1, nil, voice.Shared{Scale: scale.Chromatic, Root: 11}, voice.WithLogger(logger))
		out := c.SetValue(float64(c.Lattice().Len()))
		require.Equal(t, 84, out.Pitch)
		require.Contains(t, buf.String(), "voice B: pitch 95 clamped to 84: "+voxerr.ErrOutOfRange.Error())
	})

	t.Run("free clamp is logged", func(t *testing.T) {
		buf.Reset()
		c := voice.New(2, nil, voice.Shared{Scale: scale.Free, Root: 11}, voice.WithLogger(logger))
		out := c.SetValue(1000)
		require.InDelta(t, 1046.5, out.Frequency, 0.01)
		require.Contains(t, buf.String(), "voice C: frequency")
		require.Contains(t, buf.String(), voxerr.ErrOutOfRange.Error())
	})
}

func TestSubOscillator(t *testing.T) {
	t.Run("scaled sub is an octave below the final pitch", func(t *testing.T) {
		for _, name := range []string{scale.Chromatic, "ionian", "pentatonic", "insen"} {
			for root := 0.0; root <= 11; root++ {
				c := voice.New(0, nil, voice.Shared{Scale: name, Root: root})
				for i := 1; i <= c.Lattice().Len(); i++ {
					out := c.SetValue(float64(i))
					require.Equal(t, out.Pitch-12, out.SubPitch)
					require.Equal(t, pitch.ToFrequency(out.SubPitch), out.SubFrequency)
				}
			}
		}
	})

	t.Run("free sub is half the final frequency", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: scale.Free, Root: 3.3})
		for pos := 0.0; pos <= 1; pos += 0.01 {
			out := c.SetPosition(pos)
			require.Equal(t, out.Frequency/2, out.SubFrequency)
		}
	})
}

func TestModeSwitch(t *testing.T) {
	t.Run("scaled to free keeps the sounding frequency", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: "dorian"})
		before := c.SetValue(9)
		after := c.Apply(voice.Shared{Scale: scale.Free})
		require.Equal(t, voice.Free, after.Mode)
		require.InDelta(t, before.Frequency, after.Frequency, 1e-9)
		// the knob sits on the same frequency
		require.InDelta(t, before.Frequency, c.Knob().Read().Raw, 1e-6)
	})

	t.Run("scaled to free to scaled does not drift", func(t *testing.T) {
		for _, name := range scale.Names() {
			if name == scale.Free {
				continue
			}
			c := voice.New(0, nil, voice.Shared{Scale: name})
			for i := 1; i <= c.Lattice().Len(); i++ {
				c.SetValue(float64(i))
				c.Apply(voice.Shared{Scale: scale.Free})
				c.Apply(voice.Shared{Scale: name})
				require.Equal(t, i, c.State().RawIndex, name)
				require.Equal(t, float64(i), c.Knob().Read().Raw, name)
			}
		}
	})

	t.Run("free to scaled picks the nearest member", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: scale.Free})
		// a little above F#1 (30), between F1 (29) and G1 (31)
		c.SetValue(pitch.ToFrequency(30) * 1.01)
		out := c.Apply(voice.Shared{Scale: "ionian"})
		require.Equal(t, voice.Scaled, out.Mode)
		require.Equal(t, 29, out.Pitch)
		require.Equal(t, 4, c.State().RawIndex)
	})

	t.Run("root survives a mode switch", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: scale.Chromatic, Root: 3})
		require.Equal(t, 51, c.Output().Pitch)
		out := c.Apply(voice.Shared{Scale: scale.Free, Root: 3})
		require.InDelta(t, pitch.ToFrequency(51), out.Frequency, 1e-9)
	})
}

func TestResnap(t *testing.T) {
	t.Run("keeps the pitch rather than the index", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: scale.Chromatic}, voice.WithPitch(60))
		out := c.Apply(voice.Shared{Scale: "ionian"})
		require.Equal(t, 60, out.Pitch)
		require.Equal(t, 22, c.State().RawIndex)
	})

	t.Run("ties resolve downward", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: scale.Chromatic}, voice.WithPitch(30))
		out := c.Apply(voice.Shared{Scale: "ionian"})
		require.Equal(t, 29, out.Pitch)
	})

	t.Run("moves by the smallest possible distance", func(t *testing.T) {
		for _, from := range scale.All() {
			if from.IsFree() {
				continue
			}
			for _, to := range scale.All() {
				if to.IsFree() {
					continue
				}
				c := voice.New(0, nil, voice.Shared{Scale: from.Name})
				for i := 1; i <= c.Lattice().Len(); i++ {
					c.Apply(voice.Shared{Scale: from.Name})
					before := c.SetValue(float64(i)).Pitch
					after := c.Apply(voice.Shared{Scale: to.Name}).Pitch
					best := math.MaxInt
					for _, p := range scale.Generate(to, scale.MinPitch, scale.MaxPitch) {
						if d := abs(p - before); d < best {
							best = d
						}
					}
					require.Equal(t, best, abs(after-before), "%s -> %s at %d", from.Name, to.Name, before)
				}
			}
		}
	})

	t.Run("root change keeps the index", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: "pentatonic"})
		c.SetValue(7)
		c.Apply(voice.Shared{Scale: "pentatonic", Root: 5})
		require.Equal(t, 7, c.State().RawIndex)
	})
}

func TestGestures(t *testing.T) {
	t.Run("scaled drags step through the lattice", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: "whole"})
		c.SetPosition(0)
		seen := map[int]bool{}
		for i := 0; i < 200; i++ {
			out := c.Drag(0.01)
			require.Equal(t, 0, (out.Pitch-24)%2)
			seen[out.Pitch] = true
		}
		require.Len(t, seen, c.Lattice().Len())
		require.Equal(t, 84, c.Output().Pitch)
	})

	t.Run("free drags sweep the log range", func(t *testing.T) {
		c := voice.New(0, nil, voice.Shared{Scale: scale.Free})
		require.InDelta(t, 32.70, c.SetPosition(0).Frequency, 0.01)
		require.InDelta(t, 1046.5, c.SetPosition(1).Frequency, 0.01)
		mid := c.SetPosition(0.5).Frequency
		require.InDelta(t, math.Sqrt(32.7032*1046.502), mid, 0.1)
	})

	t.Run("reset is disabled on pitch", func(t *testing.T) {
		rec := &recorder{}
		c := voice.New(0, rec, voice.Shared{Scale: scale.Chromatic})
		c.SetValue(3)
		n := len(rec.pushes)
		out := c.Reset()
		require.Equal(t, 26, out.Pitch)
		require.Len(t, rec.pushes, n)
	})
}

func TestSinks(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	voice.New(3, voice.Sinks{a, b, voice.Discard}, voice.Shared{Scale: scale.Chromatic})
	require.Equal(t, a.pushes, b.pushes)
	require.Len(t, a.pushes, 2)
	require.False(t, a.pushes[0].sub)
	require.True(t, a.pushes[1].sub)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
