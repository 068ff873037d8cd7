// Package voice resolves knob gestures into oscillator frequencies for one
// synthesizer voice, in free or scale-quantized mode, and pushes the result
// (plus a sub-oscillator one octave down) to a Sink.
package voice

import (
	"fmt"
	"log"
	"math"

	"github.com/rapidmidiex/lambvoice/knob"
	"github.com/rapidmidiex/lambvoice/pitch"
	"github.com/rapidmidiex/lambvoice/scale"
	"github.com/rapidmidiex/lambvoice/voxerr"
)

type (
	Mode int

	Rounding int

	// Bounds are the playable limits of a voice.
	Bounds struct {
		MinPitch, MaxPitch         int
		MinFrequency, MaxFrequency float64
		// How a fractional root becomes semitones in Scaled mode.
		RootRounding Rounding
	}

	// Shared is the configuration every voice reads and only the global
	// selector writes.
	Shared struct {
		Scale string
		// Semitones. Integer in Scaled mode, fractional in Free mode.
		Root float64
	}

	State struct {
		Mode Mode
		// 1-based index into the lattice, authoritative in Scaled mode.
		RawIndex int
		// Untransposed frequency, authoritative in Free mode.
		FrequencyHz float64
		// Untransposed pitch: the lattice member in Scaled mode, the nearest
		// semitone of FrequencyHz in Free mode.
		Pitch int
	}

	// Output is what the voice last pushed to its sink.
	Output struct {
		Mode         Mode
		Pitch        int
		SubPitch     int
		Frequency    float64
		SubFrequency float64
		// Note name in Scaled mode, Hz in Free mode.
		Label string
	}

	Controller struct {
		id      int
		bounds  Bounds
		sink    Sink
		shared  Shared
		scale   scale.Scale
		lattice scale.Lattice
		state   State
		knob    *knob.Knob
		out     Output
		log     *log.Logger
	}

	Option func(*Controller)
)

const (
	Scaled Mode = iota
	Free
)

const (
	RoundNearest Rounding = iota
	RoundTruncate
)

const (
	// C3
	DefaultPitch = 48
	octave       = 12
)

func (m Mode) String() string {
	if m == Free {
		return "free"
	}
	return "scaled"
}

// Round turns a fractional root into whole semitones.
func (r Rounding) Round(root float64) float64 {
	if r == RoundTruncate {
		return math.Trunc(root)
	}
	return math.Round(root)
}

// DefaultBounds spans C1 to C6, in pitch and in frequency.
func DefaultBounds() Bounds {
	return Bounds{
		MinPitch:     scale.MinPitch,
		MaxPitch:     scale.MaxPitch,
		MinFrequency: pitch.ToFrequency(scale.MinPitch),
		MaxFrequency: pitch.ToFrequency(scale.MaxPitch),
	}
}

func WithBounds(b Bounds) Option {
	return func(c *Controller) {
		c.bounds = b
	}
}

// WithPitch sets the pitch the voice starts at.
func WithPitch(p int) Option {
	return func(c *Controller) {
		c.state.Pitch = p
	}
}

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// New creates the controller for voice id and pushes its initial pitch to sink.
func New(id int, sink Sink, shared Shared, opts ...Option) *Controller {
	if sink == nil {
		sink = Discard
	}
	c := &Controller{
		id:     id,
		bounds: DefaultBounds(),
		sink:   sink,
		state:  State{Pitch: DefaultPitch},
		log:    log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.shared = shared
	c.scale = scale.Get(shared.Scale)
	c.state.Pitch = pitch.Clamp(c.state.Pitch, c.bounds.MinPitch, c.bounds.MaxPitch)
	c.state.FrequencyHz = pitch.ToFrequency(c.state.Pitch)
	c.knob = knob.New(knob.Config{})
	if c.scale.IsFree() {
		c.lattice = scale.Generate(c.scale, c.bounds.MinPitch, c.bounds.MaxPitch)
		c.state.RawIndex = c.lattice.Nearest(c.state.Pitch)
		c.enterFree()
	} else {
		c.snap(c.state.Pitch)
	}

	c.update()
	return c
}

// Drag applies a relative gesture, in fractions of the knob's full travel.
func (c *Controller) Drag(delta float64) Output {
	c.take(c.knob.Drag(delta))
	return c.update()
}

// SetPosition applies an absolute gesture in [0, 1].
func (c *Controller) SetPosition(pos float64) Output {
	c.take(c.knob.SetPosition(pos))
	return c.update()
}

// SetValue turns the knob to v: a 1-based lattice index in Scaled mode,
// a frequency in Hz in Free mode.
func (c *Controller) SetValue(v float64) Output {
	c.take(c.knob.SetValue(v))
	return c.update()
}

// Reset handles a reset gesture. The pitch knob ignores it.
func (c *Controller) Reset() Output {
	r, ok := c.knob.Reset()
	if !ok {
		return c.out
	}
	c.take(r)
	return c.update()
}

// Apply is the entry point for changes to the shared scale and root. It
// switches modes or re-snaps to the new lattice as needed, then pushes.
func (c *Controller) Apply(shared Shared) Output {
	prev, next := c.scale, scale.Get(shared.Scale)
	prevMode := c.state.Mode
	c.shared = shared
	c.scale = next

	switch {
	case next.IsFree() && prevMode == Scaled:
		c.state.Pitch = c.lattice.At(c.state.RawIndex)
		c.state.FrequencyHz = pitch.ToFrequency(c.state.Pitch)
		c.enterFree()
	case next.IsFree():
		// root only
	case prevMode == Free:
		c.snap(pitch.MustFromFrequency(c.state.FrequencyHz, c.bounds.MinPitch))
	case next.Name != prev.Name:
		// the old index means nothing in the new lattice, keep the pitch
		c.snap(c.state.Pitch)
	}
	if c.state.Mode != prevMode {
		c.log.Printf("voice %s: %s -> %s at %s", c.Name(), prevMode, c.state.Mode, pitch.Name(c.state.Pitch))
	}

	return c.update()
}

func (c *Controller) ID() int {
	return c.id
}

// Name is the panel letter of the voice: A, B, C, ...
func (c *Controller) Name() string {
	return string(rune('A' + c.id%26))
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Output() Output {
	return c.out
}

func (c *Controller) Shared() Shared {
	return c.shared
}

func (c *Controller) Scale() scale.Scale {
	return c.scale
}

func (c *Controller) Lattice() scale.Lattice {
	return c.lattice
}

func (c *Controller) Bounds() Bounds {
	return c.bounds
}

// Knob is exposed for rendering. Gestures must go through the controller.
func (c *Controller) Knob() *knob.Knob {
	return c.knob
}

// snap regenerates the lattice for the current scale and selects the member
// nearest to p.
func (c *Controller) snap(p int) {
	c.lattice = scale.Generate(c.scale, c.bounds.MinPitch, c.bounds.MaxPitch)
	c.state.Mode = Scaled
	c.state.RawIndex = c.lattice.Nearest(p)
	c.state.Pitch = c.lattice.At(c.state.RawIndex)
	c.state.FrequencyHz = pitch.ToFrequency(c.state.Pitch)

	lattice := c.lattice
	c.knob.Reconfigure(knob.Config{
		Min:     1,
		Max:     float64(lattice.Len()),
		Default: float64(lattice.Nearest(DefaultPitch)),
		Step:    1,
		Taper:   knob.Linear,
		Quantize: func(raw float64) float64 {
			return float64(lattice.At(int(math.Round(raw))))
		},
		DisableReset: true,
	})
	c.knob.SetValue(float64(c.state.RawIndex))
}

// enterFree puts the knob on a log frequency taper positioned at FrequencyHz.
func (c *Controller) enterFree() {
	c.state.Mode = Free
	c.knob.Reconfigure(knob.Config{
		Min:          c.bounds.MinFrequency,
		Max:          c.bounds.MaxFrequency,
		Default:      pitch.ToFrequency(DefaultPitch),
		Taper:        knob.Log,
		DisableReset: true,
	})
	c.knob.SetValue(c.state.FrequencyHz)
}

// take stores a knob reading in the representation of the current mode and
// refreshes the cached other one.
func (c *Controller) take(r knob.Reading) {
	switch c.state.Mode {
	case Scaled:
		c.state.RawIndex = int(math.Round(r.Raw))
		if r.HasQuantized {
			c.state.Pitch = int(r.Quantized)
		} else {
			c.state.Pitch = c.lattice.At(c.state.RawIndex)
		}
		c.state.FrequencyHz = pitch.ToFrequency(c.state.Pitch)
	case Free:
		c.state.FrequencyHz = r.Raw
		c.state.Pitch = pitch.MustFromFrequency(r.Raw, c.bounds.MinPitch)
		c.state.RawIndex = c.lattice.Nearest(c.state.Pitch)
	}
}

// update recomputes the output from state and shared config and pushes it.
// Main frequency goes out before the sub frequency.
func (c *Controller) update() Output {
	b := c.bounds
	switch c.state.Mode {
	case Scaled:
		transposed := c.state.Pitch + int(b.RootRounding.Round(c.shared.Root))
		final := pitch.Clamp(transposed, b.MinPitch, b.MaxPitch)
		if final != transposed {
			c.clamped(fmt.Errorf("pitch %d clamped to %d: %w", transposed, final, voxerr.ErrOutOfRange))
		}
		sub := pitch.Clamp(final-octave, b.MinPitch-octave, b.MaxPitch)
		c.out = Output{
			Mode:         Scaled,
			Pitch:        final,
			SubPitch:     sub,
			Frequency:    pitch.ToFrequency(final),
			SubFrequency: pitch.ToFrequency(sub),
			Label:        pitch.Name(final),
		}
	case Free:
		transposed := pitch.Transpose(c.state.FrequencyHz, c.shared.Root)
		final := pitch.ClampFrequency(transposed, b.MinFrequency, b.MaxFrequency)
		if final != transposed {
			c.clamped(fmt.Errorf("frequency %.2f Hz clamped to %.2f Hz: %w", transposed, final, voxerr.ErrOutOfRange))
		}
		p := pitch.MustFromFrequency(final, b.MinPitch)
		c.out = Output{
			Mode:         Free,
			Pitch:        p,
			SubPitch:     p - octave,
			Frequency:    final,
			SubFrequency: final / 2,
			Label:        fmt.Sprintf("%.2f Hz", final),
		}
	}

	c.sink.SetFrequency(c.id, c.out.Frequency)
	c.sink.SetSubFrequency(c.id, c.out.SubFrequency)
	return c.out
}

func (c *Controller) clamped(err error) {
	c.log.Printf("voice %s: %v", c.Name(), err)
}
