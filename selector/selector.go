// Package selector holds the two global controls, root and scale, and
// broadcasts their values to every voice.
package selector

import (
	"fmt"
	"math"

	"github.com/rapidmidiex/lambvoice/knob"
	"github.com/rapidmidiex/lambvoice/pitch"
	"github.com/rapidmidiex/lambvoice/scale"
	"github.com/rapidmidiex/lambvoice/voice"
)

// MaxRoot is the largest transpose in semitones.
const MaxRoot = 11

type Selector struct {
	voices    []*voice.Controller
	shared    voice.Shared
	root      *knob.Knob
	scale     *knob.Knob
	names     []string
	observers []func(voice.Shared)
	// how the stepped root lands on a semitone, taken from the voices
	rounding voice.Rounding
}

// New creates a selector for voices and applies shared to each of them.
func New(voices []*voice.Controller, shared voice.Shared) *Selector {
	names := scale.Names()
	idx := scale.Index(shared.Scale)
	if idx < 0 {
		idx = scale.Index(scale.Get(shared.Scale).Name)
	}
	shared.Scale = names[idx]
	shared.Root = math.Max(0, math.Min(MaxRoot, shared.Root))

	s := &Selector{
		voices:   voices,
		names:    names,
		rounding: rounding(voices),
		scale: knob.New(knob.Config{
			Min:     0,
			Max:     float64(len(names) - 1),
			Default: float64(idx),
			Step:    1,
		}),
		root: knob.New(knob.Config{}),
	}
	s.configureRoot(shared)
	s.root.SetValue(shared.Root)
	shared.Root = s.root.Value()
	s.broadcast(shared)
	return s
}

// Observe registers fn to be called after every broadcast.
func (s *Selector) Observe(fn func(voice.Shared)) {
	s.observers = append(s.observers, fn)
}

func (s *Selector) DragRoot(delta float64) voice.Shared {
	s.root.Drag(delta)
	return s.changed()
}

func (s *Selector) DragScale(delta float64) voice.Shared {
	s.scale.Drag(delta)
	return s.changed()
}

func (s *Selector) SetRoot(semitones float64) voice.Shared {
	s.root.SetValue(semitones)
	return s.changed()
}

// Set moves both knobs to shared and broadcasts at most once.
// Unknown scale names select chromatic.
func (s *Selector) Set(shared voice.Shared) voice.Shared {
	s.scale.SetValue(float64(scale.Index(scale.Get(shared.Scale).Name)))
	s.configureRoot(voice.Shared{Scale: s.names[int(s.scale.Value())]})
	s.root.SetValue(shared.Root)
	return s.changed()
}

// SetScale selects a scale by name. Unknown names select chromatic.
func (s *Selector) SetScale(name string) voice.Shared {
	s.scale.SetValue(float64(scale.Index(scale.Get(name).Name)))
	return s.changed()
}

// ResetRoot sets the root back to 0.
func (s *Selector) ResetRoot() voice.Shared {
	s.root.Reset()
	return s.changed()
}

func (s *Selector) ResetScale() voice.Shared {
	s.scale.Reset()
	return s.changed()
}

func (s *Selector) Shared() voice.Shared {
	return s.shared
}

func (s *Selector) Voices() []*voice.Controller {
	return s.voices
}

func (s *Selector) RootKnob() *knob.Knob {
	return s.root
}

func (s *Selector) ScaleKnob() *knob.Knob {
	return s.scale
}

// RootLabel names the root: a note in scaled mode, a semitone offset in free mode.
func (s *Selector) RootLabel() string {
	if s.free() {
		return fmt.Sprintf("+%.2f st", s.shared.Root)
	}
	return pitch.ClassName(int(s.rounding.Round(s.shared.Root)))
}

func (s *Selector) free() bool {
	return scale.Get(s.shared.Scale).IsFree()
}

// changed reads both knobs and broadcasts if anything moved.
func (s *Selector) changed() voice.Shared {
	next := voice.Shared{
		Scale: s.names[int(s.scale.Value())],
		Root:  s.root.Value(),
	}
	if next.Scale != s.shared.Scale {
		// step the root knob when entering a quantized scale, free it otherwise
		s.configureRoot(next)
		next.Root = s.root.Value()
	}
	if next == s.shared {
		return s.shared
	}
	s.broadcast(next)
	return s.shared
}

func (s *Selector) configureRoot(shared voice.Shared) {
	cfg := knob.Config{Min: 0, Max: MaxRoot}
	if !scale.Get(shared.Scale).IsFree() {
		cfg.Step = 1
		cfg.Round = s.rounding.Round
	}
	s.root.Reconfigure(cfg)
}

func rounding(voices []*voice.Controller) voice.Rounding {
	if len(voices) == 0 {
		return voice.RoundNearest
	}
	return voices[0].Bounds().RootRounding
}

// broadcast hands shared to every voice before returning.
func (s *Selector) broadcast(shared voice.Shared) {
	s.shared = shared
	for _, v := range s.voices {
		v.Apply(shared)
	}
	for _, fn := range s.observers {
		fn(shared)
	}
}
