// Package knob models a rotary control: a bounded 1-D gesture position mapped
// through a taper to a value, with an optional quantized output derived from
// that value.
package knob

import "math"

type Taper int

const (
	Linear Taper = iota
	// Log maps equal travel to equal ratios. Use it for ranges spanning more than a decade.
	Log
)

// DefaultTravel is the number of gesture units (cells, pixels, ...) for the full range.
const DefaultTravel = 100.0

type (
	Config struct {
		Min, Max float64
		// Initial value, also the target of Reset.
		Default float64
		// When > 0 the raw value snaps to Min + k*Step.
		Step float64
		// Round picks k when snapping to Step. Defaults to math.Round.
		Round func(float64) float64
		Taper Taper
		// Quantize derives a secondary value from every raw value. Optional.
		Quantize func(raw float64) float64
		// Ignore reset gestures.
		DisableReset bool
	}

	// Reading is the result of one knob update. Quantized is only set when
	// the knob has a Quantize func, and is always computed from Raw.
	Reading struct {
		Raw          float64
		Quantized    float64
		HasQuantized bool
	}

	Knob struct {
		cfg Config
		// normalized gesture position, [0, 1]
		pos float64
	}
)

func New(cfg Config) *Knob {
	k := &Knob{cfg: cfg}
	k.SetValue(cfg.Default)
	return k
}

// Drag moves the knob by delta, in fractions of its full travel.
// Positions past either end clamp.
func (k *Knob) Drag(delta float64) Reading {
	if k.Fixed() || math.IsNaN(delta) {
		return k.Read()
	}
	k.pos = clamp01(k.pos + delta)
	return k.Read()
}

// SetPosition moves the knob to an absolute position in [0, 1].
func (k *Knob) SetPosition(pos float64) Reading {
	if k.Fixed() || math.IsNaN(pos) {
		return k.Read()
	}
	k.pos = clamp01(pos)
	return k.Read()
}

// SetValue moves the knob to the position that represents v.
func (k *Knob) SetValue(v float64) Reading {
	if k.Fixed() {
		k.pos = 0
		return k.Read()
	}
	k.pos = k.unscale(clamp(v, k.lo(), k.hi()))
	return k.Read()
}

// Reset moves the knob back to its default value. It reports false when
// resetting is disabled.
func (k *Knob) Reset() (Reading, bool) {
	if k.cfg.DisableReset {
		return k.Read(), false
	}
	return k.SetValue(k.cfg.Default), true
}

// Reconfigure replaces range, taper and quantizer. The gesture position is kept.
func (k *Knob) Reconfigure(cfg Config) {
	k.cfg = cfg
	if k.Fixed() {
		k.pos = 0
	}
}

func (k *Knob) Read() Reading {
	r := Reading{Raw: k.Value()}
	if k.cfg.Quantize != nil {
		r.Quantized = k.cfg.Quantize(r.Raw)
		r.HasQuantized = true
	}
	return r
}

// Value returns the raw value for the current position.
func (k *Knob) Value() float64 {
	if k.Fixed() {
		return k.cfg.Min
	}
	return k.snap(k.scale(k.pos))
}

func (k *Knob) Position() float64 {
	return k.pos
}

func (k *Knob) Config() Config {
	return k.cfg
}

// Fixed reports whether the range is empty, in which case gestures have no effect.
func (k *Knob) Fixed() bool {
	return k.cfg.Min == k.cfg.Max
}

func (k *Knob) logTaper() bool {
	return k.cfg.Taper == Log && k.cfg.Min > 0 && k.cfg.Max > 0
}

func (k *Knob) scale(pos float64) float64 {
	if k.logTaper() {
		lo, hi := math.Log(k.cfg.Min), math.Log(k.cfg.Max)
		return math.Exp(lo + pos*(hi-lo))
	}
	return k.cfg.Min + pos*(k.cfg.Max-k.cfg.Min)
}

func (k *Knob) unscale(v float64) float64 {
	if k.logTaper() {
		return clamp01(math.Log(v/k.cfg.Min) / math.Log(k.cfg.Max/k.cfg.Min))
	}
	return clamp01((v - k.cfg.Min) / (k.cfg.Max - k.cfg.Min))
}

func (k *Knob) snap(v float64) float64 {
	if k.cfg.Step > 0 {
		round := k.cfg.Round
		if round == nil {
			round = math.Round
		}
		// drop float noise from the position round trip so truncation
		// does not fall one step short
		q := math.Round((v-k.cfg.Min)/k.cfg.Step*1e9) / 1e9
		v = k.cfg.Min + round(q)*k.cfg.Step
	}
	return clamp(v, k.lo(), k.hi())
}

// lo and hi allow Min > Max, for knobs that turn the other way.
func (k *Knob) lo() float64 {
	return math.Min(k.cfg.Min, k.cfg.Max)
}

func (k *Knob) hi() float64 {
	return math.Max(k.cfg.Min, k.cfg.Max)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}
