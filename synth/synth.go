// Package synth is a minimal beep audio backend: one saw oscillator and one
// sub oscillator per voice, retuned through lock-free property updates.
package synth

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

const (
	DefaultSampleRate = 44100
	// Master level of the original patch.
	DefaultVolumeDB = -8.0
)

type (
	Opts struct {
		Voices     int
		SampleRate int
		VolumeDB   float64
		// Speaker buffer length. Bigger -> less CPU, slower response.
		Buffer time.Duration
	}

	Engine struct {
		sampleRate beep.SampleRate
		buffer     time.Duration
		voices     []*Voice
		ctrl       *beep.Ctrl
		volume     *effects.Volume
		started    bool
	}

	// Voice streams a saw wave plus a saw one octave down (or wherever the
	// sub frequency was last set). It implements beep.Streamer.
	Voice struct {
		sampleRate float64
		freq       atomicFloat
		subFreq    atomicFloat
		subLevel   atomicFloat
		main, sub  saw
	}

	saw struct {
		x float64
	}

	atomicFloat struct {
		bits atomic.Uint64
	}
)

func New(o Opts) *Engine {
	if o.SampleRate <= 0 {
		o.SampleRate = DefaultSampleRate
	}
	if o.Buffer <= 0 {
		o.Buffer = 20 * time.Millisecond
	}
	if o.Voices <= 0 {
		o.Voices = 1
	}

	e := &Engine{
		sampleRate: beep.SampleRate(o.SampleRate),
		buffer:     o.Buffer,
	}
	mixer := &beep.Mixer{}
	for i := 0; i < o.Voices; i++ {
		v := &Voice{sampleRate: float64(o.SampleRate)}
		e.voices = append(e.voices, v)
		mixer.Add(v)
	}
	e.ctrl = &beep.Ctrl{Streamer: mixer, Paused: true}
	e.volume = &effects.Volume{
		Streamer: e.ctrl,
		Base:     2,
		Volume:   o.VolumeDB / 20 * math.Log2(10),
	}
	return e
}

// Start opens the default audio device. The engine starts paused.
func (e *Engine) Start() error {
	if e.started {
		return nil
	}
	if err := speaker.Init(e.sampleRate, e.sampleRate.N(e.buffer)); err != nil {
		return fmt.Errorf("speaker init: %w", err)
	}
	speaker.Play(e.volume)
	e.started = true
	return nil
}

// Toggle flips between playing and paused and reports whether it now plays.
func (e *Engine) Toggle() bool {
	e.lock()
	defer e.unlock()
	e.ctrl.Paused = !e.ctrl.Paused
	return !e.ctrl.Paused
}

func (e *Engine) Playing() bool {
	e.lock()
	defer e.unlock()
	return !e.ctrl.Paused
}

// Close silences the output. The speaker itself stays initialized.
func (e *Engine) Close() {
	e.lock()
	defer e.unlock()
	e.ctrl.Paused = true
	e.ctrl.Streamer = nil
}

// SetFrequency implements voice.Sink.
func (e *Engine) SetFrequency(voice int, hz float64) {
	if v := e.Voice(voice); v != nil {
		v.freq.Store(hz)
	}
}

// SetSubFrequency implements voice.Sink.
func (e *Engine) SetSubFrequency(voice int, hz float64) {
	if v := e.Voice(voice); v != nil {
		v.subFreq.Store(hz)
	}
}

// SetSubLevel sets the sub oscillator mix, clamped to [0, 1].
func (e *Engine) SetSubLevel(voice int, level float64) {
	if v := e.Voice(voice); v != nil {
		v.subLevel.Store(math.Max(0, math.Min(1, level)))
	}
}

func (e *Engine) Voice(i int) *Voice {
	if i < 0 || i >= len(e.voices) {
		return nil
	}
	return e.voices[i]
}

func (e *Engine) SampleRate() beep.SampleRate {
	return e.sampleRate
}

// Streamer is the master output, after the pause control and volume.
func (e *Engine) Streamer() beep.Streamer {
	return e.volume
}

func (e *Engine) lock() {
	if e.started {
		speaker.Lock()
	}
}

func (e *Engine) unlock() {
	if e.started {
		speaker.Unlock()
	}
}

// Stream implements beep.Streamer. It never drains.
func (v *Voice) Stream(samples [][2]float64) (n int, ok bool) {
	// Frequencies are read once per buffer.
	d := 2 * v.freq.Load() / v.sampleRate
	subD := 2 * v.subFreq.Load() / v.sampleRate
	level := v.subLevel.Load()
	gain := 1 / (1 + level)

	for i := range samples {
		x := v.main.next(d)
		if level > 0 {
			x += level * v.sub.next(subD)
		}
		x *= gain
		samples[i][0] = x
		samples[i][1] = x
	}
	return len(samples), true
}

func (v *Voice) Err() error {
	return nil
}

func (v *Voice) Frequency() float64 {
	return v.freq.Load()
}

func (v *Voice) SubFrequency() float64 {
	return v.subFreq.Load()
}

// next advances a naive sawtooth in [-1, 1] by d.
func (o *saw) next(d float64) float64 {
	o.x += d
	if o.x > 1 {
		o.x -= 2
	}
	return o.x
}

func (f *atomicFloat) Load() float64 {
	return math.Float64frombits(f.bits.Load())
}

func (f *atomicFloat) Store(v float64) {
	f.bits.Store(math.Float64bits(v))
}
