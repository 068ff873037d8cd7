// Package pitch converts between MIDI-style pitch numbers, frequencies and note names.
package pitch

import (
	"fmt"
	"log"
	"math"

	"github.com/rapidmidiex/lambvoice/voxerr"
)

type (
	Note struct {
		// MIDI note number, based on A4=69 (C4=60)
		MIDI int
		// Name of the note with octave, ex: "C1", "F#3"
		Name string
		// Denotes if note is sharp ie. "black" key.
		IsAccidental bool
	}

	Notes []Note
)

const (
	// A4
	ReferencePitch     = 69
	ReferenceFrequency = 440.0

	OctaveLen = 12
)

var noteNames = []struct {
	name         string
	isAccidental bool
}{
	{name: "C", isAccidental: false},
	{name: "C#", isAccidental: true},
	{name: "D", isAccidental: false},
	{name: "D#", isAccidental: true},
	{name: "E", isAccidental: false},
	{name: "F", isAccidental: false},
	{name: "F#", isAccidental: true},
	{name: "G", isAccidental: false},
	{name: "G#", isAccidental: true},
	{name: "A", isAccidental: false},
	{name: "A#", isAccidental: true},
	{name: "B", isAccidental: false}}

// ToFrequency returns the equal-tempered frequency in Hz of pitch p.
func ToFrequency(p int) float64 {
	return ReferenceFrequency * math.Pow(2, float64(p-ReferencePitch)/OctaveLen)
}

// FromFrequency returns the pitch nearest to hz. Halfway values round up, toward +Inf.
func FromFrequency(hz float64) (int, error) {
	if !(hz > 0) || math.IsInf(hz, 1) {
		return 0, fmt.Errorf("pitch for %v Hz: %w", hz, voxerr.ErrNonPositiveFrequency)
	}
	return int(math.Floor(ReferencePitch + OctaveLen*math.Log2(hz/ReferenceFrequency) + 0.5)), nil
}

// MustFromFrequency is FromFrequency for callers that must always get a playable pitch.
// Invalid frequencies resolve to floor.
func MustFromFrequency(hz float64, floor int) int {
	p, err := FromFrequency(hz)
	if err != nil {
		log.Printf("%v, using %s", err, Name(floor))
		return floor
	}
	return p
}

// Transpose shifts hz by a (possibly fractional) number of semitones.
func Transpose(hz, semitones float64) float64 {
	return hz * math.Pow(2, semitones/OctaveLen)
}

// Name returns the note name of p with its octave, where pitch 0 is "C-1".
func Name(p int) string {
	return noteNames[pitchClass(p)].name + fmt.Sprint(octave(p))
}

// ClassName returns the note name of p without octave.
func ClassName(p int) string {
	return noteNames[pitchClass(p)].name
}

func NoteOf(p int) Note {
	k := noteNames[pitchClass(p)]
	return Note{
		MIDI:         p,
		Name:         k.name + fmt.Sprint(octave(p)),
		IsAccidental: k.isAccidental,
	}
}

func Clamp(p, lo, hi int) int {
	if p < lo {
		return lo
	}
	if p > hi {
		return hi
	}
	return p
}

func ClampFrequency(hz, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, hz))
}

// InRange reports whether p is a valid MIDI note number.
func InRange(p int) bool {
	return p >= 0 && p < 128
}

func pitchClass(p int) int {
	return ((p % OctaveLen) + OctaveLen) % OctaveLen
}

func octave(p int) int {
	return int(math.Floor(float64(p)/OctaveLen)) - 1
}
