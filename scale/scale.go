// Package scale contains the registry of named interval patterns and the
// lattice generator that turns a scale into playable pitches.
package scale

import (
	"fmt"
	"log"

	"github.com/rapidmidiex/lambvoice/pitch"
	"github.com/rapidmidiex/lambvoice/voxerr"
)

type (
	Scale struct {
		Name string
		// Semitones from each lattice member to the next, read cyclically.
		Intervals []int
	}

	// Lattice is the ascending list of pitches of a scale between two bounds.
	Lattice []int
)

const (
	Chromatic = "chromatic"
	// Free disables quantization. It has no intervals.
	Free = "free"

	// MIDI note 24 - 84 (C1 - C6)
	MinPitch = 24
	MaxPitch = 84
)

var table = []Scale{
	{Chromatic, []int{1}},
	{"ionian", []int{2, 2, 1, 2, 2, 2, 1}},
	{"dorian", []int{2, 1, 2, 2, 2, 1, 2}},
	{"phrygian", []int{1, 2, 2, 2, 1, 2, 2}},
	{"lydian", []int{2, 2, 2, 1, 2, 2, 1}},
	{"mixolydian", []int{2, 2, 1, 2, 2, 1, 2}},
	{"aeolian", []int{2, 1, 2, 2, 1, 2, 2}},
	{"locrian", []int{1, 2, 2, 1, 2, 2, 2}},
	{"pentatonic", []int{2, 2, 3, 2, 3}},
	{"diminished", []int{2, 1, 2, 1, 2, 1, 2, 1}},
	{"insen", []int{1, 2, 2, 1, 2, 2}},
	{"whole", []int{2}},
	{Free, nil},
}

// New validates intervals and returns a scale.
func New(name string, intervals ...int) (Scale, error) {
	if len(intervals) == 0 {
		return Scale{}, fmt.Errorf("scale %q has no intervals: %w", name, voxerr.ErrInvalidInterval)
	}
	for i, n := range intervals {
		if n < 1 {
			return Scale{}, fmt.Errorf("scale %q interval %d is %d: %w", name, i, n, voxerr.ErrInvalidInterval)
		}
	}
	return Scale{Name: name, Intervals: append([]int(nil), intervals...)}, nil
}

// All returns every registered scale, free last.
func All() []Scale {
	all := make([]Scale, len(table))
	copy(all, table)
	return all
}

func Names() []string {
	names := make([]string, 0, len(table))
	for _, s := range table {
		names = append(names, s.Name)
	}
	return names
}

// Index returns the position of name in Names, or -1.
func Index(name string) int {
	for i, s := range table {
		if s.Name == name {
			return i
		}
	}
	return -1
}

func Lookup(name string) (Scale, error) {
	if i := Index(name); i >= 0 {
		return table[i], nil
	}
	return Scale{}, fmt.Errorf("lookup %q: %w", name, voxerr.ErrUnknownScale)
}

// Get is Lookup that never fails: unknown names resolve to the chromatic scale.
func Get(name string) Scale {
	s, err := Lookup(name)
	if err != nil {
		log.Printf("%v, falling back to %s", err, Chromatic)
		return table[0]
	}
	return s
}

func (s Scale) IsFree() bool {
	return len(s.Intervals) == 0
}

// Generate walks the intervals of s upward from minPitch and keeps every
// position that does not exceed maxPitch. A scale without intervals yields
// the chromatic lattice.
func Generate(s Scale, minPitch, maxPitch int) Lattice {
	intervals := s.Intervals
	if len(intervals) == 0 {
		intervals = table[0].Intervals
	}

	cur := minPitch
	pitches := Lattice{cur}
	for i := 0; cur < maxPitch; i++ {
		step := intervals[i%len(intervals)]
		if step < 1 {
			step = 1
		}
		cur += step
		if cur <= maxPitch {
			pitches = append(pitches, cur)
		}
	}
	return pitches
}

// Nearest returns the 1-based index of the member closest to p.
// On a tie the lower member wins.
func (l Lattice) Nearest(p int) int {
	closest := 0
	for i := range l {
		if abs(l[i]-p) < abs(l[closest]-p) {
			closest = i
		}
	}
	return closest + 1
}

// At returns the member at the 1-based rawIndex, clamped into the lattice.
func (l Lattice) At(rawIndex int) int {
	if len(l) == 0 {
		return MinPitch
	}
	return l[pitch.Clamp(rawIndex, 1, len(l))-1]
}

func (l Lattice) Len() int {
	return len(l)
}

// Top returns the highest member.
func (l Lattice) Top() int {
	return l.At(len(l))
}

func (l Lattice) Notes() pitch.Notes {
	notes := make(pitch.Notes, 0, len(l))
	for _, p := range l {
		notes = append(notes, pitch.NoteOf(p))
	}
	return notes
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
