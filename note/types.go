// Package note defines the symbols a part plays: notes, rests and effect
// symbols, measured in beats (a quarter note is one beat).
package note

import (
	"fmt"
	"math"
)

// Symbol is one element of a part's sequence.
type Symbol interface {
	Beats() float64
}

// Note sounds a pitch (MIDI numbering, A4 = 69) for Length beats.
type Note struct {
	Pitch  int
	Length float64
}

// Rest is silence for Length beats.
type Rest struct {
	Length float64
}

// Velocity scales every following note until the next Velocity. It takes no
// time.
type Velocity struct {
	Level float32
}

func (n Note) Beats() float64     { return n.Length }
func (r Rest) Beats() float64     { return r.Length }
func (v Velocity) Beats() float64 { return 0 }

// Frequency returns the pitch in Hz.
func (n Note) Frequency() float64 { return Frequency(n.Pitch) }

func (n Note) String() string     { return fmt.Sprintf("%s:%g", Name(n.Pitch), n.Length) }
func (r Rest) String() string     { return fmt.Sprintf("r:%g", r.Length) }
func (v Velocity) String() string { return fmt.Sprintf("v:%g", v.Level) }

// Sequence is the ordered list of symbols a part plays.
type Sequence []Symbol

// Beats returns the total length of the sequence.
func (s Sequence) Beats() float64 {
	var total float64
	for _, sym := range s {
		total += sym.Beats()
	}
	return total
}

func (s Sequence) Clone() Sequence {
	if s == nil {
		return nil
	}
	return append(make(Sequence, 0, len(s)), s...)
}

// Frequency converts a MIDI pitch to Hz with equal temperament at A4 = 440.
func Frequency(pitch int) float64 {
	return 440 * math.Pow(2, float64(pitch-69)/12)
}

var pitchNames = [12]string{"c", "c#", "d", "d#", "e", "f", "f#", "g", "g#", "a", "a#", "b"}

// Name renders a pitch in the octave numbering used by ParseMML, where o5c is
// MIDI 60.
func Name(pitch int) string {
	octave := pitch / 12
	idx := pitch % 12
	if idx < 0 {
		idx += 12
		octave--
	}
	return fmt.Sprintf("o%d%s", octave, pitchNames[idx])
}
