// Package compiler renders a note sequence through an oscillator into a
// sample buffer.
package compiler

import (
	"errors"
	"fmt"
	"math"

	"github.com/viterin/vek/vek32"

	"github.com/cbegin/oscmix/internal/effects"
	"github.com/cbegin/oscmix/note"
	"github.com/cbegin/oscmix/osc"
	"github.com/cbegin/oscmix/tempo"
)

// Voice is everything needed to turn notes into samples.
type Voice struct {
	Osc  osc.Oscillator
	Gain float32
	// Channels is used when the sequence has no notes to take the channel
	// count from. Zero means mono.
	Channels   int
	SampleRate int
	// Effects are effect descriptions applied, in order, after synthesis.
	Effects []string
}

type segment struct {
	start, frames int
	data          osc.Buffer
}

// Render synthesizes seq. Symbol boundaries fall on
// round(t.Seconds(beat)*SampleRate), so the buffer is exactly as long as the
// sequence at the given tempo. Each note evaluates the oscillator with phase
// cycling at the note's frequency, time counted from the note onset and
// duration equal to the note length in seconds.
func Render(v Voice, t tempo.Tempo, seq note.Sequence) (osc.Buffer, error) {
	if v.Osc == nil {
		return nil, errors.New("compiler: voice has no oscillator")
	}
	if v.SampleRate <= 0 {
		return nil, fmt.Errorf("compiler: invalid sample rate %d", v.SampleRate)
	}
	chain, err := effects.ParseChain(v.Effects, v.SampleRate)
	if err != nil {
		return nil, err
	}

	sr := float64(v.SampleRate)
	frameAt := func(beat float64) int {
		return int(math.Round(t.Seconds(beat) * sr))
	}

	var (
		segments []segment
		channels int
		velocity float32 = 1
		beat     float64
	)
	for i, sym := range seq {
		if sym.Beats() < 0 {
			return nil, fmt.Errorf("compiler: symbol %d has negative length %g", i, sym.Beats())
		}
		switch s := sym.(type) {
		case note.Velocity:
			velocity = s.Level
		case note.Note:
			start, end := frameAt(beat), frameAt(beat+s.Length)
			if end > start {
				seconds := t.Seconds(beat+s.Length) - t.Seconds(beat)
				data, err := renderNote(v.Osc, s.Frequency(), seconds, sr, end-start)
				if err != nil {
					return nil, err
				}
				if channels == 0 {
					channels = data.Channels()
				}
				for _, ch := range data {
					vek32.MulNumber_Inplace(ch, velocity*v.Gain)
				}
				segments = append(segments, segment{start: start, frames: end - start, data: data})
			}
		}
		beat += sym.Beats()
	}
	if channels == 0 {
		channels = max(v.Channels, 1)
	}

	out := osc.NewBuffer(channels, max(frameAt(beat), 0))
	for _, seg := range segments {
		if err := place(out, seg); err != nil {
			return nil, err
		}
	}
	return chain.Apply(out), nil
}

func renderNote(o osc.Oscillator, freq, seconds, sr float64, frames int) (osc.Buffer, error) {
	phase := make([]float32, frames)
	time := make([]float32, frames)
	duration := make([]float32, frames)
	for i := range phase {
		local := float64(i) / sr
		_, f := math.Modf(freq * local)
		phase[i] = float32(f)
		time[i] = float32(local)
		duration[i] = float32(seconds)
	}
	return o.Map(phase, time, duration)
}

// place copies a note into out at its start frame. A single channel or frame
// broadcasts; anything else must match the note's shape.
func place(out osc.Buffer, seg segment) error {
	channels, frames := seg.data.Shape()
	if channels == 0 || (channels != 1 && channels != out.Channels()) || (frames != 1 && frames != seg.frames) {
		return &osc.ShapeError{
			Op:    "place",
			Left:  [2]int{out.Channels(), seg.frames},
			Right: [2]int{channels, frames},
		}
	}
	for c := range out {
		src := seg.data[0]
		if channels > 1 {
			src = seg.data[c]
		}
		dst := out[c][seg.start : seg.start+seg.frames]
		if frames == 1 {
			for i := range dst {
				dst[i] = src[0]
			}
			continue
		}
		copy(dst, src)
	}
	return nil
}
