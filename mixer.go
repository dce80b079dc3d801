package oscmix

import (
	"sort"

	"github.com/viterin/vek/vek32"

	"github.com/cbegin/oscmix/osc"
)

// Mixer reduces equal-length part buffers to one buffer.
type Mixer interface {
	Mix(tracks map[string]osc.Buffer) (osc.Buffer, error)
}

// MixerFunc adapts a function to Mixer.
type MixerFunc func(tracks map[string]osc.Buffer) (osc.Buffer, error)

func (f MixerFunc) Mix(tracks map[string]osc.Buffer) (osc.Buffer, error) { return f(tracks) }

// SumNormalize adds the tracks and rescales the sum so its peak is Level.
// A silent sum is returned as is.
type SumNormalize struct {
	Level float32
}

// DefaultMixer sums and normalizes to a peak of 1.
var DefaultMixer Mixer = SumNormalize{Level: 1}

func (m SumNormalize) Mix(tracks map[string]osc.Buffer) (osc.Buffer, error) {
	sum, err := Sum(tracks)
	if err != nil {
		return nil, err
	}
	return Normalize(sum, m.Level), nil
}

// Sum adds tracks in part name order. Mono tracks are added to every channel
// of a multi-channel sum; any other channel or frame disagreement is an
// *osc.ShapeError. Tracks without channels are silent and skipped. No tracks
// sum to an empty mono buffer.
func Sum(tracks map[string]osc.Buffer) (osc.Buffer, error) {
	names := make([]string, 0, len(tracks))
	channels, frames := 1, -1
	for name, b := range tracks {
		names = append(names, name)
		channels = max(channels, b.Channels())
	}
	sort.Strings(names)

	var out osc.Buffer
	for _, name := range names {
		b := tracks[name]
		c, f := b.Shape()
		if c == 0 {
			continue
		}
		if frames < 0 {
			frames = f
			out = osc.NewBuffer(channels, frames)
		}
		if (c != 1 && c != channels) || f != frames {
			return nil, &osc.ShapeError{Op: "mix " + name, Left: [2]int{channels, frames}, Right: [2]int{c, f}}
		}
		if frames == 0 {
			continue
		}
		for ch := range out {
			src := b[0]
			if c > 1 {
				src = b[ch]
			}
			vek32.Add_Inplace(out[ch], src)
		}
	}
	if out == nil {
		out = osc.NewBuffer(1, 0)
	}
	return out, nil
}

// Normalize returns a copy of b scaled so its peak is level.
func Normalize(b osc.Buffer, level float32) osc.Buffer {
	out := b.Clone()
	peak := out.Peak()
	if peak == 0 {
		return out
	}
	for _, ch := range out {
		vek32.MulNumber_Inplace(ch, level/peak)
	}
	return out
}
