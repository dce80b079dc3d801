package osc

import (
	"errors"
	"fmt"

	"github.com/viterin/vek/vek32"
)

// ErrShape is returned when two buffers cannot be combined elementwise.
var ErrShape = errors.New("osc: incompatible buffer shapes")

// Buffer holds sample data. The leading axis is the channel, the trailing
// axis is time (frames). Single-output oscillators produce one channel.
type Buffer [][]float32

// NewBuffer allocates a silent buffer.
func NewBuffer(channels, frames int) Buffer {
	b := make(Buffer, channels)
	for c := range b {
		b[c] = make([]float32, frames)
	}
	return b
}

// Mono wraps samples as a single-channel buffer without copying.
func Mono(samples []float32) Buffer {
	return Buffer{samples}
}

// Value returns a 1x1 constant that broadcasts over channels and frames.
func Value(k float32) Buffer {
	return Buffer{{k}}
}

func (b Buffer) Channels() int { return len(b) }

// Frames returns the length of the trailing axis.
func (b Buffer) Frames() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

// Shape returns (channels, frames).
func (b Buffer) Shape() (int, int) {
	return b.Channels(), b.Frames()
}

func (b Buffer) Clone() Buffer {
	out := make(Buffer, len(b))
	for c, ch := range b {
		out[c] = append([]float32(nil), ch...)
	}
	return out
}

// Peak returns the largest absolute sample value, or 0 for an empty buffer.
func (b Buffer) Peak() float32 {
	var peak float32
	for _, ch := range b {
		if len(ch) == 0 {
			continue
		}
		if p := vek32.Max(vek32.Abs(ch)); p > peak {
			peak = p
		}
	}
	return peak
}

// PadFrames appends silence on the trailing axis until the buffer is n frames
// long. Leading axes are untouched. A buffer that is already n frames or
// longer is returned as is.
func (b Buffer) PadFrames(n int) Buffer {
	if b.Frames() >= n {
		return b
	}
	out := make(Buffer, len(b))
	for c, ch := range b {
		padded := make([]float32, n)
		copy(padded, ch)
		out[c] = padded
	}
	return out
}

// Interleave flattens the buffer frame by frame (L R L R ... for stereo).
func (b Buffer) Interleave() []float32 {
	channels, frames := b.Shape()
	out := make([]float32, channels*frames)
	for c, ch := range b {
		for i, v := range ch {
			out[i*channels+c] = v
		}
	}
	return out
}

// ShapeError reports two operands whose shapes do not broadcast.
type ShapeError struct {
	Op          string
	Left, Right [2]int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("osc: cannot broadcast %dx%d with %dx%d in %q",
		e.Left[0], e.Left[1], e.Right[0], e.Right[1], e.Op)
}

func (e *ShapeError) Unwrap() error { return ErrShape }

// broadcastShape applies the elementwise broadcasting rule to both axes: sizes
// must match, or one of them must be 1.
func broadcastShape(op string, a, b Buffer) (int, int, error) {
	ca, fa := a.Shape()
	cb, fb := b.Shape()
	channels, ok := broadcastDim(ca, cb)
	if ok {
		var frames int
		if frames, ok = broadcastDim(fa, fb); ok {
			return channels, frames, nil
		}
	}
	return 0, 0, &ShapeError{Op: op, Left: [2]int{ca, fa}, Right: [2]int{cb, fb}}
}

func broadcastDim(a, b int) (int, bool) {
	switch {
	case a == b:
		return a, true
	case a == 1:
		return b, true
	case b == 1:
		return a, true
	}
	return 0, false
}

// row returns channel c of b, broadcasting a single channel.
func (b Buffer) row(c int) []float32 {
	if len(b) == 1 {
		return b[0]
	}
	return b[c]
}
