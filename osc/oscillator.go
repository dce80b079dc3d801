// Package osc builds audio generators as algebraic expressions over primitive
// waveforms and evaluates them lazily over batches of (phase, time, duration)
// samples.
//
// Combinators never evaluate anything: they return expression nodes holding
// references to their operands. Samples are only computed when Map is called
// on the resulting node, which evaluates every child independently. A
// sub-oscillator shared by several nodes is recomputed once per use.
package osc

import (
	"errors"
	"fmt"
	"sync"
)

// ErrArity is returned when a leaf declares an unsupported number of inputs.
var ErrArity = errors.New("osc: take must accept 1, 2 or 3 inputs")

// Oscillator turns parallel phase, time and duration arrays into samples.
// Implementations must not keep mutable state between calls.
type Oscillator interface {
	Map(phase, time, duration []float32) (Buffer, error)
}

// Arity selects which of the three inputs a leaf consumes.
type Arity int

const (
	PhaseOnly         Arity = 1
	PhaseTime         Arity = 2
	PhaseTimeDuration Arity = 3
)

func (a Arity) String() string {
	switch a {
	case PhaseOnly:
		return "phase"
	case PhaseTime:
		return "phase,time"
	case PhaseTimeDuration:
		return "phase,time,duration"
	}
	return fmt.Sprintf("Arity(%d)", int(a))
}

// ArityError is returned by Map the first time a leaf with an invalid arity is
// evaluated.
type ArityError struct {
	Leaf  string
	Arity int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("osc: leaf %q takes %d inputs; want 1, 2 or 3", e.Leaf, e.Arity)
}

func (e *ArityError) Unwrap() error { return ErrArity }

// TakeFunc computes one frame. in holds the consumed inputs in (phase, time,
// duration) order and has exactly arity elements; out has one slot per
// channel.
type TakeFunc func(in, out []float32)

// Leaf is a primitive oscillator defined by a per-sample function.
type Leaf struct {
	name     string
	arity    Arity
	channels int
	take     TakeFunc

	once   sync.Once
	mapper func(in [3][]float32) Buffer
	err    error
}

// NewLeaf creates a leaf with an explicit arity and channel count. The arity
// is not checked here; an unsupported value surfaces as an *ArityError on the
// first Map.
func NewLeaf(name string, arity Arity, channels int, take TakeFunc) *Leaf {
	if channels < 1 {
		channels = 1
	}
	return &Leaf{name: name, arity: arity, channels: channels, take: take}
}

// Phase creates a mono leaf of phase alone.
func Phase(name string, f func(p float32) float32) *Leaf {
	return NewLeaf(name, PhaseOnly, 1, func(in, out []float32) {
		out[0] = f(in[0])
	})
}

// NewPhaseTime creates a mono leaf of phase and time.
func NewPhaseTime(name string, f func(p, t float32) float32) *Leaf {
	return NewLeaf(name, PhaseTime, 1, func(in, out []float32) {
		out[0] = f(in[0], in[1])
	})
}

// NewPhaseTimeDuration creates a mono leaf of all three inputs.
func NewPhaseTimeDuration(name string, f func(p, t, d float32) float32) *Leaf {
	return NewLeaf(name, PhaseTimeDuration, 1, func(in, out []float32) {
		out[0] = f(in[0], in[1], in[2])
	})
}

func (l *Leaf) Arity() Arity   { return l.arity }
func (l *Leaf) Channels() int  { return l.channels }
func (l *Leaf) String() string { return l.name }

// Map evaluates the leaf over the inputs it consumes; unused inputs are
// ignored and may be nil.
func (l *Leaf) Map(phase, time, duration []float32) (Buffer, error) {
	l.once.Do(l.vectorize)
	if l.err != nil {
		return nil, l.err
	}
	in := [3][]float32{phase, time, duration}
	for k := 1; k < int(l.arity); k++ {
		if len(in[k]) != len(phase) {
			return nil, &ShapeError{
				Op:    l.name,
				Left:  [2]int{1, len(phase)},
				Right: [2]int{1, len(in[k])},
			}
		}
	}
	return l.mapper(in), nil
}

// vectorize builds the per-leaf batch evaluator once.
func (l *Leaf) vectorize() {
	if l.arity < PhaseOnly || l.arity > PhaseTimeDuration {
		l.err = &ArityError{Leaf: l.name, Arity: int(l.arity)}
		return
	}
	arity := int(l.arity)
	l.mapper = func(in [3][]float32) Buffer {
		frames := len(in[0])
		out := NewBuffer(l.channels, frames)
		args := make([]float32, arity)
		frame := make([]float32, l.channels)
		for i := 0; i < frames; i++ {
			for k := range args {
				args[k] = in[k][i]
			}
			l.take(args, frame)
			for c, v := range frame {
				out[c][i] = v
			}
		}
		return out
	}
}

// Take evaluates o at a single (phase, time, duration) sample and returns one
// value per channel.
func Take(o Oscillator, phase, time, duration float32) ([]float32, error) {
	b, err := o.Map([]float32{phase}, []float32{time}, []float32{duration})
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(b))
	for c, ch := range b {
		if len(ch) == 0 {
			return nil, &ShapeError{Op: "take", Left: [2]int{len(b), 0}, Right: [2]int{1, 1}}
		}
		out[c] = ch[0]
	}
	return out, nil
}
