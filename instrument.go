package oscmix

import (
	"github.com/cbegin/oscmix/internal/compiler"
	"github.com/cbegin/oscmix/internal/effects"
	"github.com/cbegin/oscmix/note"
	"github.com/cbegin/oscmix/osc"
	"github.com/cbegin/oscmix/tempo"
)

// Instrument is the sound bound to a part.
type Instrument struct {
	Osc osc.Oscillator
	// Gain scales every note. NewInstrument and ParseInstrument set it to 1.
	Gain float32
	// Channels is the channel count of a part with no notes. Zero means mono.
	Channels int
	// Effects are descriptions such as "delay 250,0.4,0.3", applied in order
	// to the rendered part.
	Effects []string
}

// DefaultInstrument is a plain sine at unity gain.
func DefaultInstrument() Instrument {
	return NewInstrument(osc.Sine)
}

func NewInstrument(o osc.Oscillator, effects ...string) Instrument {
	return Instrument{Osc: o, Gain: 1, Effects: effects}
}

// ParseInstrument builds an instrument from an oscillator expression such as
// "sine * adsr(0.01, 0.1, 0.7, 0.2)".
func ParseInstrument(expr string, effects ...string) (Instrument, error) {
	o, err := osc.Parse(expr)
	if err != nil {
		return Instrument{}, err
	}
	return NewInstrument(o, effects...), nil
}

// Validate checks that the instrument can be compiled at sampleRate.
func (i Instrument) Validate(sampleRate int) error {
	if i.Osc == nil {
		return errNoOscillator
	}
	_, err := effects.ParseChain(i.Effects, sampleRate)
	return err
}

// Compiler renders one part.
type Compiler interface {
	Compile(instr Instrument, t tempo.Tempo, seq note.Sequence) (osc.Buffer, error)
}

// CompilerFunc adapts a function to Compiler.
type CompilerFunc func(instr Instrument, t tempo.Tempo, seq note.Sequence) (osc.Buffer, error)

func (f CompilerFunc) Compile(instr Instrument, t tempo.Tempo, seq note.Sequence) (osc.Buffer, error) {
	return f(instr, t, seq)
}

// NewCompiler returns the synthesizer used by default: each note evaluates the
// instrument oscillator at the note's pitch, and the instrument effects run
// over the finished part.
func NewCompiler(sampleRate int) Compiler {
	return CompilerFunc(func(instr Instrument, t tempo.Tempo, seq note.Sequence) (osc.Buffer, error) {
		return compiler.Render(compiler.Voice{
			Osc:        instr.Osc,
			Gain:       instr.Gain,
			Channels:   instr.Channels,
			SampleRate: sampleRate,
			Effects:    instr.Effects,
		}, t, seq)
	})
}
