package compiler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/oscmix/note"
	"github.com/cbegin/oscmix/osc"
	"github.com/cbegin/oscmix/tempo"
)

func voice(o osc.Oscillator) Voice {
	return Voice{Osc: o, Gain: 1, SampleRate: 8000}
}

func TestRenderTwoQuarterNotes(t *testing.T) {
	seq := note.Sequence{note.Note{Pitch: 69, Length: 1}, note.Note{Pitch: 69, Length: 1}}
	buf, err := Render(voice(osc.Sine), tempo.Constant(120), seq)
	require.NoError(t, err)
	require.Equal(t, 1, buf.Channels())
	// Two half-second notes at 8kHz.
	assert.Equal(t, 8000, buf.Frames())

	// 440Hz sine: a quarter period after each onset is the crest.
	quarter := 8000 / 440 / 4
	assert.InDelta(t, math.Sin(2*math.Pi*440*float64(quarter)/8000), buf[0][quarter], 1e-4)
	assert.InDelta(t, 0, buf[0][4000], 1e-6, "second note restarts its phase")
}

func TestRenderRestsVelocityAndGain(t *testing.T) {
	seq := note.Sequence{
		note.Rest{Length: 1},
		note.Velocity{Level: 0.5},
		note.Note{Pitch: 60, Length: 1},
	}
	v := voice(osc.Constant(1))
	v.Gain = 0.5
	buf, err := Render(v, tempo.Constant(60), seq)
	require.NoError(t, err)
	require.Equal(t, 16000, buf.Frames())
	for _, x := range buf[0][:8000] {
		require.Zero(t, x)
	}
	for _, x := range buf[0][8000:] {
		require.Equal(t, float32(0.25), x)
	}
}

func TestRenderPassesNoteTimeAndDuration(t *testing.T) {
	probe := osc.NewLeaf("probe", osc.PhaseTimeDuration, 2, func(in, out []float32) {
		out[0] = in[1]
		out[1] = in[2]
	})
	seq := note.Sequence{note.Note{Pitch: 60, Length: 2}, note.Note{Pitch: 60, Length: 1}}
	buf, err := Render(voice(probe), tempo.Constant(60), seq)
	require.NoError(t, err)
	require.Equal(t, 2, buf.Channels())
	require.Equal(t, 24000, buf.Frames())

	assert.InDelta(t, 0, buf[0][0], 1e-6)
	assert.InDelta(t, 1, buf[0][8000], 1e-6)
	assert.InDelta(t, 0, buf[0][16000], 1e-6, "time restarts at each onset")
	assert.InDelta(t, 2, buf[1][100], 1e-6)
	assert.InDelta(t, 1, buf[1][20000], 1e-6)
}

func TestRenderFollowsTempoChanges(t *testing.T) {
	m, err := tempo.NewMap(60, tempo.Change{Beat: 1, BPM: 120})
	require.NoError(t, err)
	seq := note.Sequence{note.Note{Pitch: 60, Length: 1}, note.Note{Pitch: 60, Length: 2}}
	buf, err := Render(voice(osc.Sine), m, seq)
	require.NoError(t, err)
	assert.Equal(t, 16000, buf.Frames())
}

func TestRenderEmptySequence(t *testing.T) {
	buf, err := Render(voice(osc.Sine), tempo.Constant(120), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, buf.Channels())
	assert.Zero(t, buf.Frames())

	v := voice(osc.Sine)
	v.Channels = 2
	buf, err = Render(v, tempo.Constant(120), note.Sequence{note.Rest{Length: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, buf.Channels())
	assert.Equal(t, 4000, buf.Frames())
}

func TestRenderStereoVoice(t *testing.T) {
	buf, err := Render(voice(osc.Pan(osc.Constant(1), 1)), tempo.Constant(120), note.Sequence{note.Note{Pitch: 60, Length: 1}})
	require.NoError(t, err)
	require.Equal(t, 2, buf.Channels())
	assert.InDelta(t, 0, buf[0][10], 1e-6)
	assert.InDelta(t, 1, buf[1][10], 1e-6)
}

func TestRenderAppliesEffects(t *testing.T) {
	v := voice(osc.Constant(1))
	v.SampleRate = 1000
	v.Effects = []string{"delay 2,0,1"}
	buf, err := Render(v, tempo.Constant(60), note.Sequence{note.Note{Pitch: 60, Length: 0.005}, note.Rest{Length: 0.005}})
	require.NoError(t, err)
	assert.Equal(t, osc.Buffer{{0, 0, 1, 1, 1, 1, 1, 0, 0, 0}}, buf)
}

func TestRenderErrors(t *testing.T) {
	seq := note.Sequence{note.Note{Pitch: 60, Length: 1}}

	bad := osc.NewLeaf("bad", 4, 1, func(in, out []float32) {})
	_, err := Render(voice(bad), tempo.Constant(120), seq)
	assert.ErrorIs(t, err, osc.ErrArity)

	_, err = Render(Voice{Osc: osc.Sine, Gain: 1}, tempo.Constant(120), seq)
	assert.Error(t, err)

	_, err = Render(Voice{Gain: 1, SampleRate: 8000}, tempo.Constant(120), seq)
	assert.Error(t, err)

	v := voice(osc.Sine)
	v.Effects = []string{"wah"}
	_, err = Render(v, tempo.Constant(120), seq)
	assert.Error(t, err)

	_, err = Render(voice(osc.Sine), tempo.Constant(120), note.Sequence{note.Rest{Length: -1}})
	assert.Error(t, err)

	mixed := note.Sequence{
		note.Note{Pitch: 60, Length: 1},
		note.Note{Pitch: 60, Length: 1},
	}
	_, err = Render(voice(&growingOsc{}), tempo.Constant(120), mixed)
	assert.ErrorIs(t, err, osc.ErrShape)
}

// growingOsc adds a channel on every evaluation.
type growingOsc struct{ calls int }

func (g *growingOsc) Map(phase, time, duration []float32) (osc.Buffer, error) {
	g.calls++
	return osc.NewBuffer(g.calls+1, len(phase)), nil
}
