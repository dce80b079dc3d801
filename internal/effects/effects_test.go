package effects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/oscmix/osc"
)

func TestDelayProducesOutput(t *testing.T) {
	d := NewDelay(44100, 100, 0.5, 0.5)
	// ~100ms at 44100Hz
	d.Process(1.0)
	for i := 0; i < 4409; i++ {
		d.Process(0)
	}
	out := d.Process(0)
	assert.Greater(t, math.Abs(float64(out)), 0.01)
}

func TestReverbProducesOutput(t *testing.T) {
	r := NewReverb(44100, 0.5, 0.7, 0.5)
	r.Process(1.0)
	var maxOut float32
	for i := 0; i < 10000; i++ {
		maxOut = max(maxOut, r.Process(0))
	}
	assert.Greater(t, maxOut, float32(0.001), "expected reverb tail")
}

func TestDistortionClips(t *testing.T) {
	d := NewDistortion(44100, 10, 0.5, 0)
	out := d.Process(0.5)
	assert.LessOrEqual(t, math.Abs(float64(out)), 0.5)
	assert.Greater(t, math.Abs(float64(out)), 0.01)
}

func TestChorusStaysBounded(t *testing.T) {
	c := NewChorus(8000, 15, 0.3, 3, 1.5, 0.4)
	for i := 0; i < 8000; i++ {
		x := float32(math.Sin(float64(i) * 0.05))
		out := c.Process(x)
		require.False(t, math.IsNaN(float64(out)))
		require.LessOrEqual(t, math.Abs(float64(out)), 2.0)
	}
}

func TestEQ3BandUnityGain(t *testing.T) {
	eq := NewEQ3Band(44100, 1.0, 1.0, 1.0, 300, 3000)
	for i := 0; i < 1000; i++ {
		eq.Process(0.5)
	}
	assert.InDelta(t, 0.5, eq.Process(0.5), 0.1)
}

func TestEQ5BandUnityAndMute(t *testing.T) {
	eq := NewEQ5Band(44100)
	for i := 0; i < 100; i++ {
		assert.InDelta(t, 0.3, eq.Process(0.3), 1e-5)
	}
	eq.Reset()
	for band := 0; band < 5; band++ {
		eq.SetGain(band, 0)
	}
	assert.Zero(t, eq.Process(0.3))
	assert.Equal(t, float32(0), eq.Gain(2))
	assert.Equal(t, float32(1), eq.Gain(9))
}

func TestCompressorReducesLoud(t *testing.T) {
	c := NewCompressor(44100, -10, 4, 1, 50, 0)
	var out float32
	for i := 0; i < 1000; i++ {
		out = c.Process(1.0)
	}
	assert.Less(t, out, float32(1.0))
}

func TestChainAppliesPerChannelFromResetState(t *testing.T) {
	c := NewChain(NewDelay(1000, 2, 0, 1))
	in := osc.Buffer{{1, 0, 0, 0}, {0.5, 0, 0, 0}}
	out := c.Apply(in)

	assert.Equal(t, osc.Buffer{{0, 0, 1, 0}, {0, 0, 0.5, 0}}, out)
	assert.Equal(t, osc.Buffer{{1, 0, 0, 0}, {0.5, 0, 0, 0}}, in, "input is untouched")

	empty := NewChain()
	assert.Equal(t, in, empty.Apply(in))
}

func TestChainAppliesEffectsInOrder(t *testing.T) {
	c := NewChain(
		NewDistortion(44100, 2, 1, 0),
		NewDelay(44100, 10, 0, 0.5),
	)
	assert.NotZero(t, c.Process(0.5))
	assert.Equal(t, 2, c.Len())
}

func TestParseChain(t *testing.T) {
	chain, err := ParseChain([]string{
		"delay 250,0.4,0.3",
		"{reverb 0.5}",
		"chorus",
		"dist 4, 0.5",
		"eq 1,1,1",
		"eq5 1,0.5",
		"comp -20,4",
		"Compressor",
	}, 44100)
	require.NoError(t, err)
	assert.Equal(t, 8, chain.Len())

	d, err := Parse("delay 1,0,1", 1000)
	require.NoError(t, err)
	require.IsType(t, &Delay{}, d)
	assert.Len(t, d.(*Delay).buf, 1)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("flanger 1,2", 44100)
	assert.ErrorIs(t, err, ErrUnknownEffect)
	_, err = Parse("", 44100)
	assert.ErrorIs(t, err, ErrUnknownEffect)
	_, err = Parse("delay fast", 44100)
	assert.Error(t, err)
	_, err = ParseChain([]string{"reverb", "wah"}, 44100)
	assert.ErrorIs(t, err, ErrUnknownEffect)
}
