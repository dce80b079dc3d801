package osc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSurface struct {
	curves [][]float32
}

func (s *recordingSurface) Curve(samples []float32) {
	s.curves = append(s.curves, samples)
}

func TestWindowRamps(t *testing.T) {
	probe := NewLeaf("probe", PhaseTimeDuration, 3, func(in, out []float32) {
		copy(out, in)
	})
	data, err := Window(probe, 2, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 3, data.Channels())
	require.Equal(t, 10, data.Frames())

	phase, time, duration := data[0], data[1], data[2]
	assert.InDeltaSlice(t, []float32{0, 0.25, 0.5, 0.75, 1, 0, 0.25, 0.5, 0.75, 1}, phase, 1e-6)
	assert.InDelta(t, 0, time[0], 1e-6)
	assert.InDelta(t, 0.9, time[9], 1e-6)
	for _, d := range duration {
		assert.Equal(t, float32(1), d)
	}
}

func TestWindowTooShort(t *testing.T) {
	_, err := Window(Sine, 20, 0.001, 1000)
	assert.Error(t, err)
	_, err = Window(Sine, 1, 1, 0)
	assert.Error(t, err)
}

func TestPlotDrawsOneCurvePerChannel(t *testing.T) {
	mono := &recordingSurface{}
	require.NoError(t, Plot(Sine, mono, 1, 0.01, 8000))
	require.Len(t, mono.curves, 1)
	assert.Len(t, mono.curves[0], 80)

	stereo := &recordingSurface{}
	require.NoError(t, Plot(Pan(Saw, 0.3), stereo, 3, 0.01, 8000))
	assert.Len(t, stereo.curves, 2)

	failing := &recordingSurface{}
	bad := NewLeaf("bad", 5, 1, func(in, out []float32) {})
	assert.ErrorIs(t, Plot(bad, failing, 1, 0.01, 8000), ErrArity)
	assert.Empty(t, failing.curves)
}
