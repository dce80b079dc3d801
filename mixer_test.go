package oscmix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/oscmix/osc"
)

func TestSumNormalize(t *testing.T) {
	tracks := map[string]osc.Buffer{
		"a": {{0.5, -1, 0}},
		"b": {{0.5, -1, 0.5}},
	}
	out, err := DefaultMixer.Mix(tracks)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.5, -1, 0.25}, out[0], 1e-6)

	half, err := SumNormalize{Level: 0.5}.Mix(tracks)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float32{0.25, -0.5, 0.125}, half[0], 1e-6)
	assert.Equal(t, osc.Buffer{{0.5, -1, 0}}, tracks["a"], "tracks are not modified")
}

func TestSumNormalizeSilence(t *testing.T) {
	out, err := DefaultMixer.Mix(map[string]osc.Buffer{"a": {{0, 0}}, "b": {{0, 0}}})
	require.NoError(t, err)
	assert.Equal(t, osc.Buffer{{0, 0}}, out)

	out, err = DefaultMixer.Mix(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Channels())
	assert.Zero(t, out.Frames())
}

func TestSumBroadcastsMonoIntoStereo(t *testing.T) {
	out, err := Sum(map[string]osc.Buffer{
		"mono":   {{1, 2}},
		"stereo": {{10, 20}, {30, 40}},
	})
	require.NoError(t, err)
	assert.Equal(t, osc.Buffer{{11, 22}, {31, 42}}, out)
}

func TestSumSkipsTracksWithoutChannels(t *testing.T) {
	out, err := Sum(map[string]osc.Buffer{
		"a":    nil,
		"b":    {{1, 2}},
		"none": {},
	})
	require.NoError(t, err)
	assert.Equal(t, osc.Buffer{{1, 2}}, out)

	out, err = Sum(map[string]osc.Buffer{"a": nil})
	require.NoError(t, err)
	assert.Zero(t, out.Frames())
}

func TestSumRejectsMismatchedShapes(t *testing.T) {
	_, err := Sum(map[string]osc.Buffer{
		"stereo": {{1, 2}, {3, 4}},
		"quad":   {{1, 2}, {3, 4}, {5, 6}, {7, 8}},
	})
	assert.ErrorIs(t, err, osc.ErrShape)

	_, err = Sum(map[string]osc.Buffer{
		"short": {{1}},
		"long":  {{1, 2}},
	})
	assert.ErrorIs(t, err, osc.ErrShape)
}

func TestMixerFunc(t *testing.T) {
	first := MixerFunc(func(tracks map[string]osc.Buffer) (osc.Buffer, error) {
		return tracks["a"], nil
	})
	out, err := first.Mix(map[string]osc.Buffer{"a": {{3}}})
	require.NoError(t, err)
	assert.Equal(t, osc.Buffer{{3}}, out)
}
