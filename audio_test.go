package oscmix

import (
	"bytes"
	"testing"
	"time"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/oscmix/osc"
)

func TestAudioSamples(t *testing.T) {
	a := &Audio{Data: osc.Buffer{{0.1, 0.2}, {-0.4, 0}}, Rate: 4}
	assert.Equal(t, []float32{0.1, -0.4, 0.2, 0}, a.Samples())
	assert.Equal(t, 500*time.Millisecond, a.Duration())
	assert.Equal(t, 2, a.Channels())
	assert.Equal(t, 2, a.Frames())

	a.Normalize = true
	assert.InDeltaSlice(t, []float32{0.25, -1, 0.5, 0}, a.Samples(), 1e-6)
	assert.Equal(t, osc.Buffer{{0.1, 0.2}, {-0.4, 0}}, a.Data)
}

func TestAudioWAV(t *testing.T) {
	a := &Audio{Data: osc.Buffer{{0, 0.5, 1, 2}, {0, -0.5, -1, -2}}, Rate: 8000}
	data, err := a.WAV()
	require.NoError(t, err)
	require.Greater(t, len(data), 44)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))

	dec := wav.NewDecoder(bytes.NewReader(data))
	require.True(t, dec.IsValidFile())
	assert.Equal(t, uint16(2), dec.NumChans)
	assert.Equal(t, uint32(8000), dec.SampleRate)
	assert.Equal(t, uint16(16), dec.BitDepth)

	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 16383, -16383, 32767, -32767, 32767, -32767}, buf.Data)
}

func TestAudioWAVNeedsRate(t *testing.T) {
	_, err := (&Audio{Data: osc.Buffer{{0}}}).WAV()
	assert.Error(t, err)
	assert.Zero(t, (&Audio{Data: osc.Buffer{{0}}}).Duration())
}

func TestMemFileSeeks(t *testing.T) {
	f := &memFile{}
	_, err := f.Write([]byte("abcdef"))
	require.NoError(t, err)
	pos, err := f.Seek(2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), pos)
	_, err = f.Write([]byte("XY"))
	require.NoError(t, err)
	pos, err = f.Seek(0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)
	_, err = f.Write([]byte("!"))
	require.NoError(t, err)
	assert.Equal(t, "abXYef!", string(f.buf))
	_, err = f.Seek(-10, 1)
	assert.Error(t, err)
}
