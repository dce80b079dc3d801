package audio

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/oscmix/osc"
)

func TestBufferSourceDuplicatesMono(t *testing.T) {
	s := NewBufferSource(osc.Buffer{{1, 2, 3}})
	dst := make([]float32, 4)
	s.Process(dst)
	assert.Equal(t, []float32{1, 1, 2, 2}, dst)
	assert.False(t, s.Finished())
	s.Process(dst)
	assert.Equal(t, []float32{3, 3, 0, 0}, dst)
	assert.True(t, s.Finished())
}

func TestBufferSourceUsesFirstTwoChannels(t *testing.T) {
	s := NewBufferSource(osc.Buffer{{1, 2}, {3, 4}, {5, 6}})
	dst := make([]float32, 4)
	s.Process(dst)
	assert.Equal(t, []float32{1, 3, 2, 4}, dst)

	assert.True(t, NewBufferSource(nil).Finished())
}

func TestStreamReaderEncodesFloat32Stereo(t *testing.T) {
	r := NewStreamReader(NewBufferSource(osc.Buffer{{0.5, -0.25}}))
	p := make([]byte, 32)
	n, err := r.Read(p)
	require.NoError(t, err)
	require.Equal(t, 32, n)

	got := make([]float32, 8)
	for i := range got {
		got[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
	}
	assert.Equal(t, []float32{0.5, 0.5, -0.25, -0.25, 0, 0, 0, 0}, got)

	n, err = r.Read(p)
	assert.Zero(t, n)
	assert.ErrorIs(t, err, io.EOF)

	n, err = NewStreamReader(NewBufferSource(osc.Buffer{{1}})).Read(make([]byte, 7))
	assert.Zero(t, n)
	assert.NoError(t, err)
	assert.NoError(t, r.Close())
}
