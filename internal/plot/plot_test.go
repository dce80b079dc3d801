package plot

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbegin/oscmix/osc"
)

func TestImageIsAnOscSurface(t *testing.T) {
	im := New(64, 32)
	require.NoError(t, osc.Plot(osc.Pan(osc.Sine, 0.5), im, 2, 0.01, 8000))
	assert.Equal(t, 2, im.Len())
}

func TestRenderDrawsCurves(t *testing.T) {
	im := New(40, 20)
	im.Axis = nil
	im.Curve([]float32{0, 0, 0, 0})
	img := im.Render()

	// A flat curve is drawn through the vertical middle.
	mid := img.RGBAAt(20, 9)
	assert.NotEqual(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, mid)
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, img.RGBAAt(20, 1))
}

func TestRenderEmptyAndTiny(t *testing.T) {
	im := New(10, 10)
	img := im.Render()
	assert.Equal(t, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}, img.RGBAAt(5, 5))

	im = New(1, 1)
	im.Curve([]float32{1, 2, 3})
	assert.Equal(t, 1, im.Render().Bounds().Dx())
}

func TestCurveCopiesSamples(t *testing.T) {
	im := New(10, 10)
	samples := []float32{1, 2}
	im.Curve(samples)
	samples[0] = 100
	lo, hi := im.bounds()
	assert.Less(t, hi, float32(3))
	assert.Greater(t, lo, float32(0))
}

func TestWritePNG(t *testing.T) {
	im := New(32, 16)
	im.Curve([]float32{-1, 1, -1, 1})
	var buf bytes.Buffer
	require.NoError(t, im.WritePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())
}
